package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoJSONObject 回應中找不到完整的 JSON 物件
var ErrNoJSONObject = errors.New("no JSON object in response")

// ParseJSON 解析單一 JSON 值，數字保留為 json.Number，尾端多餘資料視為錯誤
func ParseJSON(data string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ExtractJSONObject 擷取第一個括號平衡的 JSON 物件，略過前後說明文字與程式碼區塊標記
func ExtractJSONObject(content string) (string, error) {
	start := strings.IndexByte(content, '{')
	if start == -1 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(content); i++ {
		ch := content[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}
