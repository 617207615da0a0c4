package plant

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"garden-assistant/internal/pkg/common"
)

// quotedPattern 引號包住的品種名。單引號只在字首或空白、標點之後才算開引號，
// 且結束引號之後必須是字尾、空白或標點，所有格的 's 不會被當成引號
var quotedPattern = regexp.MustCompile(
	`(^|[\s(\[{,;:])(?:'.*?'|‘.*?’)($|[\s)\]},;:.!?])|"[^"]*"|“[^”]*”`,
)

// aliasRule 完整字串別名，對應到標準名稱
type aliasRule struct {
	phrase    string // 小寫完整字串
	canonical string
}

// aliasRules 依宣告順序比對，第一個符合者生效
var aliasRules = []aliasRule{
	{"hybrid tea", "Hybrid Tea Rose"},
	{"hybrid tea rose", "Hybrid Tea Rose"},
	{"hybrid tea roses", "Hybrid Tea Rose"},
	{"floribunda", "Floribunda Rose"},
	{"floribunda rose", "Floribunda Rose"},
	{"english rose", "English Shrub Rose"},
	{"david austin rose", "English Shrub Rose"},
	{"climber rose", "Climbing Rose"},
	{"climbing rose", "Climbing Rose"},
	{"rambler", "Rambling Rose"},
	{"rambler rose", "Rambling Rose"},
	{"rambling rose", "Rambling Rose"},
	{"patio rose", "Patio Rose"},
	{"cherry tomatoes", "Cherry Tomato"},
	{"tomato plant", "Tomato"},
	{"tomatoes", "Tomato"},
	{"spuds", "Potato"},
	{"courgettes", "Courgette"},
	{"zucchini", "Courgette"},
	{"runner beans", "Runner Bean"},
	{"sweet peas", "Sweet Pea"},
	{"butterfly bush", "Buddleja"},
	{"buddleia", "Buddleja"},
}

// noiseTokens 泛用修飾詞（大小、來源），以子字串方式移除
// 較長的詞必須排在其前綴之前
var noiseTokens = []string{
	"miniature",
	"dwarf",
	"giant",
	"compact",
	"heirloom",
	"organic",
	"potted",
	"native",
	"imported",
	"common",
}

// Normalize 將自由文字植物名稱轉為標準名稱，提高快取命中率。
// 對已正規化的名稱再次呼叫會得到相同結果。
func Normalize(raw string) string {
	trimmed := common.CollapseSpaces(norm.NFC.String(raw))
	if trimmed == "" {
		return ""
	}

	stripped := common.CollapseSpaces(stripQuoted(trimmed))
	if stripped == "" {
		// 整個輸入都是品種名，保留原值
		return trimmed
	}

	if canonical, ok := lookupAlias(stripped); ok {
		return canonical
	}

	cleaned := common.CollapseSpaces(stripNoise(stripped))
	if cleaned == "" {
		return stripped
	}
	if canonical, ok := lookupAlias(cleaned); ok {
		return canonical
	}
	return cleaned
}

// stripQuoted 反覆移除引號內容直到不再變化
func stripQuoted(s string) string {
	for {
		next := quotedPattern.ReplaceAllString(s, "${1} ${2}")
		if next == s {
			return s
		}
		s = next
	}
}

// stripNoise 不分大小寫移除修飾詞，保留其餘原始大小寫
func stripNoise(s string) string {
	for {
		changed := false
		for _, token := range noiseTokens {
			if next, ok := removeFold(s, token); ok {
				s = next
				changed = true
			}
		}
		if !changed {
			return s
		}
	}
}

// removeFold 移除所有不分大小寫的 token 出現位置
func removeFold(s, token string) (string, bool) {
	if !isASCII(s) {
		return removeFoldRunes(s, token)
	}
	lower := strings.ToLower(s)
	if !strings.Contains(lower, token) {
		return s, false
	}
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(lower[i:], token)
		if idx < 0 {
			b.WriteString(s[i:])
			return b.String(), true
		}
		b.WriteString(s[i : i+idx])
		b.WriteByte(' ')
		i += idx + len(token)
	}
}

// removeFoldRunes 處理小寫轉換後位元組長度改變的罕見字元
func removeFoldRunes(s, token string) (string, bool) {
	runes := []rune(s)
	tokenRunes := []rune(token)
	var out []rune
	found := false
	for i := 0; i < len(runes); {
		if i+len(tokenRunes) <= len(runes) && strings.EqualFold(string(runes[i:i+len(tokenRunes)]), token) {
			out = append(out, ' ')
			i += len(tokenRunes)
			found = true
			continue
		}
		out = append(out, runes[i])
		i++
	}
	return string(out), found
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func lookupAlias(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, rule := range aliasRules {
		if rule.phrase == lower {
			return rule.canonical, true
		}
	}
	return "", false
}
