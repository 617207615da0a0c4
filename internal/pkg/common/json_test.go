package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "fenced", content: "Sure!\n```json\n{\"a\": {\"b\": 1}}\n```", want: `{"a": {"b": 1}}`},
		{name: "trailing prose with braces", content: `{"a": 1} hope {this} helps`, want: `{"a": 1}`},
		{name: "braces inside strings", content: `{"note": "use } and { freely", "q": "say \"}\""}`, want: `{"note": "use } and { freely", "q": "say \"}\""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"no object here", "} backwards {", `{"a": {"b": 1}`} {
		_, err := ExtractJSONObject(bad)
		assert.ErrorIs(t, err, ErrNoJSONObject, bad)
	}
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"a": 1, "b_c": [{"d": 2}]}`, QuoteJSONKeys(`{a: 1, b_c: [{d: 2}]}`))
	assert.Equal(t, `{"a": 1}`, QuoteJSONKeys(`{"a": 1}`))
}

func TestParseJSON(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, ParseJSON(`{"a": 1}`, &v))
	assert.Equal(t, json.Number("1"), v["a"])

	assert.Error(t, ParseJSON(`{"a": 1} {"b": 2}`, &v))
	assert.Error(t, ParseJSON(`{"a": `, &v))
}
