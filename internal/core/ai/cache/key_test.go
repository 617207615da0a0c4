package cache

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"garden-assistant/internal/pkg/common"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestDeriveKey_Deterministic(t *testing.T) {
	t.Parallel()

	a := DeriveKey("Climbing Rose", "ground", 9, 1)
	b := DeriveKey("Climbing Rose", "ground", 9, 1)

	assert.Equal(t, a, b)
	assert.Regexp(t, hexKey, a)
}

func TestDeriveKey_EachFieldChangesKey(t *testing.T) {
	t.Parallel()

	base := DeriveKey("Climbing Rose", "ground", 9, 1)

	variants := map[string]string{
		"name":       DeriveKey("Rambling Rose", "ground", 9, 1),
		"planted_in": DeriveKey("Climbing Rose", "pot", 9, 1),
		"zone":       DeriveKey("Climbing Rose", "ground", 10, 1),
		"version":    DeriveKey("Climbing Rose", "ground", 9, 2),
	}

	for field, key := range variants {
		assert.NotEqual(t, base, key, "changing %s must change the key", field)
	}
}

func TestDeriveKey_SchemaBumpOrphansPriorKey(t *testing.T) {
	t.Parallel()

	ctx := KeyContext{Name: "Tomato", PlantedIn: common.PlantedInPot, Zone: 8, SchemaVersion: 3}
	old := ctx.Key()
	ctx.SchemaVersion++

	assert.NotEqual(t, old, ctx.Key())
}

func TestDeriveKey_NameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DeriveKey("TOMATO", "", 0, 1), DeriveKey("tomato", "", 0, 1))
}

func TestDeriveKey_AbsentValuesUseLiteralTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DeriveKey("Tomato", "", 0, 1), DeriveKey("Tomato", "unspecified", 0, 1))
	assert.NotEqual(t, DeriveKey("Tomato", "", 0, 1), DeriveKey("Tomato", "", 8, 1))
}

func TestDeriveKey_SeparatorCannotShiftFields(t *testing.T) {
	t.Parallel()

	// 名稱中的分隔字元被移除，無法偽造其他欄位
	forged := DeriveKey("Tomato\x1fpot", "", 0, 1)
	assert.Equal(t, DeriveKey("Tomatopot", "", 0, 1), forged)
	assert.NotEqual(t, DeriveKey("Tomato", "pot", 0, 1), forged)
}
