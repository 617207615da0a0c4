package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/pkg/common"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := RootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, "normalize", "Rose", `'Iceberg'`)
	require.NoError(t, err)
	assert.Equal(t, "Rose\n", out)
}

func TestKeyCommand(t *testing.T) {
	out, err := run(t, "key", "Tomato", "--planted-in", "pot", "--location", "Penzance", "--schema-version", "2")
	require.NoError(t, err)
	assert.Equal(t, cache.DeriveKey("Tomato", "pot", 9, 2)+"\n", out)

	_, err = run(t, "key", "Tomato", "--zone", "5")
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestZoneCommand_JSON(t *testing.T) {
	out, err := run(t, "--json", "zone", "Penzance")
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.EqualValues(t, 9, info["zone"])
}

func TestStageCommand(t *testing.T) {
	out, err := run(t, "--json", "stage", "Rose", "--middle", "Climbing Rose", "--month", "12")
	require.NoError(t, err)

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "dormant", res["stage"])

	_, err = run(t, "stage", "Rose", "--month", "13")
	assert.Error(t, err)
}

func TestWindowCommand(t *testing.T) {
	out, err := run(t, "window", "--month", "1", "--start", "11", "--end", "2")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, "window", "--month", "6", "--start", "11", "--end", "2")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = run(t, "window", "--month", "6")
	assert.Error(t, err)
}
