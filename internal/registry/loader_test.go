package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "tickers.json", `[
		{"code": "7974", "name": "任天堂"},
		{"code": 1, "name": "数値コード"},
		{"code": " 7203 ", "name": " トヨタ自動車 "}
	]`)

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "7974", entries[0].Code)
	assert.Equal(t, "0001", entries[1].Code)
	assert.Equal(t, "7203", entries[2].Code)
	assert.Equal(t, "トヨタ自動車", entries[2].Name)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "tickers.yaml", `
- code: "7974"
  name: 任天堂
- code: 6758
  name: ソニーグループ
`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	e, ok := reg.LookupCode("6758")
	require.True(t, ok)
	assert.Equal(t, "ソニーグループ", e.Name)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"code": "7974"`))
	assert.Error(t, err)
}

func TestLoad_BundledRegistry(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "data", "japan_tickers.json"))
	require.NoError(t, err)
	assert.Zero(t, reg.Skipped())

	e, ok := reg.LookupCode("7974")
	require.True(t, ok)
	assert.Equal(t, "任天堂", e.Name)
}
