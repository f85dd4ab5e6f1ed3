package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/models"
)

func sampleEntries() []models.TickerEntry {
	return []models.TickerEntry{
		{Code: "7974", Name: "任天堂"},
		{Code: "7203", Name: "トヨタ自動車"},
		{Code: "6758", Name: "ソニーグループ"},
		{Code: "9433", Name: "ＫＤＤＩ"},
		{Code: "8306", Name: "三菱ＵＦＪフィナンシャル・グループ"},
		{Code: "8058", Name: "三菱商事"},
	}
}

func TestMatchByName_RoundTrip(t *testing.T) {
	entries := sampleEntries()
	reg := New(entries)

	for _, e := range entries {
		got, ok := reg.MatchByName(common.Normalize(e.Name))
		require.True(t, ok, "entry %s not matched by its own name", e.Code)
		assert.Equal(t, e, got)
	}
}

func TestMatchByName_ExactBeatsSubstring(t *testing.T) {
	reg := New([]models.TickerEntry{
		{Code: "0001", Name: "ABC Holdings"},
		{Code: "0002", Name: "AB"},
	})

	got, ok := reg.MatchByName(common.Normalize("AB"))
	require.True(t, ok)
	assert.Equal(t, "0002", got.Code)
}

func TestMatchByName_SubstringFirstListedWins(t *testing.T) {
	reg := New(sampleEntries())

	got, ok := reg.MatchByName(common.Normalize("三菱"))
	require.True(t, ok)
	assert.Equal(t, "8306", got.Code)
}

func TestMatchByName_DuplicateNamesFirstListedWins(t *testing.T) {
	reg := New([]models.TickerEntry{
		{Code: "1111", Name: "同名"},
		{Code: "2222", Name: "同名"},
	})

	got, ok := reg.MatchByName(common.Normalize("同名"))
	require.True(t, ok)
	assert.Equal(t, "1111", got.Code)
}

func TestMatchByName_WidthInsensitive(t *testing.T) {
	reg := New(sampleEntries())

	got, ok := reg.MatchByName(common.Normalize("kddi"))
	require.True(t, ok)
	assert.Equal(t, "9433", got.Code)
}

func TestMatchByName_NotFound(t *testing.T) {
	reg := New(sampleEntries())

	_, ok := reg.MatchByName(common.Normalize("存在しない会社"))
	assert.False(t, ok)

	_, ok = reg.MatchByName("")
	assert.False(t, ok, "empty input must not match every name")
}

func TestNew_DropsInvalidEntries(t *testing.T) {
	reg := New([]models.TickerEntry{
		{Code: "7974", Name: "任天堂"},
		{Code: "797", Name: "短い"},
		{Code: "79740", Name: "長い"},
		{Code: "79A4", Name: "英字"},
		{Code: "１２３４", Name: "全角"},
		{Code: "1234", Name: "  "},
	})

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 5, reg.Skipped())
}

func TestLookupSymbol(t *testing.T) {
	reg := New(sampleEntries())

	e, ok := reg.LookupSymbol("7974.T", ".T")
	require.True(t, ok)
	assert.Equal(t, "任天堂", e.Name)

	_, ok = reg.LookupSymbol("7974.O", ".T")
	assert.False(t, ok)

	_, ok = reg.LookupSymbol("1234.T", ".T")
	assert.False(t, ok)
}

func TestIsTickerCode(t *testing.T) {
	assert.True(t, IsTickerCode("0001"))
	assert.True(t, IsTickerCode("7974"))
	assert.False(t, IsTickerCode("797"))
	assert.False(t, IsTickerCode("79745"))
	assert.False(t, IsTickerCode("７９７４"))
	assert.False(t, IsTickerCode("abcd"))
}
