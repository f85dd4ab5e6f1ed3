package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      float64
		wantValid bool
	}{
		{"plain number", `12.5`, 12.5, true},
		{"negative", `-3`, -3, true},
		{"zero", `0`, 0, true},
		{"raw wrapper", `{"raw": 1.23, "fmt": "1.23"}`, 1.23, true},
		{"raw wrapper with string", `{"raw": "4.5"}`, 4.5, true},
		{"empty wrapper", `{}`, 0, false},
		{"fmt only wrapper", `{"fmt": "1.0"}`, 0, false},
		{"numeric string", `"42.1"`, 42.1, true},
		{"padded numeric string", `" 7 "`, 7, true},
		{"N/A", `"N/A"`, 0, false},
		{"empty string", `""`, 0, false},
		{"text", `"big"`, 0, false},
		{"null", `null`, 0, false},
		{"raw null", `{"raw": null}`, 0, false},
		{"bool", `true`, 0, false},
		{"array", `[1, 2]`, 0, false},
		{"NaN string", `"NaN"`, 0, false},
		{"infinite string", `"Inf"`, 0, false},
		{"overflow", `1e400`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))

			got, ok := n.Get()
			assert.Equal(t, tt.wantValid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumber_InStructKeepsSiblings(t *testing.T) {
	var m PriceModule
	require.NoError(t, json.Unmarshal([]byte(`{"regularMarketPrice": null, "marketCap": 5e9, "longName": 7}`), &m))

	assert.False(t, m.RegularMarketPrice.Valid())
	v, ok := m.MarketCap.Get()
	assert.True(t, ok)
	assert.Equal(t, 5e9, v)
	assert.Equal(t, Text(""), m.LongName)
}

func TestNumber_Helpers(t *testing.T) {
	_, ok := Some(-1).Positive()
	assert.False(t, ok)

	_, ok = Some(0).NonZero()
	assert.False(t, ok)

	v, ok := Some(2).Positive()
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	assert.False(t, None().Valid())
}

func TestNumber_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: Some(1.5), B: None()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))
}

func TestQuotePayload_MalformedModuleKeepsOthers(t *testing.T) {
	var p QuotePayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"price": {"regularMarketPrice": 9000, "longName": "Nintendo Co., Ltd."},
		"summaryDetail": [1, 2, 3],
		"defaultKeyStatistics": "broken",
		"financialData": {"returnOnEquity": 0.165}
	}`), &p))

	price, ok := p.Price.RegularMarketPrice.Get()
	assert.True(t, ok)
	assert.Equal(t, 9000.0, price)
	assert.Equal(t, "Nintendo Co., Ltd.", p.Price.DisplayName())

	assert.Equal(t, SummaryDetailModule{}, p.SummaryDetail)
	assert.Equal(t, KeyStatisticsModule{}, p.DefaultKeyStatistics)

	roe, ok := p.FinancialData.ReturnOnEquity.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.165, roe)
}

func TestQuotePayload_NotAnObject(t *testing.T) {
	var p QuotePayload
	assert.Error(t, json.Unmarshal([]byte(`[]`), &p))
}

func TestPriceModule_DisplayName(t *testing.T) {
	assert.Equal(t, "Short", PriceModule{ShortName: "Short"}.DisplayName())
	assert.Equal(t, "Long", PriceModule{LongName: "Long", ShortName: "Short"}.DisplayName())
}
