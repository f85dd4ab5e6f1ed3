package models

// MetricsReport is the fully-derived display record for one symbol. Every
// metric is already formatted; missing values hold the "-" marker.
type MetricsReport struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	PER           string `json:"per"`
	PERSource     string `json:"per_source"`
	PBR           string `json:"pbr"`
	EPS           string `json:"eps"`
	DividendRate  string `json:"dividend_rate"`
	DividendYield string `json:"dividend_yield"`
	ROE           string `json:"roe"`
	BPS           string `json:"bps"`
	MarketCap     string `json:"market_cap"`
}

// Sources of the P/E value, in fallback order.
const (
	PERSourceTrailing = "trailing"
	PERSourceForward  = "forward"
	PERSourceComputed = "computed"
	PERSourceNone     = "none"
)
