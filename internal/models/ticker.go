// Package models defines the data types shared across Kabutaro
package models

// TickerEntry is one row of the static registry: a 4-digit code and the
// registry's canonical company name.
type TickerEntry struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// SearchQuote is one candidate returned by the full-text Search collaborator.
type SearchQuote struct {
	Symbol    string `json:"symbol"`
	Exchange  string `json:"exchange"`
	Name      string `json:"name,omitempty"`
	QuoteType string `json:"quote_type,omitempty"`
}

// Resolution is the outcome of symbol resolution. Symbol is empty when the
// input could not be resolved.
type Resolution struct {
	Symbol string `json:"symbol"`
	Source string `json:"source"` // code, registry or search
}

// Found reports whether a symbol was resolved.
func (r Resolution) Found() bool {
	return r.Symbol != ""
}

// Resolution sources
const (
	ResolvedByCode     = "code"
	ResolvedByRegistry = "registry"
	ResolvedBySearch   = "search"
)
