// Package registry holds the static ticker registry and the name matcher.
package registry

import (
	"strings"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// Registry is the immutable, ordered list of known tickers with the
// normalized names precomputed. Safe for concurrent use.
type Registry struct {
	entries    []models.TickerEntry
	normalized []string
	exact      map[string]int // normalized name -> first index
	byCode     map[string]int
	skipped    int
}

// New builds a Registry. Entries whose code is not exactly four ASCII
// digits are dropped; Skipped reports how many.
func New(entries []models.TickerEntry) *Registry {
	r := &Registry{
		entries:    make([]models.TickerEntry, 0, len(entries)),
		normalized: make([]string, 0, len(entries)),
		exact:      make(map[string]int, len(entries)),
		byCode:     make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if !IsTickerCode(e.Code) || strings.TrimSpace(e.Name) == "" {
			r.skipped++
			continue
		}
		idx := len(r.entries)
		norm := common.Normalize(e.Name)
		r.entries = append(r.entries, e)
		r.normalized = append(r.normalized, norm)

		// First listed wins for both indexes
		if _, ok := r.exact[norm]; !ok {
			r.exact[norm] = idx
		}
		if _, ok := r.byCode[e.Code]; !ok {
			r.byCode[e.Code] = idx
		}
	}

	return r
}

// MatchByName looks up an already-normalized input. An exact name match
// takes priority over substring containment; within each pass the first
// entry in registry order wins.
func (r *Registry) MatchByName(normalized string) (models.TickerEntry, bool) {
	if normalized == "" {
		return models.TickerEntry{}, false
	}

	if idx, ok := r.exact[normalized]; ok {
		return r.entries[idx], true
	}

	for i, name := range r.normalized {
		if strings.Contains(name, normalized) {
			return r.entries[i], true
		}
	}

	return models.TickerEntry{}, false
}

// LookupCode finds an entry by its 4-digit code.
func (r *Registry) LookupCode(code string) (models.TickerEntry, bool) {
	idx, ok := r.byCode[code]
	if !ok {
		return models.TickerEntry{}, false
	}
	return r.entries[idx], true
}

// LookupSymbol finds the entry for an exchange symbol such as "7974.T".
func (r *Registry) LookupSymbol(symbol, suffix string) (models.TickerEntry, bool) {
	code, ok := strings.CutSuffix(symbol, suffix)
	if !ok {
		return models.TickerEntry{}, false
	}
	return r.LookupCode(code)
}

// Entries returns the registry in file order. The slice must not be modified.
func (r *Registry) Entries() []models.TickerEntry {
	return r.entries
}

// Len returns the number of usable entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Skipped returns the number of rejected input rows.
func (r *Registry) Skipped() int {
	return r.skipped
}

// IsTickerCode reports whether s is exactly four ASCII digits.
func IsTickerCode(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var _ interfaces.Registry = (*Registry)(nil)
