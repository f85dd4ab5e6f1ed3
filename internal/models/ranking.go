package models

import "fmt"

// MoverKind selects which market-movers list to fetch.
type MoverKind string

// Mover kinds
const (
	MoversGainers MoverKind = "gainers"
	MoversLosers  MoverKind = "losers"
	MoversVolume  MoverKind = "volume"
)

// ParseMoverKind validates a mover kind name.
func ParseMoverKind(s string) (MoverKind, error) {
	switch k := MoverKind(s); k {
	case MoversGainers, MoversLosers, MoversVolume:
		return k, nil
	case "":
		return MoversGainers, nil
	default:
		return "", fmt.Errorf("unknown mover kind %q", s)
	}
}

// RankingEntry is one row of a movers list. Rank is 1-based.
type RankingEntry struct {
	Rank          int    `json:"rank"`
	Label         string `json:"label"`
	Symbol        string `json:"symbol,omitempty"`
	ChangePercent Number `json:"change_percent"`
}
