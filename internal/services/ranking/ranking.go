// Package ranking builds the market movers digest and pushes it to users.
package ranking

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// DefaultLimit is the number of rows in a digest when none is given.
const DefaultLimit = 5

// MessageRankingFailed is sent when the movers list cannot be fetched.
const MessageRankingFailed = "ランキング取得に失敗しました。"

// ManualPushHeader prefixes the one-shot digest pushed at startup.
const ManualPushHeader = "[手動テスト通知]"

// Banner returns the digest heading for kind.
func Banner(kind models.MoverKind, limit int) string {
	switch kind {
	case models.MoversLosers:
		return fmt.Sprintf("📉本日の下落率ランキングTOP%d", limit)
	case models.MoversVolume:
		return fmt.Sprintf("📊本日の出来高ランキングTOP%d", limit)
	default:
		return fmt.Sprintf("📈本日の上昇率ランキングTOP%d", limit)
	}
}

// BuildRanking renders up to limit entries in the order given, renumbered
// from 1. Fewer entries than limit produce fewer lines.
func BuildRanking(entries []models.RankingEntry, limit int, kind models.MoverKind) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, formatLine(i+1, e))
	}

	banner := Banner(kind, limit)
	if len(lines) == 0 {
		return banner
	}
	return banner + "\n\n" + strings.Join(lines, "\n")
}

func formatLine(rank int, e models.RankingEntry) string {
	label := e.Label
	if label == "" {
		label = e.Symbol
	}

	change := common.Unavailable
	if v, ok := e.ChangePercent.Get(); ok {
		change = common.FormatSignedPct(v)
	}

	return fmt.Sprintf("%d位：%s %s%%", rank, label, change)
}
