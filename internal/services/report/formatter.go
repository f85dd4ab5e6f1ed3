package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// User-facing messages for the non-report outcomes.
const (
	MessageBlankInput  = "銘柄名またはコードを入力してください（例：7974 または 任天堂）"
	MessageNotFound    = "銘柄名またはコードが認識できません（例：7974 または 任天堂）"
	MessageFetchFailed = "データ取得に失敗しました。証券コードを確認してください。"
)

// FormatReport renders the stock summary reply.
func FormatReport(r models.MetricsReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📈 %s\n", r.Name))
	sb.WriteString(fmt.Sprintf("株価：%s円\n", r.Price))
	sb.WriteString(fmt.Sprintf("PER：%s倍　PBR：%s倍\n", r.PER, r.PBR))
	sb.WriteString(fmt.Sprintf("EPS：%s　配当金：%s円\n", r.EPS, r.DividendRate))
	sb.WriteString(fmt.Sprintf("利回り：%s%%\n", r.DividendYield))
	sb.WriteString(fmt.Sprintf("ROE：%s%%\n", r.ROE))
	sb.WriteString(fmt.Sprintf("BPS：%s　時価総額：%s", r.BPS, r.MarketCap))

	return sb.String()
}

// FormatFailure returns the message for a lookup failure kind.
func FormatFailure(kind string) string {
	switch kind {
	case interfaces.LookupBlank:
		return MessageBlankInput
	case interfaces.LookupNotFound:
		return MessageNotFound
	default:
		return MessageFetchFailed
	}
}
