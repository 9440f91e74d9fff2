package telegram

import (
	"fmt"
	"strings"

	"stockpulse/internal/advisor/dto"
)

// FormatDigest formats a daily digest into a Markdown string for Telegram.
func FormatDigest(date string, buy, sell []dto.DigestPick) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 *Daily Stock Digest %s*\n\n", date))

	if len(buy) == 0 && len(sell) == 0 {
		sb.WriteString("_No actionable picks today._\n")
		return sb.String()
	}

	if len(buy) > 0 {
		sb.WriteString("🟢 *Top Buys:*\n")
		for _, pick := range buy {
			sb.WriteString(formatPickLine(pick))
		}
		sb.WriteString("\n")
	}

	if len(sell) > 0 {
		sb.WriteString("🔴 *Top Sells:*\n")
		for _, pick := range sell {
			sb.WriteString(formatPickLine(pick))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("_Scores range from -100 to +100. Not financial advice._\n")
	return sb.String()
}

func formatPickLine(pick dto.DigestPick) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• *%s* (%s): %.1f, %s\n", pick.Ticker, pick.Name, pick.Score, pick.Signal))
	if pick.CurrentPrice != nil {
		change := ""
		if pick.DayChangePct != nil {
			change = fmt.Sprintf(" (%+.2f%%)", *pick.DayChangePct)
		}
		sb.WriteString(fmt.Sprintf("  💰 $%.2f%s | Position: $%.2f\n", *pick.CurrentPrice, change, pick.SuggestedPosition))
	}
	return sb.String()
}
