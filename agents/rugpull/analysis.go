package rugpull

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/halcyon-labs/agentry/internal/solsniffer"
)

// formatReport renders a report as the ANALYSIS markdown block.
func formatReport(r *solsniffer.Report) string {
	score, factors := r.RiskScore()
	level := solsniffer.RiskLevelFor(score)

	var b strings.Builder
	fmt.Fprintf(&b, "**Token Analysis: %s (%s)**\n", r.Name, r.Symbol)
	fmt.Fprintf(&b, "Contract Address: `%s`\n\n", r.Address)

	b.WriteString("**Risk Assessment:**\n")
	fmt.Fprintf(&b, "- Risk Level: %s %s\n", riskEmoji(level), level)
	fmt.Fprintf(&b, "- Risk Score: %d/100\n\n", score)

	b.WriteString("**Token Info:**\n")
	fmt.Fprintf(&b, "- Price: $%s\n", humanize.CommafWithDigits(r.Price.InexactFloat64(), 10))
	fmt.Fprintf(&b, "- Market Cap: $%s\n", humanize.CommafWithDigits(r.MarketCap.InexactFloat64(), 2))
	fmt.Fprintf(&b, "- Supply: %s\n\n", humanize.Comma(r.Supply.IntPart()))

	b.WriteString("**Security Audit:**\n")
	fmt.Fprintf(&b, "- Mint Authority: %s\n", pick(r.MintDisabled, "✅ Disabled", "❌ Active"))
	fmt.Fprintf(&b, "- Freeze Authority: %s\n", pick(r.FreezeDisabled, "✅ Disabled", "❌ Active"))
	fmt.Fprintf(&b, "- LP Burned: %s\n", pick(r.LPBurned, "✅ Yes", "❌ No"))
	fmt.Fprintf(&b, "- Top 10 Concentration: %s\n\n", pick(!r.Top10Holders, "✅ Normal", "⚠️ High"))

	b.WriteString("**Risk Factors:**\n")
	if len(factors) == 0 {
		b.WriteString("✅ No major risk factors detected")
	} else {
		for i, factor := range factors {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("⚠️ " + factor)
		}
	}
	return b.String()
}

// fallbackVerdict stands in for the AI verdict when the LLM call fails.
func fallbackVerdict(score int, factors []string) string {
	level := solsniffer.RiskLevelFor(score)

	var b strings.Builder
	fmt.Fprintf(&b, "Automated verdict (AI analysis unavailable): **%s**, risk score %d/100.\n", level, score)
	if len(factors) == 0 {
		b.WriteString("\nNo major risk factors were detected in the security audit.")
	} else {
		b.WriteString("\nFlagged factors:\n")
		for _, factor := range factors {
			fmt.Fprintf(&b, "- %s\n", factor)
		}
	}
	b.WriteString("\nAlways do your own research before trading.")
	return b.String()
}

func riskEmoji(level string) string {
	switch level {
	case solsniffer.RiskHigh:
		return "🔴"
	case solsniffer.RiskModerate:
		return "🟡"
	default:
		return "🟢"
	}
}

func pick(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}
