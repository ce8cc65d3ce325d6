package rugpull

import (
	"encoding/json"
	"fmt"

	"github.com/halcyon-labs/agentry/internal/solsniffer"
)

// systemPrompt steers the verdict completion.
const systemPrompt = `You are an experienced crypto security analyst specializing in Solana tokens.
Your role is to judge rug pull risk from on-chain audit data and explain it plainly.

When giving a verdict:
1. Explain what each risk indicator means
2. Call out red flags directly
3. Classify the token as SAFE, MODERATE RISK, or HIGH RISK
4. Back the verdict with the specific data points
5. Tell the user what to do next

Be direct and honest. If it looks like a rug pull, say so clearly.`

// chatSystemPrompt steers general conversation turns.
const chatSystemPrompt = "You are a helpful crypto safety assistant specializing in Solana tokens."

const greetingText = `👋 **Hello! I'm ` + DisplayName + `**

I analyze Solana tokens to detect potential rug pulls and scams using SolSniffer data and AI.

**What I Can Do:**
• Analyze token contract addresses for rug pull risks
• Check liquidity, holders, and ownership status
• Detect mint/freeze authorities
• Provide AI-powered risk assessment
• Give clear verdicts: SAFE, MODERATE RISK, or HIGH RISK

**How to Use:**
Simply paste a Solana contract address (CA) and I'll analyze it!

**Examples:**
• ` + "`Is this token safe? 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU`" + `
• ` + "`Check this CA: DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263`" + `
• ` + "`I need to know whether this is a rug pull: [paste CA here]`" + `

**Ready to analyze!** Just paste a contract address. 🚀`

const chatFallback = "I'm here to help analyze Solana tokens for rug pull risks! 🔍\n\n" +
	"To get started, simply paste a Solana contract address and I'll analyze it for you.\n\n" +
	"**Example:** `DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263`\n\n" +
	"I can help you identify:\n" +
	"• Mint/freeze authorities\n" +
	"• Liquidity issues\n" +
	"• Holder concentration\n" +
	"• Overall rug pull risk"

// analysisPrompt builds the verdict prompt. When the user asked a
// concrete question it is carried into the prompt so the answer
// addresses it.
func analysisPrompt(address, userQuestion string, report *solsniffer.Report) string {
	score, _ := report.RiskScore()
	level := solsniffer.RiskLevelFor(score)
	raw := prettyRaw(report.Raw)

	if userQuestion != "" {
		return fmt.Sprintf(`User asks: %q

Here is the token analysis data:

**Token:** %s (%s)
**Contract Address:** %s
**Risk Level:** %s
**Risk Score:** %d/100

**Full Analysis Data:**
%s

Please provide a comprehensive analysis that:
1. Explains what the risk indicators mean
2. Highlights any red flags
3. Gives a clear verdict (SAFE / MODERATE RISK / HIGH RISK)
4. Provides specific reasons
5. Advises the user what to do

Answer the user's specific question while covering these points.`,
			userQuestion, report.Name, report.Symbol, address, level, score, raw)
	}

	return fmt.Sprintf(`Analyze this Solana token:

**Token:** %s (%s)
**Contract Address:** %s
**Risk Level:** %s
**Risk Score:** %d/100

**Full Analysis Data:**
%s

Provide a comprehensive analysis covering:
1. Overall safety assessment
2. Red flags (if any)
3. Green flags (if any)
4. Clear verdict: SAFE / MODERATE RISK / HIGH RISK
5. Specific recommendations for investors

Be direct and honest. If it's a rug pull, say so clearly.`,
		report.Name, report.Symbol, address, level, score, raw)
}

// chatPrompt builds the general-conversation prompt for queries without
// a contract address.
func chatPrompt(userPrompt string) string {
	return fmt.Sprintf(`The user says: %q

You are a Solana token rug pull checker assistant. The user is asking a general question that doesn't include a contract address.

Please respond helpfully about:
- What makes a token a rug pull
- How to identify scam tokens
- General crypto safety tips
- How to use this tool (just paste a Solana contract address)

Keep your response concise and helpful.`, userPrompt)
}

func prettyRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}
