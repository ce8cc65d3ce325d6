package bible

import (
	"fmt"
	"strings"

	"github.com/halcyon-labs/agentry/internal/bibleapi"
)

// systemPrompt is the persona used for verse explanations.
const systemPrompt = `You are a knowledgeable Bible scholar and teacher.
Your role is to explain Bible verses in a clear, accurate, and accessible way.

When explaining verses:
1. Provide historical and cultural context
2. Explain the meaning in simple terms
3. Highlight key theological concepts
4. Relate it to the broader biblical narrative
5. Make it relevant to modern readers

Be respectful, accurate, and educational in your explanations.`

// chatSystemPrompt is the persona for prompts without a verse reference.
const chatSystemPrompt = "You are a helpful Bible study assistant."

// greetingText answers small talk without an LLM round trip.
const greetingText = `👋 **Hello! I'm the ` + DisplayName + `**

I look up Bible verses and explain them with historical context, in plain language.

**What I Can Do:**
• Fetch any verse by reference
• Handle abbreviations (` + "`Matt 7:7`" + `) and ranges (` + "`John 3:16-17`" + `)
• Explain historical and cultural context
• Highlight key theological concepts
• Relate verses to the broader biblical narrative

**How to Use:**
Just send a verse reference and I'll take it from there!

**Examples:**
• ` + "`John 3:16`" + `
• ` + "`Explain Matthew 5:9`" + `
• ` + "`What does Romans 8:28 mean?`" + `

**Ready when you are!** Send a verse reference. 📖`

// chatFallback is used when the LLM is unavailable for a general chat
// turn.
const chatFallback = `I'm here to look up and explain Bible verses! 📖

To get started, send a verse reference and I'll fetch the text and explain it.

**Example:** ` + "`John 3:16`" + ` or ` + "`Explain Matthew 5:9`" + `

I can help with:
• Historical and cultural context
• Plain-language explanations
• Key theological concepts
• Connections to the broader biblical narrative`

// explanationFallback is emitted when the verse was fetched but the LLM
// could not produce an explanation.
const explanationFallback = `I couldn't generate an explanation right now. Please try again in a moment.

The verse text above is complete, so it is still ready for your own study.`

// explainPrompt builds the explanation request for a fetched verse.
func explainPrompt(resp *bibleapi.Response) string {
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		var parts []string
		for _, v := range resp.Verses {
			parts = append(parts, strings.TrimSpace(v.Text))
		}
		text = strings.Join(parts, " ")
	}
	return fmt.Sprintf(`Explain this Bible verse:

**%s (%s)**

"%s"

Cover the historical context, the plain meaning, the key theological concepts, and how it connects to the broader biblical narrative. Keep it accessible for a modern reader.`, resp.Reference, translationLabel(resp), text)
}

// chatPrompt wraps a general question that contains no verse reference.
func chatPrompt(userPrompt string) string {
	return fmt.Sprintf(`The user says: %q

You are a Bible verse explainer assistant. The user is asking a general question that does not include a verse reference.

Please respond helpfully about:
- How to reference a verse (book chapter:verse, e.g. "John 3:16")
- That abbreviations like "Matt 7:7" and ranges like "John 3:16-17" work too
- General Bible study guidance
- How to use this tool (just send a verse reference)

Keep your response concise and friendly.`, userPrompt)
}
