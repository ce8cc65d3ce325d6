package requestlog

// Intent values recorded per assist request.
const (
	IntentVerse    = "verse"
	IntentToken    = "token"
	IntentGreeting = "greeting"
	IntentChat     = "chat"
	IntentError    = "error"
)

// Classify derives the intent and cache-hit flag of an assist request
// from the names of the events it emitted, in order. Verse and token
// flows that answered without any STATUS progress event were served from
// cache.
func Classify(eventNames []string) (intent string, cacheHit bool) {
	var hasStatus, hasError bool
	for _, name := range eventNames {
		switch name {
		case "STATUS":
			hasStatus = true
		case "ERROR":
			hasError = true
		case "VERSE_DATA", "VERSE_TEXT", "EXPLANATION":
			intent = IntentVerse
		case "TOKEN_DATA", "ANALYSIS", "AI_VERDICT":
			intent = IntentToken
		case "GREETING":
			if intent == "" {
				intent = IntentGreeting
			}
		case "CHAT_RESPONSE":
			if intent == "" {
				intent = IntentChat
			}
		}
	}

	switch {
	case intent == IntentVerse || intent == IntentToken:
		return intent, !hasStatus
	case intent != "":
		return intent, false
	case hasError:
		return IntentError, false
	default:
		return IntentChat, false
	}
}
