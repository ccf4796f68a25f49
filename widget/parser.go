package widget

import (
	"encoding/json"
	"regexp"
)

// ActionSentinel marks the start of a structured action inside a model
// reply. The payload is a single line of JSON directly after the sentinel;
// any prose around the line is conversational and ignored by the parser.
const ActionSentinel = "@@ACTION@@"

var actionRegex = regexp.MustCompile(ActionSentinel + `\s*(\{[^\n]*\})`)

// ParseActionFromResponse extracts a widget action from a model reply.
// It returns nil if no sentinel is present, the payload is not valid
// JSON, or the decoded action fails validation — a reply without a valid
// action is a plain chat reply, not an error. Decoding is data-only; the
// payload is never evaluated.
func ParseActionFromResponse(text string) *Action {
	matches := actionRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	for _, match := range matches {
		var action Action
		if err := json.Unmarshal([]byte(match[1]), &action); err != nil {
			continue // Skip malformed payloads
		}

		if err := validateAction(&action); err != nil {
			continue // Partial actions must never execute
		}

		return &action
	}

	return nil
}
