package desk

import "strings"

// EventKind classifies an inbound transport event.
type EventKind int

const (
	// EventCommandStart is the intake start command (/start).
	EventCommandStart EventKind = iota
	// EventActionInvoked is a tapped action button.
	EventActionInvoked
	// EventImageReceived is an inbound photo. The payload itself stays on
	// the transport; the core only needs the fact that one arrived.
	EventImageReceived
	// EventTextReceived is an inbound plain text message.
	EventTextReceived
	// EventCommandEnd is the end-of-chat command (/end).
	EventCommandEnd
)

func (k EventKind) String() string {
	switch k {
	case EventCommandStart:
		return "command_start"
	case EventActionInvoked:
		return "action_invoked"
	case EventImageReceived:
		return "image_received"
	case EventTextReceived:
		return "text_received"
	case EventCommandEnd:
		return "command_end"
	}
	return "unknown"
}

// Event is one inbound occurrence from the messaging transport.
type Event struct {
	Kind        EventKind
	UserID      string
	DisplayName string
	ActionID    string        // set for EventActionInvoked
	Text        string        // set for EventTextReceived
	Prompt      *PromptHandle // for EventActionInvoked: the prompt the action came from
}

// Action IDs used on prompts.
const (
	ActionSendScreenshot = "send_screenshot"
	ActionHumanHelp      = "human_help"

	claimActionPrefix = "claim_"
)

// ClaimActionID builds the claim action ID for a pending request.
func ClaimActionID(userID string) string {
	return claimActionPrefix + userID
}

// ParseClaimAction extracts the requesting user ID from a claim action ID.
func ParseClaimAction(actionID string) (string, bool) {
	user, ok := strings.CutPrefix(actionID, claimActionPrefix)
	if !ok || user == "" {
		return "", false
	}
	return user, true
}
