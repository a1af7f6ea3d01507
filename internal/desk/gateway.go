package desk

import "context"

// Delivery is the typed result of a best-effort outbound send. Call sites
// that intentionally ignore failures discard the value, making the
// "failures are swallowed" policy visible where it applies.
type Delivery int

const (
	Delivered Delivery = iota
	Failed
)

// Action is one button on an action prompt.
type Action struct {
	Label string
	ID    string
}

// PromptHandle identifies a previously sent action prompt so its actions can
// be retracted later. Opaque to the core beyond equality.
type PromptHandle struct {
	ChatID    string
	MessageID int
}

// Gateway is the narrow messaging surface the core emits through. The
// transport adapter (Telegram) implements it; errors are logged by the
// adapter and surface here only as Failed.
type Gateway interface {
	// SendText delivers a plain text message to a user, agent or group.
	SendText(ctx context.Context, recipientID, text string) Delivery

	// SendActionPrompt delivers a text message with tappable actions and
	// returns a handle for later retraction of the actions.
	SendActionPrompt(ctx context.Context, recipientID, text string, actions []Action) (PromptHandle, Delivery)

	// EditPromptActions replaces the actions on a previously sent prompt.
	// A nil or empty actions slice removes them.
	EditPromptActions(ctx context.Context, handle PromptHandle, actions []Action) Delivery
}
