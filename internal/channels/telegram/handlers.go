package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/deskrelay/internal/channels"
	"github.com/nextlevelbuilder/deskrelay/internal/desk"
)

// handleMessage translates an incoming Telegram message into a desk event.
// Only private chats are processed: group chatter in the support channel is
// not intake input, and prompting an entire group to /start would be noise.
func (c *Channel) handleMessage(_ context.Context, message *telego.Message) {
	user := message.From
	if user == nil {
		return
	}
	if message.Chat.Type != telego.ChatTypePrivate {
		slog.Debug("telegram non-private message skipped",
			"chat_type", message.Chat.Type,
			"chat_id", message.Chat.ID,
		)
		return
	}

	userID := fmt.Sprintf("%d", user.ID)
	name := displayName(user)

	slog.Debug("telegram message received",
		"user_id", userID,
		"username", user.Username,
		"has_photo", len(message.Photo) > 0,
		"text_preview", channels.Truncate(message.Text, 60),
	)

	if len(message.Photo) > 0 {
		c.Bus().PublishInbound(desk.Event{
			Kind:        desk.EventImageReceived,
			UserID:      userID,
			DisplayName: name,
		})
		return
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}
	if text == "" {
		slog.Debug("telegram message without text or photo skipped", "user_id", userID)
		return
	}

	switch commandOf(text) {
	case "/start":
		c.Bus().PublishInbound(desk.Event{
			Kind:        desk.EventCommandStart,
			UserID:      userID,
			DisplayName: name,
		})
	case "/end":
		c.Bus().PublishInbound(desk.Event{
			Kind:        desk.EventCommandEnd,
			UserID:      userID,
			DisplayName: name,
		})
	default:
		c.Bus().PublishInbound(desk.Event{
			Kind:        desk.EventTextReceived,
			UserID:      userID,
			DisplayName: name,
			Text:        text,
		})
	}
}

// handleCallbackQuery translates a tapped inline button into an action event.
// Accepted from any chat: claim buttons live in the support group.
func (c *Channel) handleCallbackQuery(ctx context.Context, query *telego.CallbackQuery) {
	// Acknowledge immediately so the client stops its loading spinner.
	if err := c.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		slog.Debug("telegram callback ack failed", "error", err)
	}

	ev := desk.Event{
		Kind:        desk.EventActionInvoked,
		UserID:      fmt.Sprintf("%d", query.From.ID),
		DisplayName: displayName(&query.From),
		ActionID:    query.Data,
	}
	if msg, ok := query.Message.(*telego.Message); ok {
		ev.Prompt = &desk.PromptHandle{
			ChatID:    fmt.Sprintf("%d", msg.Chat.ID),
			MessageID: msg.MessageID,
		}
	}

	slog.Debug("telegram action invoked",
		"user_id", ev.UserID,
		"action_id", ev.ActionID,
	)
	c.Bus().PublishInbound(ev)
}

// commandOf extracts the leading bot command of a message, lowercased and
// with any @botname suffix stripped. Returns "" for non-command text.
func commandOf(text string) string {
	if len(text) == 0 || text[0] != '/' {
		return ""
	}
	cmd := strings.SplitN(text, " ", 2)[0]
	cmd = strings.SplitN(cmd, "@", 2)[0]
	return strings.ToLower(cmd)
}

// displayName picks the friendliest available name for a Telegram user.
func displayName(user *telego.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return fmt.Sprintf("%d", user.ID)
}
