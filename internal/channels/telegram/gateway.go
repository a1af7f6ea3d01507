package telegram

import (
	"context"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nextlevelbuilder/deskrelay/internal/desk"
)

// desk.Gateway implementation. Errors are logged here and reported upward
// only as Failed — the core's notification policy is single-attempt,
// best-effort.

var _ desk.Gateway = (*Channel)(nil)

// SendText delivers a plain text message.
func (c *Channel) SendText(ctx context.Context, recipientID, text string) desk.Delivery {
	chatID, err := parseChatID(recipientID)
	if err != nil {
		slog.Warn("telegram send: bad recipient", "recipient", recipientID, "error", err)
		return desk.Failed
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return desk.Failed
	}

	if _, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		slog.Debug("telegram send failed", "chat_id", chatID, "error", err)
		return desk.Failed
	}
	return desk.Delivered
}

// SendActionPrompt delivers a text message with an inline keyboard, one
// action per row.
func (c *Channel) SendActionPrompt(ctx context.Context, recipientID, text string, actions []desk.Action) (desk.PromptHandle, desk.Delivery) {
	chatID, err := parseChatID(recipientID)
	if err != nil {
		slog.Warn("telegram prompt: bad recipient", "recipient", recipientID, "error", err)
		return desk.PromptHandle{}, desk.Failed
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return desk.PromptHandle{}, desk.Failed
	}

	msg := tu.Message(tu.ID(chatID), text).WithReplyMarkup(actionKeyboard(actions))
	sent, err := c.bot.SendMessage(ctx, msg)
	if err != nil {
		slog.Debug("telegram prompt send failed", "chat_id", chatID, "error", err)
		return desk.PromptHandle{}, desk.Failed
	}
	return desk.PromptHandle{ChatID: recipientID, MessageID: sent.MessageID}, desk.Delivered
}

// EditPromptActions replaces the inline keyboard on a previously sent
// prompt; nil actions removes it.
func (c *Channel) EditPromptActions(ctx context.Context, handle desk.PromptHandle, actions []desk.Action) desk.Delivery {
	chatID, err := parseChatID(handle.ChatID)
	if err != nil {
		slog.Warn("telegram edit: bad handle", "chat_id", handle.ChatID, "error", err)
		return desk.Failed
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return desk.Failed
	}

	if _, err := c.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:      tu.ID(chatID),
		MessageID:   handle.MessageID,
		ReplyMarkup: actionKeyboard(actions),
	}); err != nil {
		slog.Debug("telegram edit reply markup failed",
			"chat_id", chatID,
			"message_id", handle.MessageID,
			"error", err,
		)
		return desk.Failed
	}
	return desk.Delivered
}

// actionKeyboard builds an inline keyboard from actions, one per row.
// Returns nil for an empty action list, which Telegram treats as removal.
func actionKeyboard(actions []desk.Action) *telego.InlineKeyboardMarkup {
	if len(actions) == 0 {
		return nil
	}
	rows := make([][]telego.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(a.Label).WithCallbackData(a.ID),
		))
	}
	return tu.InlineKeyboard(rows...)
}
