// Package telegram adapts the Telegram Bot API to the bot use case.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/imwes/linkfinder/internal/usecase/bot"
)

// Compile-time check: Messenger implements bot.Messenger.
var _ bot.Messenger = (*Messenger)(nil)

// sender is the subset of *tgbotapi.BotAPI used to talk to the chat.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger sends bot messages through the Telegram Bot API.
type Messenger struct {
	api sender
}

// NewMessenger wraps a Bot API client.
func NewMessenger(api sender) *Messenger {
	return &Messenger{api: api}
}

// Send posts a text or photo message with optional inline or reply keyboards.
func (m *Messenger) Send(_ context.Context, msg bot.Message) (bot.MessageRef, error) {
	var c tgbotapi.Chattable
	if msg.PhotoURL != "" {
		p := tgbotapi.NewPhoto(msg.ChatID, tgbotapi.FileURL(msg.PhotoURL))
		p.Caption = msg.Text
		p.ParseMode = parseMode(msg.Format)
		p.ReplyMarkup = markup(msg)
		c = p
	} else {
		t := tgbotapi.NewMessage(msg.ChatID, msg.Text)
		t.ParseMode = parseMode(msg.Format)
		t.ReplyMarkup = markup(msg)
		c = t
	}

	sent, err := m.api.Send(c)
	if err != nil {
		return bot.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return ref(&sent), nil
}

// Edit replaces text and inline keyboard of a message.
func (m *Messenger) Edit(_ context.Context, r bot.MessageRef, text string, buttons [][]bot.Button) error {
	c := tgbotapi.NewEditMessageTextAndMarkup(r.ChatID, r.MessageID, text, inlineKeyboard(buttons))
	if _, err := m.api.Request(c); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// EditButtons replaces only the inline keyboard of a message.
func (m *Messenger) EditButtons(_ context.Context, r bot.MessageRef, buttons [][]bot.Button) error {
	c := tgbotapi.NewEditMessageReplyMarkup(r.ChatID, r.MessageID, inlineKeyboard(buttons))
	if _, err := m.api.Request(c); err != nil {
		return fmt.Errorf("edit keyboard: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (m *Messenger) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := m.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func parseMode(f bot.Format) string {
	if f == bot.MarkdownV2 {
		return tgbotapi.ModeMarkdownV2
	}
	return ""
}

func markup(msg bot.Message) any {
	switch {
	case len(msg.Buttons) > 0:
		return inlineKeyboard(msg.Buttons)
	case len(msg.ReplyMenu) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(msg.ReplyMenu))
		for _, r := range msg.ReplyMenu {
			row := make([]tgbotapi.KeyboardButton, 0, len(r))
			for _, label := range r {
				row = append(row, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, row)
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.ResizeKeyboard = true
		return kb
	default:
		return nil
	}
}

func inlineKeyboard(buttons [][]bot.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, r := range buttons {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		rows = append(rows, row)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func ref(m *tgbotapi.Message) bot.MessageRef {
	r := bot.MessageRef{MessageID: m.MessageID, IsPhoto: len(m.Photo) > 0}
	if m.Chat != nil {
		r.ChatID = m.Chat.ID
	}
	return r
}
