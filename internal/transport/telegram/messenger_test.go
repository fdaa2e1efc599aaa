package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/imwes/linkfinder/internal/usecase/bot"
)

type fakeAPI struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	reply     tgbotapi.Message
	err       error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return f.reply, f.err
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	if f.err != nil {
		return nil, f.err
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestSend_TextWithInlineKeyboard(t *testing.T) {
	api := &fakeAPI{reply: tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 5}}}
	m := NewMessenger(api)

	ref, err := m.Send(context.Background(), bot.Message{
		ChatID:  5,
		Text:    "Выберите месяц:",
		Buttons: [][]bot.Button{{{Label: "Январь ✅", Token: "m:0"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != (bot.MessageRef{ChatID: 5, MessageID: 7}) {
		t.Errorf("unexpected ref: %+v", ref)
	}

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected MessageConfig, got %T", api.sent[0])
	}
	if msg.ChatID != 5 || msg.Text != "Выберите месяц:" || msg.ParseMode != "" {
		t.Errorf("unexpected message: %+v", msg)
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("expected inline keyboard, got %T", msg.ReplyMarkup)
	}
	b := kb.InlineKeyboard[0][0]
	if b.Text != "Январь ✅" || b.CallbackData == nil || *b.CallbackData != "m:0" {
		t.Errorf("unexpected button: %+v", b)
	}
}

func TestSend_MarkdownAndReplyMenu(t *testing.T) {
	api := &fakeAPI{reply: tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: 5}}}
	m := NewMessenger(api)

	_, err := m.Send(context.Background(), bot.Message{
		ChatID:    5,
		Text:      "*hi*",
		Format:    bot.MarkdownV2,
		ReplyMenu: [][]string{{"Выбор месяца", "Выбор тэгов"}, {"Найти ссылки"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := api.sent[0].(tgbotapi.MessageConfig)
	if msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("parse mode = %q", msg.ParseMode)
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	if !ok {
		t.Fatalf("expected reply keyboard, got %T", msg.ReplyMarkup)
	}
	if len(kb.Keyboard) != 2 || kb.Keyboard[0][1].Text != "Выбор тэгов" {
		t.Errorf("unexpected keyboard: %+v", kb.Keyboard)
	}
}

func TestSend_Photo(t *testing.T) {
	api := &fakeAPI{reply: tgbotapi.Message{
		MessageID: 3,
		Chat:      &tgbotapi.Chat{ID: 5},
		Photo:     []tgbotapi.PhotoSize{{FileID: "f"}},
	}}
	m := NewMessenger(api)

	ref, err := m.Send(context.Background(), bot.Message{
		ChatID:   5,
		Text:     "Выберите тэги:",
		PhotoURL: "https://img/tags.png",
		Buttons:  [][]bot.Button{{{Label: "Тема", Token: "t:0"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.IsPhoto {
		t.Error("photo reply must be marked as photo")
	}
	p, ok := api.sent[0].(tgbotapi.PhotoConfig)
	if !ok {
		t.Fatalf("expected PhotoConfig, got %T", api.sent[0])
	}
	if p.Caption != "Выберите тэги:" {
		t.Errorf("caption = %q", p.Caption)
	}
}

func TestSend_Error(t *testing.T) {
	m := NewMessenger(&fakeAPI{err: errors.New("Bad Request: can't parse entities")})

	if _, err := m.Send(context.Background(), bot.Message{ChatID: 1, Text: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestEditAndAnswer(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api)
	ref := bot.MessageRef{ChatID: 5, MessageID: 9}
	buttons := [][]bot.Button{{{Label: "назад ↩️", Token: "b"}}}

	if err := m.Edit(context.Background(), ref, "Тема", buttons); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.EditButtons(context.Background(), ref, buttons); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AnswerCallback(context.Background(), "cb1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edit, ok := api.requested[0].(tgbotapi.EditMessageTextConfig)
	if !ok || edit.Text != "Тема" || edit.MessageID != 9 || edit.ChatID != 5 {
		t.Errorf("unexpected edit: %+v", api.requested[0])
	}
	if _, ok := api.requested[1].(tgbotapi.EditMessageReplyMarkupConfig); !ok {
		t.Errorf("expected reply markup edit, got %T", api.requested[1])
	}
	cb, ok := api.requested[2].(tgbotapi.CallbackConfig)
	if !ok || cb.CallbackQueryID != "cb1" {
		t.Errorf("unexpected callback answer: %+v", api.requested[2])
	}
}
