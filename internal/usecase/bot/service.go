// Package bot drives the chat dialogue: menus, toggles and link search.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	"github.com/imwes/linkfinder/internal/logger"
	"github.com/imwes/linkfinder/internal/metrics"
	"github.com/imwes/linkfinder/internal/usecase/session"
)

// TextEvent is an incoming text message.
type TextEvent struct {
	ChatID int64
	Text   string
}

// CallbackEvent is a press on an inline button.
type CallbackEvent struct {
	ChatID     int64
	CallbackID string
	Token      string
	Message    MessageRef
}

// Service handles chat events. Events of one chat are serialized by the session lock.
type Service struct {
	search       Searcher
	sessions     Sessions
	chat         Messenger
	tagsImageURL string
	logger       *zap.Logger
}

// New creates a bot service. tagsImageURL is optional; when set the tag menu is sent as a photo.
func New(search Searcher, sessions Sessions, chat Messenger, tagsImageURL string, logger *zap.Logger) *Service {
	return &Service{
		search:       search,
		sessions:     sessions,
		chat:         chat,
		tagsImageURL: tagsImageURL,
		logger:       logger,
	}
}

// HandleText dispatches a reply-menu command or slash command. Other text is ignored.
func (b *Service) HandleText(ctx context.Context, ev TextEvent) error {
	action, ok := commands[ev.Text]
	if !ok {
		metrics.BotEventsTotal.WithLabelValues("text", "ignored").Inc()
		return nil
	}
	ctx = b.eventContext(ctx, ev.ChatID, action)

	s := b.sessions.Get(ev.ChatID)
	s.Lock()
	defer s.Unlock()

	var err error
	switch action {
	case "start":
		_, err = b.chat.Send(ctx, Message{ChatID: ev.ChatID, Text: textGreeting, ReplyMenu: replyMenu()})
	case "month":
		err = b.showMonths(ctx, s)
	case "tags":
		err = b.showTags(ctx, s)
	case "reset":
		s.Reset()
		_, err = b.chat.Send(ctx, Message{ChatID: ev.ChatID, Text: textResetDone})
	case "find_links":
		err = b.findLinks(ctx, s)
	}
	return b.done(ctx, action, err)
}

// HandleCallback resolves the button token against the session and applies it.
func (b *Service) HandleCallback(ctx context.Context, ev CallbackEvent) error {
	ctx = b.eventContext(ctx, ev.ChatID, "callback")
	log := logger.FromContext(ctx)

	if err := b.chat.AnswerCallback(ctx, ev.CallbackID); err != nil {
		log.Warn("Failed to answer callback", zap.Error(err))
	}

	s := b.sessions.Get(ev.ChatID)
	s.Lock()
	defer s.Unlock()

	if ev.Token == backToken {
		if len(s.Tags) == 0 {
			return b.done(ctx, "back", b.expired(ctx, ev.ChatID))
		}
		return b.done(ctx, "back", b.replaceOrSend(ctx, ev.Message, textChooseTags, tagsKeyboard(s)))
	}

	target, ok := s.Lookup(ev.Token)
	if !ok {
		log.Info("Unknown callback token", zap.String("token", ev.Token))
		return b.done(ctx, "expired", b.expired(ctx, ev.ChatID))
	}

	switch target.Kind {
	case session.TargetMonth:
		s.Selection.Toggle(domain.MonthCategory, target.Label)
		return b.done(ctx, "month_toggle",
			b.chat.Edit(ctx, ev.Message, textChooseMonth, monthKeyboard(s)))
	case session.TargetCategory:
		return b.done(ctx, "category",
			b.replaceOrSend(ctx, ev.Message, target.Category, optionsKeyboard(s, target.Category)))
	case session.TargetOption:
		s.Selection.Toggle(target.Category, target.Label)
		return b.done(ctx, "option_toggle",
			b.chat.EditButtons(ctx, ev.Message, optionsKeyboard(s, target.Category)))
	default:
		return b.done(ctx, "expired", b.expired(ctx, ev.ChatID))
	}
}

func (b *Service) eventContext(ctx context.Context, chatID int64, kind string) context.Context {
	l := b.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.Int64("chat_id", chatID),
		zap.String("event", kind),
	)
	return logger.ContextWithLogger(ctx, l)
}

func (b *Service) done(ctx context.Context, kind string, err error) error {
	if err != nil {
		metrics.BotEventsTotal.WithLabelValues(kind, "error").Inc()
		logger.FromContext(ctx).Error("Chat event failed", zap.Error(err))
		return fmt.Errorf("%s: %w", kind, err)
	}
	metrics.BotEventsTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

func (b *Service) expired(ctx context.Context, chatID int64) error {
	_, err := b.chat.Send(ctx, Message{ChatID: chatID, Text: textMenuExpired})
	return err
}

// replaceOrSend edits a text message in place; photo messages get a new message instead.
func (b *Service) replaceOrSend(ctx context.Context, ref MessageRef, text string, buttons [][]Button) error {
	if ref.IsPhoto {
		_, err := b.chat.Send(ctx, Message{ChatID: ref.ChatID, Text: text, Buttons: buttons})
		return err
	}
	return b.chat.Edit(ctx, ref, text, buttons)
}

// catalog returns the session catalog, fetching it while the cached one is empty.
func (b *Service) catalog(ctx context.Context, s *session.Session) domain.Catalog {
	if len(s.Catalog) > 0 {
		return s.Catalog
	}
	c, err := b.search.Catalog(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("Catalog unavailable", zap.Error(err))
	}
	if len(c) > 0 {
		s.Catalog = c
	}
	return c
}

func (b *Service) tags(ctx context.Context, s *session.Session) domain.TagSchema {
	if len(s.Tags) > 0 {
		return s.Tags
	}
	t := b.search.TagMenu(ctx, b.catalog(ctx, s))
	if len(t) > 0 {
		s.Tags = t
	}
	return t
}

func (b *Service) showMonths(ctx context.Context, s *session.Session) error {
	if len(b.catalog(ctx, s)) == 0 {
		_, err := b.chat.Send(ctx, Message{ChatID: s.ID, Text: textNoMonths})
		return err
	}
	_, err := b.chat.Send(ctx, Message{ChatID: s.ID, Text: textChooseMonth, Buttons: monthKeyboard(s)})
	return err
}

func (b *Service) showTags(ctx context.Context, s *session.Session) error {
	if len(b.tags(ctx, s)) == 0 {
		_, err := b.chat.Send(ctx, Message{ChatID: s.ID, Text: textNoTags})
		return err
	}
	_, err := b.chat.Send(ctx, Message{
		ChatID:   s.ID,
		Text:     textChooseTags,
		PhotoURL: b.tagsImageURL,
		Buttons:  tagsKeyboard(s),
	})
	return err
}

func (b *Service) findLinks(ctx context.Context, s *session.Session) error {
	log := logger.FromContext(ctx)

	if err := b.sendFormatted(ctx, s.ID, selectionBlock(s.Selection)); err != nil {
		return err
	}
	if _, err := b.chat.Send(ctx, Message{ChatID: s.ID, Text: textSearching}); err != nil {
		return err
	}

	refs := b.search.Search(ctx, b.catalog(ctx, s), s.Selection)
	log.Info("Search completed", zap.Int("references", len(refs)))

	if _, err := b.chat.Send(ctx, Message{ChatID: s.ID, Text: fmt.Sprintf(textFoundFmt, len(refs))}); err != nil {
		return err
	}
	for _, ref := range refs {
		if err := b.sendFormatted(ctx, s.ID, ref.String()); err != nil {
			return err
		}
	}
	return nil
}

// sendFormatted sends MarkdownV2 and falls back to plain text when the platform rejects the markup.
func (b *Service) sendFormatted(ctx context.Context, chatID int64, text string) error {
	_, err := b.chat.Send(ctx, Message{ChatID: chatID, Text: text, Format: MarkdownV2})
	if err == nil {
		return nil
	}
	logger.FromContext(ctx).Debug("MarkdownV2 rejected, sending plain text", zap.Error(err))
	_, err = b.chat.Send(ctx, Message{ChatID: chatID, Text: text})
	return err
}

// selectionBlock renders the selection as an indented JSON code block escaped for MarkdownV2.
func selectionBlock(sel *selection.State) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	_ = enc.Encode(sel.Snapshot())
	return "```json\n" + reference.Escape(string(bytes.TrimSpace(buf.Bytes()))) + "\n```"
}
