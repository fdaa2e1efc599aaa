package bot

import (
	"context"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	"github.com/imwes/linkfinder/internal/usecase/session"
)

// Format selects how message text is parsed by the chat platform.
type Format int

const (
	// Plain sends text as is.
	Plain Format = iota
	// MarkdownV2 sends text with Telegram MarkdownV2 markup.
	MarkdownV2
)

// Button is an inline button carrying an opaque callback token.
type Button struct {
	Label string
	Token string
}

// Message is an outgoing chat message.
type Message struct {
	ChatID    int64
	Text      string // caption when PhotoURL is set
	Format    Format
	PhotoURL  string
	Buttons   [][]Button
	ReplyMenu [][]string
}

// MessageRef identifies a sent message that carries a keyboard.
type MessageRef struct {
	ChatID    int64
	MessageID int
	IsPhoto   bool
}

// Messenger is the chat transport contract.
type Messenger interface {
	Send(ctx context.Context, msg Message) (MessageRef, error)
	// Edit replaces both text and buttons of a text message.
	Edit(ctx context.Context, ref MessageRef, text string, buttons [][]Button) error
	// EditButtons replaces only the buttons.
	EditButtons(ctx context.Context, ref MessageRef, buttons [][]Button) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Searcher is the search use case seen by the bot.
type Searcher interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
	TagMenu(ctx context.Context, catalog domain.Catalog) domain.TagSchema
	Search(ctx context.Context, catalog domain.Catalog, sel *selection.State) []reference.Reference
}

// Sessions hands out per-chat sessions.
type Sessions interface {
	Get(id int64) *session.Session
}
