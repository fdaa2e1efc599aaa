package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	"github.com/imwes/linkfinder/internal/usecase/session"
)

type edit struct {
	ref     MessageRef
	text    string
	buttons [][]Button
	onlyKB  bool
}

// fakeChat records outgoing traffic. Markdown messages fail when rejectMarkdown is set.
type fakeChat struct {
	mu             sync.Mutex
	sent           []Message
	edits          []edit
	answered       []string
	nextID         int
	rejectMarkdown bool
}

func (f *fakeChat) Send(_ context.Context, msg Message) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectMarkdown && msg.Format == MarkdownV2 {
		return MessageRef{}, errors.New("Bad Request: can't parse entities")
	}
	f.nextID++
	f.sent = append(f.sent, msg)
	return MessageRef{ChatID: msg.ChatID, MessageID: f.nextID, IsPhoto: msg.PhotoURL != ""}, nil
}

func (f *fakeChat) Edit(_ context.Context, ref MessageRef, text string, buttons [][]Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit{ref: ref, text: text, buttons: buttons})
	return nil
}

func (f *fakeChat) EditButtons(_ context.Context, ref MessageRef, buttons [][]Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit{ref: ref, buttons: buttons, onlyKB: true})
	return nil
}

func (f *fakeChat) AnswerCallback(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, id)
	return nil
}

func (f *fakeChat) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Text
	}
	return out
}

func (f *fakeChat) last() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeChat) lastEdit() edit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edits[len(f.edits)-1]
}

type fakeSearch struct {
	catalog      domain.Catalog
	catalogErr   error
	tags         domain.TagSchema
	refs         []reference.Reference
	catalogCalls int
	tagCalls     int
	lastSel      *selection.State
}

func (f *fakeSearch) Catalog(_ context.Context) (domain.Catalog, error) {
	f.catalogCalls++
	if f.catalogErr != nil {
		return domain.Catalog{}, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeSearch) TagMenu(_ context.Context, _ domain.Catalog) domain.TagSchema {
	f.tagCalls++
	if f.tags == nil {
		return domain.TagSchema{}
	}
	return f.tags
}

func (f *fakeSearch) Search(_ context.Context, _ domain.Catalog, sel *selection.State) []reference.Reference {
	f.lastSel = sel.Clone()
	return f.refs
}

func defaultSearch() *fakeSearch {
	return &fakeSearch{
		catalog: domain.Catalog{"Январь": "db1", "Февраль": "db2"},
		tags: domain.TagSchema{
			"Тема":   {"Безопасность": "t1", "Экономика": "t2"},
			"Регион": {"Азия": "r1"},
		},
	}
}

func newTestBot(search *fakeSearch, imageURL string) (*Service, *fakeChat, *session.Store) {
	chat := &fakeChat{}
	store := session.NewStore(time.Hour)
	return New(search, store, chat, imageURL, zap.NewNop()), chat, store
}

func labels(rows [][]Button) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		for _, b := range r {
			out = append(out, b.Label)
		}
	}
	return out
}

func tokens(rows [][]Button) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		for _, b := range r {
			out = append(out, b.Token)
		}
	}
	return out
}
