package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/usecase/bot"
)

// Handler processes chat events.
type Handler interface {
	HandleText(ctx context.Context, ev bot.TextEvent) error
	HandleCallback(ctx context.Context, ev bot.CallbackEvent) error
}

// updateSource is the subset of *tgbotapi.BotAPI used for long polling.
type updateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller receives updates by long polling and dispatches them to a fixed pool of
// workers. Updates of one chat always land on the same worker, so they are
// handled in arrival order.
type Poller struct {
	source  updateSource
	handler Handler
	workers int
	timeout int
	logger  *zap.Logger
}

// NewPoller creates a poller. timeoutSec is the long-poll timeout.
func NewPoller(source updateSource, handler Handler, workers, timeoutSec int, logger *zap.Logger) *Poller {
	if workers <= 0 {
		workers = 1
	}
	return &Poller{
		source:  source,
		handler: handler,
		workers: workers,
		timeout: timeoutSec,
		logger:  logger,
	}
}

// Run polls until ctx is cancelled, then drains queued updates and returns.
func (p *Poller) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := p.source.GetUpdatesChan(cfg)

	p.logger.Info("Polling for updates", zap.Int("workers", p.workers))

	p.dispatch(ctx, updates)
	p.source.StopReceivingUpdates()
	p.logger.Info("Polling stopped")
}

func (p *Poller) dispatch(ctx context.Context, updates <-chan tgbotapi.Update) {
	// Queued events still finish after shutdown starts.
	hctx := context.WithoutCancel(ctx)

	queues := make([]chan tgbotapi.Update, p.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, 64)
		wg.Add(1)
		go func(q <-chan tgbotapi.Update) {
			defer wg.Done()
			for u := range q {
				p.handle(hctx, u)
			}
		}(queues[i])
	}

	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			chatID, ok := chatOf(u)
			if !ok {
				continue
			}
			queues[workerFor(chatID, p.workers)] <- u
		}
	}
}

// workerFor maps a chat to a worker index; negative ids (groups) are folded.
func workerFor(chatID int64, workers int) int {
	i := chatID % int64(workers)
	if i < 0 {
		i = -i
	}
	return int(i)
}

func chatOf(u tgbotapi.Update) (int64, bool) {
	switch {
	case u.Message != nil && u.Message.Chat != nil:
		return u.Message.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil:
		return u.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, false
	}
}

func (p *Poller) handle(ctx context.Context, u tgbotapi.Update) {
	// Handler errors are already logged with the event id.
	switch {
	case u.Message != nil:
		_ = p.handler.HandleText(ctx, bot.TextEvent{
			ChatID: u.Message.Chat.ID,
			Text:   u.Message.Text,
		})
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		_ = p.handler.HandleCallback(ctx, bot.CallbackEvent{
			ChatID:     q.Message.Chat.ID,
			CallbackID: q.ID,
			Token:      q.Data,
			Message:    ref(q.Message),
		})
	}
}
