// Package watch доставляет события change-feed таблицы blogs
// (LISTEN/NOTIFY, канал blogs_changes) подписчикам внутри процесса.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"devnovate/internal/logger"
	"devnovate/internal/models"
	"devnovate/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const channelName = "blogs_changes"

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Event — одно строковое событие таблицы blogs.
// Для DELETE поле Blog содержит удалённую строку (из OLD).
type Event struct {
	Op   Op
	ID   string
	Blog *models.Blog
}

type notifyPayload struct {
	Op   string       `json:"op"`
	ID   string       `json:"id"`
	Blog *models.Blog `json:"blog"`
}

func decodeEvent(payload string) (Event, error) {
	var p notifyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return Event{}, fmt.Errorf("payload уведомления: %w", err)
	}

	switch Op(p.Op) {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return Event{}, fmt.Errorf("неизвестная операция в уведомлении: %q", p.Op)
	}

	ev := Event{Op: Op(p.Op), ID: p.ID, Blog: p.Blog}
	if ev.Blog != nil {
		ev.ID = ev.Blog.ID
	}
	return ev, nil
}

// Subscription — отменяемая подписка на события.
// Канал C закрывается при Close или остановке наблюдателя.
type Subscription struct {
	C      <-chan Event
	cancel func()
	once   sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Watcher держит выделенное соединение на LISTEN и раздаёт
// события всем активным подпискам.
type Watcher struct {
	pool *pgxpool.Pool
	repo repository.BlogRepo

	// onReconnect вызывается после восстановления подписки (не при
	// первом подключении): события за время обрыва потеряны.
	onReconnect func()

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewWatcher(pool *pgxpool.Pool, repo repository.BlogRepo) *Watcher {
	return &Watcher{
		pool: pool,
		repo: repo,
		subs: make(map[int]chan Event),
	}
}

// OnReconnect задаёт обработчик восстановления подписки. Задавать до Start.
func (w *Watcher) OnReconnect(fn func()) { w.onReconnect = fn }

// Start запускает цикл прослушивания. Возвращается сразу;
// остановка — через отмену ctx.
func (w *Watcher) Start(ctx context.Context) {
	go w.listenLoop(ctx)
}

func (w *Watcher) listenLoop(ctx context.Context) {
	defer w.closeAll()

	first := true
	for {
		if ctx.Err() != nil {
			return
		}

		err := w.listenOnce(ctx, !first)
		first = false
		if err != nil && ctx.Err() == nil {
			logger.Log.Error("Change-feed: соединение потеряно, переподключение", zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

// notifyReconnect дёргает обработчик только при повторном подключении:
// после первого Subscribe состояние и так загружается целиком.
func (w *Watcher) notifyReconnect(reconnected bool) {
	if reconnected && w.onReconnect != nil {
		w.onReconnect()
	}
}

func (w *Watcher) listenOnce(ctx context.Context, reconnected bool) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return err
	}
	logger.Log.Info("Change-feed: подписка на канал активна", zap.String("channel", channelName))

	w.notifyReconnect(reconnected)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		ev, err := decodeEvent(n.Payload)
		if err != nil {
			logger.Log.Warn("Change-feed: событие пропущено", zap.Error(err))
			continue
		}

		// Усечённый payload (строка не влезла в pg_notify) — дочитываем сами.
		if ev.Blog == nil && ev.Op != OpDelete {
			b, err := w.repo.GetByID(ctx, ev.ID)
			if err != nil {
				logger.Log.Warn("Change-feed: не удалось дочитать строку",
					zap.String("blog_id", ev.ID), zap.Error(err))
				continue
			}
			ev.Blog = b
		}

		w.broadcast(ev)
	}
}

func (w *Watcher) broadcast(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, ch := range w.subs {
		select {
		case ch <- ev:
		default:
			// Подписчик не читает — событие для него теряется.
			logger.Log.Warn("Change-feed: подписчик отстаёт, событие отброшено",
				zap.Int("subscriber", id), zap.String("op", string(ev.Op)))
		}
	}
}

// Subscribe регистрирует новую подписку с буфером на 64 события.
func (w *Watcher) Subscribe() *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan Event, 64)
	if w.closed {
		close(ch)
		return &Subscription{C: ch, cancel: func() {}}
	}

	id := w.nextID
	w.nextID++
	w.subs[id] = ch

	return &Subscription{
		C: ch,
		cancel: func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if sub, ok := w.subs[id]; ok {
				delete(w.subs, id)
				close(sub)
			}
		},
	}
}

func (w *Watcher) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	for id, ch := range w.subs {
		delete(w.subs, id)
		close(ch)
	}
}
