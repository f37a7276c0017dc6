package dashboard

import (
	"context"
	"fmt"

	"devnovate/internal/logger"
	"devnovate/internal/models"
	"devnovate/internal/repository"
	"devnovate/internal/services"
	"devnovate/internal/watch"

	"go.uber.org/zap"
)

// ErrMissingID — модерационное действие без id блога.
var ErrMissingID = fmt.Errorf("missing blog id")

// ErrUnknownAction — неизвестное действие в dispatch.
var ErrUnknownAction = fmt.Errorf("unknown action")

// BlogWithAuthor — блог, склеенный с профилем автора по author_id.
// Склейка выполняется на этой стороне, не в SQL.
type BlogWithAuthor struct {
	*models.Blog
	Author *models.Profile `json:"author,omitempty"`
}

// Service связывает стор панели с модерацией, профилями и change-feed.
type Service struct {
	store      *Store
	moderation services.ModerationService
	profiles   repository.ProfileRepo
	watcher    *watch.Watcher
}

func NewService(
	store *Store,
	moderation services.ModerationService,
	profiles repository.ProfileRepo,
	watcher *watch.Watcher,
) *Service {
	return &Service{
		store:      store,
		moderation: moderation,
		profiles:   profiles,
		watcher:    watcher,
	}
}

// Load выполняет первичную загрузку: блоги через модерацию (list),
// авторы напрямую из profiles. Состояние заменяется целиком.
func (s *Service) Load(ctx context.Context) error {
	blogs, err := s.moderation.List(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Панель: ошибка загрузки блогов", zap.Error(err))
		return err
	}

	profiles, err := s.profiles.GetAll(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Панель: ошибка загрузки профилей", zap.Error(err))
		return err
	}

	s.store.ReplaceProfiles(profiles)
	s.store.ReplaceAll(blogs)

	logger.WithCtx(ctx).Info("Панель: данные загружены",
		zap.Int("blogs", len(blogs)),
		zap.Int("profiles", len(profiles)),
	)
	return nil
}

// Run применяет события подписки к стору до отмены ctx или закрытия
// канала. Подписку оформляет вызывающий — до первичной загрузки, чтобы
// события из окна между подпиской и загрузкой буферизовались стором,
// а не терялись.
func (s *Service) Run(ctx context.Context, sub *watch.Subscription) {
	defer sub.Close()

	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			s.store.Apply(ev)
		case <-ctx.Done():
			return
		}
	}
}

// Subscribe — прямая подписка на change-feed (для SSE-потока панели).
func (s *Service) Subscribe() *watch.Subscription {
	return s.watcher.Subscribe()
}

// Blogs возвращает отфильтрованный срез состояния со склейкой авторов.
func (s *Service) Blogs(search, status string) []BlogWithAuthor {
	byUser := map[string]*models.Profile{}
	for _, p := range s.store.Profiles() {
		byUser[p.UserID] = p
	}

	blogs := s.store.Filter(search, status)
	out := make([]BlogWithAuthor, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, BlogWithAuthor{Blog: b, Author: byUser[b.AuthorID]})
	}
	return out
}

// LiveCount — счётчик live-обновлений для шапки панели.
func (s *Service) LiveCount() int { return s.store.LiveCount() }

// Dispatch отправляет модерационное действие. Локальное состояние
// не трогается — единственный путь обновления это событие change-feed,
// поэтому между ответом и видимым изменением есть окно.
func (s *Service) Dispatch(ctx context.Context, action, id, reason string) error {
	if id == "" {
		return ErrMissingID
	}

	switch action {
	case "approve":
		return s.moderation.Approve(ctx, id)
	case "reject":
		return s.moderation.Reject(ctx, id, reason)
	case "ban":
		return s.moderation.Ban(ctx, id)
	case "delete":
		return s.moderation.Delete(ctx, id)
	default:
		return ErrUnknownAction
	}
}

// Edit — заглушка: правка блога из панели не реализована.
func (s *Service) Edit(ctx context.Context, id string) string {
	logger.WithCtx(ctx).Info("Панель: запрошена правка блога (заглушка)", zap.String("blog_id", id))
	return fmt.Sprintf("Editing blog %s", id)
}

// RaiseTicket — заглушка: тикеты из панели не реализованы.
func (s *Service) RaiseTicket(ctx context.Context, id string) string {
	logger.WithCtx(ctx).Info("Панель: запрошен тикет по блогу (заглушка)", zap.String("blog_id", id))
	return fmt.Sprintf("Ticket raised for blog %s", id)
}
