package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"devnovate/internal/models"
	"devnovate/internal/services"
	"devnovate/internal/watch"
)

// Мок-репозиторий блогов (в памяти) для реального сервиса модерации.
type mockBlogRepo struct {
	blogs []*models.Blog
}

func (m *mockBlogRepo) find(id string) *models.Blog {
	for _, b := range m.blogs {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (m *mockBlogRepo) GetAll(_ context.Context) ([]*models.Blog, error) {
	return append([]*models.Blog{}, m.blogs...), nil
}

func (m *mockBlogRepo) GetByID(_ context.Context, id string) (*models.Blog, error) {
	if b := m.find(id); b != nil {
		return b, nil
	}
	return nil, errors.New("not found")
}

func (m *mockBlogRepo) Insert(_ context.Context, b *models.Blog) (*models.Blog, error) {
	m.blogs = append(m.blogs, b)
	return b, nil
}

func (m *mockBlogRepo) SetPublished(_ context.Context, id string) error {
	if b := m.find(id); b != nil {
		now := time.Now()
		b.Status = models.StatusPublished
		b.PublishedAt = &now
		b.RejectionReason = nil
	}
	return nil
}

func (m *mockBlogRepo) SetRejected(_ context.Context, id, reason string) error {
	if b := m.find(id); b != nil {
		b.Status = models.StatusRejected
		b.RejectionReason = &reason
	}
	return nil
}

func (m *mockBlogRepo) Delete(_ context.Context, id string) error {
	kept := m.blogs[:0]
	for _, b := range m.blogs {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	m.blogs = kept
	return nil
}

func (m *mockBlogRepo) GenerateSlug(_ context.Context, title, _ string) (string, error) {
	return title + "-slug", nil
}

type mockProfileRepo struct {
	profiles []*models.Profile
}

func (m *mockProfileRepo) GetAll(_ context.Context) ([]*models.Profile, error) {
	return m.profiles, nil
}

func newTestService(blogs []*models.Blog, profiles []*models.Profile) (*Service, *mockBlogRepo) {
	repo := &mockBlogRepo{blogs: blogs}
	svc := NewService(
		NewStore(),
		services.NewModerationService(repo),
		&mockProfileRepo{profiles: profiles},
		watch.NewWatcher(nil, nil),
	)
	return svc, repo
}

func TestLoadMergesAuthors(t *testing.T) {
	svc, _ := newTestService(
		[]*models.Blog{
			{ID: "b1", Title: "t1", AuthorID: "u1", Status: models.StatusSubmitted},
			{ID: "b2", Title: "t2", AuthorID: "ghost", Status: models.StatusPublished},
		},
		[]*models.Profile{{UserID: "u1", Name: "Алиса", Email: "a@example.com"}},
	)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}

	got := svc.Blogs("", "")
	if len(got) != 2 {
		t.Fatalf("ожидалось 2 блога, получено %d", len(got))
	}

	byID := map[string]BlogWithAuthor{}
	for _, b := range got {
		byID[b.ID] = b
	}
	if byID["b1"].Author == nil || byID["b1"].Author.Name != "Алиса" {
		t.Fatalf("автор не склеен: %+v", byID["b1"].Author)
	}
	// Автор без профиля — блог остаётся, author пустой.
	if byID["b2"].Author != nil {
		t.Fatal("у b2 не должно быть автора")
	}
}

func TestDispatchActions(t *testing.T) {
	svc, repo := newTestService(
		[]*models.Blog{{ID: "b1", Status: models.StatusSubmitted}},
		nil,
	)
	ctx := context.Background()

	if err := svc.Dispatch(ctx, "approve", "", ""); !errors.Is(err, ErrMissingID) {
		t.Fatalf("ожидался ErrMissingID, получено: %v", err)
	}
	if err := svc.Dispatch(ctx, "promote", "b1", ""); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("ожидался ErrUnknownAction, получено: %v", err)
	}

	if err := svc.Dispatch(ctx, "reject", "b1", "spam"); err != nil {
		t.Fatalf("ошибка reject: %v", err)
	}
	if got := *repo.find("b1").RejectionReason; got != "spam" {
		t.Fatalf("причина не дошла до стора: %q", got)
	}

	if err := svc.Dispatch(ctx, "approve", "b1", ""); err != nil {
		t.Fatalf("ошибка approve: %v", err)
	}
	if repo.find("b1").Status != models.StatusPublished {
		t.Fatal("approve не применился")
	}
}

func TestDispatchDoesNotTouchLocalState(t *testing.T) {
	svc, _ := newTestService(
		[]*models.Blog{{ID: "b1", Title: "t", Status: models.StatusSubmitted}},
		nil,
	)
	ctx := context.Background()

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}
	if err := svc.Dispatch(ctx, "delete", "b1", ""); err != nil {
		t.Fatalf("ошибка delete: %v", err)
	}

	// Локальное состояние меняется только событием change-feed.
	if got := svc.Blogs("", ""); len(got) != 1 {
		t.Fatalf("dispatch затронул локальное состояние: %+v", got)
	}
	if svc.LiveCount() != 0 {
		t.Fatal("live-счётчик не должен расти без событий")
	}
}

func TestRunAppliesEventsFromPreLoadWindow(t *testing.T) {
	svc, _ := newTestService(
		[]*models.Blog{blog("b1", "Первый", models.StatusSubmitted)},
		nil,
	)

	// События уже лежат в канале подписки до первичной загрузки —
	// при любом порядке применения и загрузки итог один и тот же.
	ch := make(chan watch.Event, 4)
	ch <- watch.Event{Op: watch.OpDelete, ID: "b1"}
	ch <- insertEvent(blog("b2", "Второй", models.StatusPublished))
	close(ch)

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background(), &watch.Subscription{C: ch})
		close(done)
	}()

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}
	<-done

	got := svc.Blogs("", "")
	if len(got) != 1 || got[0].ID != "b2" {
		t.Fatalf("события из окна до загрузки потеряны: %+v", got)
	}
	if svc.LiveCount() != 2 {
		t.Fatalf("ожидалось 2 live-события, получено %d", svc.LiveCount())
	}
}

func TestStubActions(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	ctx := context.Background()

	if got := svc.Edit(ctx, "b1"); got != "Editing blog b1" {
		t.Fatalf("неожиданный ответ edit: %q", got)
	}
	if got := svc.RaiseTicket(ctx, "b1"); got != "Ticket raised for blog b1" {
		t.Fatalf("неожиданный ответ ticket: %q", got)
	}
}
