// Package dashboard — состояние админской панели: единый in-memory стор,
// обновляемый редьюсер-переходами (полная замена при загрузке,
// upsert/remove по ключу от change-feed).
package dashboard

import (
	"strings"
	"sync"

	"devnovate/internal/models"
	"devnovate/internal/watch"
)

type Store struct {
	mu       sync.Mutex
	blogs    []*models.Blog
	profiles []*models.Profile

	// События, пришедшие до завершения первичной загрузки,
	// буферизуются и проигрываются после неё в порядке прибытия —
	// иначе полная замена списка могла бы их затереть.
	loaded  bool
	pending []watch.Event

	liveCount int
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceAll — полная замена списка блогов (результат первичной загрузки
// или ручного обновления). Накопленные события проигрываются следом.
func (s *Store) ReplaceAll(blogs []*models.Blog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blogs = append([]*models.Blog(nil), blogs...)
	if !s.loaded {
		s.loaded = true
		for _, ev := range s.pending {
			s.apply(ev)
		}
		s.pending = nil
	}
}

// ReplaceProfiles — полная замена списка авторов.
func (s *Store) ReplaceProfiles(profiles []*models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append([]*models.Profile(nil), profiles...)
}

// Apply применяет событие change-feed (или буферизует его до загрузки).
func (s *Store) Apply(ev watch.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.pending = append(s.pending, ev)
		return
	}
	s.apply(ev)
}

func (s *Store) apply(ev watch.Event) {
	s.liveCount++

	switch ev.Op {
	case watch.OpInsert:
		// Загрузка могла уже включать эту строку — тогда замена, не дубль.
		for i, b := range s.blogs {
			if b.ID == ev.ID {
				s.blogs[i] = ev.Blog
				return
			}
		}
		s.blogs = append([]*models.Blog{ev.Blog}, s.blogs...)

	case watch.OpUpdate:
		for i, b := range s.blogs {
			if b.ID == ev.ID {
				s.blogs[i] = ev.Blog
				return
			}
		}

	case watch.OpDelete:
		kept := s.blogs[:0]
		for _, b := range s.blogs {
			if b.ID != ev.ID {
				kept = append(kept, b)
			}
		}
		s.blogs = kept
	}
}

// Filter — предикат панели: запись проходит, если поисковая строка пуста
// либо входит (без учёта регистра) в заголовок или HTML-контент, И статус
// равен фильтру (или фильтр "all"/пустой). Пересчитывается на каждый
// запрос, без кэша.
func (s *Store) Filter(search, status string) []*models.Blog {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	out := []*models.Blog{}
	for _, b := range s.blogs {
		matchesSearch := needle == "" ||
			strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.ContentHTML), needle)
		matchesStatus := status == "" || status == "all" || b.Status == status
		if matchesSearch && matchesStatus {
			out = append(out, b)
		}
	}
	return out
}

// Profiles возвращает текущий список авторов.
func (s *Store) Profiles() []*models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Profile(nil), s.profiles...)
}

// LiveCount — счётчик применённых live-событий (чисто отображение).
func (s *Store) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveCount
}
