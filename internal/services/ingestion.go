package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"devnovate/internal/logger"
	"devnovate/internal/models"
	"devnovate/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// ErrMissingFields — не заполнены обязательные поля входящего блога.
var ErrMissingFields = errors.New("missing required fields: title, content_html, author_id")

type IngestionService interface {
	Create(ctx context.Context, req models.CreateBlogRequest) (*models.Blog, error)
}

type ingestionService struct {
	repo   repository.BlogRepo
	policy *bluemonday.Policy
}

func NewIngestionService(repo repository.BlogRepo) IngestionService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &ingestionService{repo: repo, policy: p}
}

func (s *ingestionService) Create(ctx context.Context, req models.CreateBlogRequest) (*models.Blog, error) {
	log := logger.WithCtx(ctx)
	log.Info("Приём внешнего блога",
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.String("author_id", req.AuthorID),
		zap.String("status", req.Status),
		zap.Int("tags_count", len(req.Tags)),
	)

	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.ContentHTML) == "" ||
		strings.TrimSpace(req.AuthorID) == "" {
		log.Warn("Валидация не пройдена: обязательные поля", zap.Error(ErrMissingFields))
		return nil, ErrMissingFields
	}

	safe := s.policy.Sanitize(req.ContentHTML)

	markdown := req.ContentMarkdown
	if markdown == "" {
		markdown = req.ContentHTML
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	status := req.Status
	if status == "" {
		status = models.StatusPublished
	}

	slug, err := s.repo.GenerateSlug(ctx, req.Title, req.AuthorID)
	if err != nil {
		log.Error("Ошибка генерации слага (repo)", zap.Error(err))
		return nil, err
	}

	// published_at ставится всегда, даже для status=draft —
	// совместимость с исходным контрактом receive-blog.
	now := time.Now()

	b := &models.Blog{
		Title:           req.Title,
		ContentHTML:     safe,
		ContentMarkdown: &markdown,
		Status:          status,
		PublishedAt:     &now,
		AuthorID:        req.AuthorID,
		Tags:            tags,
		CoverImageURL:   strPtr(req.CoverImageURL),
		Slug:            slug,
	}

	created, err := s.repo.Insert(ctx, b)
	if err != nil {
		log.Error("Ошибка вставки блога (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Блог принят",
		zap.String("blog_id", created.ID),
		zap.String("slug", created.Slug),
		zap.String("status", created.Status),
	)
	return created, nil
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
