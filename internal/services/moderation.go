package services

import (
	"context"

	"devnovate/internal/logger"
	"devnovate/internal/repository"

	"devnovate/internal/models"

	"go.uber.org/zap"
)

// Причины отклонения. reject и ban пишут одно и то же поле,
// различие только в тексте (и в имени действия на проводе).
const (
	DefaultRejectReason = "Rejected by admin"
	BanReason           = "Banned by admin"
)

type ModerationService interface {
	List(ctx context.Context) ([]*models.Blog, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
	Ban(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type moderationService struct {
	repo repository.BlogRepo
}

func NewModerationService(repo repository.BlogRepo) ModerationService {
	return &moderationService{repo: repo}
}

func (s *moderationService) List(ctx context.Context) ([]*models.Blog, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Сервис: список блогов для модерации")

	list, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error("Сервис: ошибка получения списка блогов (repo)", zap.Error(err))
		return nil, err
	}

	log.Debug("Сервис: список блогов получен", zap.Int("count", len(list)))
	return list, nil
}

func (s *moderationService) Approve(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Сервис: одобрение блога", zap.String("blog_id", id))

	if err := s.repo.SetPublished(ctx, id); err != nil {
		log.Error("Сервис: ошибка одобрения блога (repo)", zap.String("blog_id", id), zap.Error(err))
		return err
	}

	log.Info("Сервис: блог опубликован", zap.String("blog_id", id))
	return nil
}

func (s *moderationService) Reject(ctx context.Context, id, reason string) error {
	log := logger.WithCtx(ctx)

	if reason == "" {
		reason = DefaultRejectReason
	}
	log.Info("Сервис: отклонение блога", zap.String("blog_id", id), zap.String("reason", reason))

	if err := s.repo.SetRejected(ctx, id, reason); err != nil {
		log.Error("Сервис: ошибка отклонения блога (repo)", zap.String("blog_id", id), zap.Error(err))
		return err
	}

	log.Info("Сервис: блог отклонён", zap.String("blog_id", id))
	return nil
}

func (s *moderationService) Ban(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Сервис: бан блога", zap.String("blog_id", id))

	if err := s.repo.SetRejected(ctx, id, BanReason); err != nil {
		log.Error("Сервис: ошибка бана блога (repo)", zap.String("blog_id", id), zap.Error(err))
		return err
	}

	log.Info("Сервис: блог забанен", zap.String("blog_id", id))
	return nil
}

func (s *moderationService) Delete(ctx context.Context, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Сервис: удаление блога", zap.String("blog_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Сервис: ошибка удаления блога (repo)", zap.String("blog_id", id), zap.Error(err))
		return err
	}

	log.Info("Сервис: блог удалён", zap.String("blog_id", id))
	return nil
}
