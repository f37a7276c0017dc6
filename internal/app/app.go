package app

import (
	"context"

	"devnovate/internal/config"
	"devnovate/internal/dashboard"
	"devnovate/internal/db"
	"devnovate/internal/handlers"
	"devnovate/internal/logger"
	"devnovate/internal/repository"
	"devnovate/internal/routes"
	"devnovate/internal/services"
	"devnovate/internal/watch"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if cfg.AutoMigrate {
		if err := db.RunMigrations(cfg.GetDSN()); err != nil {
			return nil, err
		}
		logger.Log.Info("Миграции применены", zap.String("dsn", cfg.GetDSNSafe()))
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	blogRepo := repository.NewBlogRepo(conn)
	profileRepo := repository.NewProfileRepo(conn)

	// Сервисы
	moderationSvc := services.NewModerationService(blogRepo)
	ingestionSvc := services.NewIngestionService(blogRepo)

	// Change-feed и панель
	watcher := watch.NewWatcher(conn, blogRepo)

	store := dashboard.NewStore()
	dashboardSvc := dashboard.NewService(store, moderationSvc, profileRepo, watcher)

	// События за время обрыва LISTEN теряются безвозвратно — после
	// переподключения состояние панели перечитывается целиком.
	watcher.OnReconnect(func() {
		if err := dashboardSvc.Load(context.Background()); err != nil {
			logger.Log.Warn("Перезагрузка панели после переподключения не удалась", zap.Error(err))
		}
	})
	watcher.Start(context.Background())

	// Подписка оформляется синхронно, до первичной загрузки: события
	// из окна между подпиской и загрузкой буферизуются стором и
	// проигрываются после неё.
	sub := dashboardSvc.Subscribe()
	go dashboardSvc.Run(context.Background(), sub)
	if err := dashboardSvc.Load(context.Background()); err != nil {
		logger.Log.Warn("Первичная загрузка панели не удалась", zap.Error(err))
	}

	// Хендлеры
	authHandler := handlers.NewAuthHandler(cfg)
	moderationHandler := handlers.NewModerationHandler(moderationSvc)
	ingestionHandler := handlers.NewIngestionHandler(ingestionSvc, cfg.WebhookSecret)
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, authHandler, moderationHandler, ingestionHandler, dashboardHandler)

	return router, nil
}
