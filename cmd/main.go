package main

import (
	_ "devnovate/docs"
	"devnovate/internal/app"
	"devnovate/internal/config"
	"devnovate/internal/logger"
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title          Devnovate Admin API
// @version        1.0
// @description    Документация API панели модерации блогов Devnovate (admin-blogs, receive-blog, dashboard).

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	logger.InitLogger()
	defer logger.Log.Sync()

	if err != nil {
		logger.Log.Fatal("Ошибка загрузки конфига", zap.Error(err))
	}

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Log.Fatal("Невалидный конфиг", zap.Error(err))
	}
	for _, warn := range warnings {
		logger.Log.Warn("Конфиг: " + warn)
	}

	router, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("Ошибка инициализации приложения", zap.Error(err))
	}

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Permissive CORS: preflight обоих function-эндпоинтов закрывается здесь.
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Webhook-Secret"},
	})

	logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware.Handler(router)); err != nil {
		logger.Log.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
