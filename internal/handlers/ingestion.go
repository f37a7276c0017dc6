package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"devnovate/internal/logger"
	"devnovate/internal/models"
	"devnovate/internal/services"
	helpers "devnovate/internal/utils/helpres"

	"go.uber.org/zap"
)

type IngestionHandler struct {
	svc services.IngestionService
	// Секрет вебхука; пустая строка — проверка выключена.
	secret string
}

func NewIngestionHandler(svc services.IngestionService, secret string) *IngestionHandler {
	return &IngestionHandler{svc: svc, secret: secret}
}

type ingestError struct {
	Error string `json:"error"`
}

type ingestSuccess struct {
	Success bool         `json:"success"`
	Blog    *models.Blog `json:"blog"`
	Message string       `json:"message"`
}

// Handle godoc
// @Summary      Приём блога извне (receive-blog)
// @Description  POST — вставка блога со сгенерированным слагом. GET — описание контракта.
// @Tags         functions
// @Accept       json
// @Produce      json
// @Param        body  body   models.CreateBlogRequest  true  "Входящий блог"
// @Success      201   {object}  ingestSuccess
// @Failure      400   {object}  ingestError
// @Failure      405   {object}  ingestError
// @Failure      500   {object}  ingestError
// @Router       /api/functions/receive-blog [post]
func (h *IngestionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		// Preflight добирается сюда только без CORS-обвязки — отвечаем пусто.
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.describe(w, r)
	default:
		helpers.Raw(w, http.StatusMethodNotAllowed, ingestError{Error: "Method not allowed"})
	}
}

func (h *IngestionHandler) create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	if h.secret != "" && r.Header.Get("X-Webhook-Secret") != h.secret {
		log.Warn("Вебхук: неверный секрет")
		helpers.Raw(w, http.StatusUnauthorized, ingestError{Error: "Invalid webhook secret"})
		return
	}

	var req models.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Битое тело не выделяется отдельной ошибкой — общий 500.
		log.Warn("Вебхук: невалидный JSON", zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError, ingestError{Error: "Internal server error"})
		return
	}

	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			helpers.Raw(w, http.StatusBadRequest,
				ingestError{Error: "Missing required fields: title, content_html, author_id"})
			return
		}
		log.Error("Вебхук: ошибка создания блога", zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError,
			ingestError{Error: "Failed to create blog post"})
		return
	}

	helpers.Raw(w, http.StatusCreated, ingestSuccess{
		Success: true,
		Blog:    created,
		Message: "Blog post created successfully",
	})
}

// describe возвращает статичное описание контракта — документация, не операция.
func (h *IngestionHandler) describe(w http.ResponseWriter, _ *http.Request) {
	documentation := map[string]interface{}{
		"endpoint":    "/api/functions/receive-blog",
		"method":      "POST",
		"description": "Receive blog posts from external websites",
		"required_fields": map[string]string{
			"title":        "string - Blog post title",
			"content_html": "string - HTML content of the blog",
			"author_id":    "string - UUID of the author",
		},
		"optional_fields": map[string]string{
			"content_markdown": "string - Markdown content (defaults to content_html)",
			"tags":             "string[] - Array of tags",
			"cover_image_url":  "string - URL of cover image",
			"status":           "string - published/draft (defaults to published)",
		},
		"example": map[string]interface{}{
			"title":            "My Blog Post",
			"content_html":     "<p>This is the content</p>",
			"content_markdown": "This is the content",
			"author_id":        "uuid-here",
			"tags":             []string{"tech", "ai"},
			"cover_image_url":  "https://example.com/image.jpg",
			"status":           "published",
		},
	}

	helpers.Raw(w, http.StatusOK, documentation)
}
