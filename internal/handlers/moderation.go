package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"devnovate/internal/logger"
	"devnovate/internal/models"
	"devnovate/internal/services"
	helpers "devnovate/internal/utils/helpres"

	"go.uber.org/zap"
)

type ModerationHandler struct {
	svc services.ModerationService
}

func NewModerationHandler(svc services.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

type moderateRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type moderateResponse struct {
	Success bool           `json:"success"`
	Blogs   []*models.Blog `json:"blogs,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Handle godoc
// @Summary      Модерация блогов (admin-blogs)
// @Description  Одним POST: list (по умолчанию), approve, reject, ban, delete.
// @Tags         functions
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body   moderateRequest  true  "Действие модерации"
// @Success      200   {object}  moderateResponse
// @Failure      400   {object}  moderateResponse
// @Failure      500   {object}  moderateResponse
// @Router       /api/functions/admin-blogs [post]
func (h *ModerationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	// Пустое или битое тело трактуется как {} — действие по умолчанию list.
	var req moderateRequest
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &req)
	}

	action := req.Action
	if action == "" {
		action = "list"
	}

	log.Info("Модерация: запрос", zap.String("action", action), zap.String("blog_id", req.ID))

	if action == "list" {
		blogs, err := h.svc.List(r.Context())
		if err != nil {
			log.Error("Модерация: ошибка list", zap.Error(err))
			helpers.Raw(w, http.StatusInternalServerError,
				moderateResponse{Success: false, Error: "Internal server error"})
			return
		}
		helpers.Raw(w, http.StatusOK, moderateResponse{Success: true, Blogs: blogs})
		return
	}

	if req.ID == "" {
		log.Warn("Модерация: действие без id", zap.String("action", action))
		helpers.Raw(w, http.StatusBadRequest,
			moderateResponse{Success: false, Error: "Missing blog id"})
		return
	}

	var err error
	switch action {
	case "approve":
		err = h.svc.Approve(r.Context(), req.ID)
	case "reject":
		err = h.svc.Reject(r.Context(), req.ID, req.Reason)
	case "ban":
		err = h.svc.Ban(r.Context(), req.ID)
	case "delete":
		err = h.svc.Delete(r.Context(), req.ID)
	default:
		// Неизвестное действие с id — no-op с успехом,
		// как и мутация несуществующего id (наблюдаемый контракт).
	}

	if err != nil {
		log.Error("Модерация: ошибка действия",
			zap.String("action", action), zap.String("blog_id", req.ID), zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError,
			moderateResponse{Success: false, Error: "Internal server error"})
		return
	}

	helpers.Raw(w, http.StatusOK, moderateResponse{Success: true})
}
