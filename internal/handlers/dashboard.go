package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"devnovate/internal/dashboard"
	"devnovate/internal/logger"
	"devnovate/internal/models"
	helpers "devnovate/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	svc *dashboard.Service
}

func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type dashboardResponse struct {
	Success     bool                       `json:"success"`
	Blogs       []dashboard.BlogWithAuthor `json:"blogs"`
	LiveUpdates int                        `json:"live_updates"`
}

// ListBlogs godoc
// @Summary      Список блогов панели (с авторами и фильтрами)
// @Tags         dashboard
// @Security     ApiKeyAuth
// @Produce      json
// @Param        q       query  string  false  "Поиск по заголовку и контенту"
// @Param        status  query  string  false  "all|draft|submitted|published|rejected"
// @Success      200  {object}  dashboardResponse
// @Router       /api/admin/dashboard/blogs [get]
func (h *DashboardHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")

	blogs := h.svc.Blogs(q, status)
	helpers.Raw(w, http.StatusOK, dashboardResponse{
		Success:     true,
		Blogs:       blogs,
		LiveUpdates: h.svc.LiveCount(),
	})
}

type dispatchRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Dispatch godoc
// @Summary      Отправить модерационное действие из панели
// @Tags         dashboard
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dispatchRequest  true  "Действие"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/admin/dashboard/dispatch [post]
func (h *DashboardHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	err := h.svc.Dispatch(r.Context(), req.Action, req.ID, req.Reason)
	switch {
	case errors.Is(err, dashboard.ErrMissingID):
		helpers.Error(w, http.StatusBadRequest, "Missing blog id")
	case errors.Is(err, dashboard.ErrUnknownAction):
		helpers.Error(w, http.StatusBadRequest, "Unknown action")
	case err != nil:
		// Панель показывает общий сбой, без деталей стора.
		helpers.Error(w, http.StatusInternalServerError, "Action failed")
	default:
		helpers.JSON(w, http.StatusOK, "Action dispatched")
	}
}

// Edit godoc
// @Summary      Правка блога (заглушка)
// @Tags         dashboard
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "ID блога"
// @Success      200  {object}  map[string]string
// @Router       /api/admin/dashboard/blogs/{id}/edit [post]
func (h *DashboardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	helpers.JSON(w, http.StatusOK, h.svc.Edit(r.Context(), id))
}

// RaiseTicket godoc
// @Summary      Создать тикет по блогу (заглушка)
// @Tags         dashboard
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "ID блога"
// @Success      200  {object}  map[string]string
// @Router       /api/admin/dashboard/blogs/{id}/ticket [post]
func (h *DashboardHandler) RaiseTicket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	helpers.JSON(w, http.StatusOK, h.svc.RaiseTicket(r.Context(), id))
}

type sseEvent struct {
	Op   string       `json:"op"`
	ID   string       `json:"id"`
	Blog *models.Blog `json:"blog,omitempty"`
}

// Events godoc
// @Summary      SSE-поток событий change-feed для панели
// @Tags         dashboard
// @Security     ApiKeyAuth
// @Produce      text/event-stream
// @Router       /api/admin/dashboard/events [get]
func (h *DashboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		helpers.Error(w, http.StatusInternalServerError, "Стриминг не поддерживается")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.svc.Subscribe()
	defer sub.Close()

	log := logger.WithCtx(r.Context())
	log.Info("Панель: открыт SSE-поток")

	for {
		select {
		case ev, open := <-sub.C:
			if !open {
				return
			}
			data, err := json.Marshal(sseEvent{Op: string(ev.Op), ID: ev.ID, Blog: ev.Blog})
			if err != nil {
				log.Warn("Панель: событие не сериализовалось", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			log.Info("Панель: SSE-поток закрыт клиентом")
			return
		}
	}
}
