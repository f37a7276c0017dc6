package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"devnovate/internal/config"
	"devnovate/internal/logger"
	helpers "devnovate/internal/utils/helpres"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler выдаёт access-токены единственному администратору панели.
// Учётные данные задаются в конфиге (ADMIN_USERNAME / ADMIN_PASSWORD_HASH).
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login godoc
// @Summary      Вход администратора
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   loginRequest  true  "Учётные данные"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при логине", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if h.cfg.AdminPasswordHash == "" ||
		req.Username != h.cfg.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)) != nil {
		logger.WithCtx(r.Context()).Warn("Неудачная попытка входа", zap.String("username", req.Username))
		helpers.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	ttl, err := time.ParseDuration(h.cfg.AccessTokenTTL)
	if err != nil {
		ttl = 15 * time.Minute
	}

	claims := jwt.MapClaims{
		"username": req.Username,
		"role":     "admin",
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка подписи токена", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.WithCtx(r.Context()).Info("Администратор вошёл", zap.String("username", req.Username))
	helpers.Raw(w, http.StatusOK, loginResponse{AccessToken: signed})
}
