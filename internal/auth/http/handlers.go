// Package http exposes the auth routes: register, login and token validation.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/guahanweb/photography-challenges-backend/internal/api/http"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/users/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/users/repository"
)

type Handler struct {
	users  *repository.UserRepository
	tokens *auth.TokenService
}

func NewHandler(users *repository.UserRepository, tokens *auth.TokenService) *Handler {
	return &Handler{users: users, tokens: tokens}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		apihttp.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			apihttp.Fail(c, http.StatusBadRequest, "user already exists")
			return
		}
		slog.Error("registration failed", "error", err)
		apihttp.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		apihttp.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihttp.OK(c, http.StatusCreated, tokenResponse{Token: token})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		apihttp.Fail(c, http.StatusUnauthorized, "missing credentials")
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			apihttp.Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.Error("login failed", "error", err)
		apihttp.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		apihttp.Fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihttp.OK(c, http.StatusOK, tokenResponse{Token: token})
}

// validate verifies the bearer token and echoes its claims, so a client can
// check whether a stored token is still good.
func (h *Handler) validate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		apihttp.Fail(c, http.StatusUnauthorized, "no authorization header")
		return
	}

	token, err := auth.ExtractTokenFromHeader(header)
	if err != nil {
		apihttp.Fail(c, http.StatusUnauthorized, "invalid authorization header")
		return
	}

	claims, err := h.tokens.VerifyToken(token)
	if err != nil {
		apihttp.Fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	apihttp.OK(c, http.StatusOK, claims)
}
