// Package http exposes the invitation routes: issuing, lookup by code,
// listing and claiming.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apihttp "github.com/guahanweb/photography-challenges-backend/internal/api/http"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

type Handler struct {
	repo *repository.InvitationRepository
}

func NewHandler(repo *repository.InvitationRepository) *Handler {
	return &Handler{repo: repo}
}

type createReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// create issues an invitation from the authenticated user. The one-pending-
// invitation-per-email rule is enforced here, not in the store.
func (h *Handler) create(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		apihttp.Fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		apihttp.Fail(c, http.StatusBadRequest, "email is required")
		return
	}

	existing, err := h.repo.CheckExistingInvitations(c.Request.Context(), req.Email, domain.StatusPending)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to create invitation")
		return
	}
	if len(existing) > 0 {
		apihttp.Fail(c, http.StatusBadRequest, "a pending invitation already exists for this email")
		return
	}

	inv, err := h.repo.Create(c.Request.Context(), domain.CreateInput{
		Email: req.Email,
		From: domain.Sender{
			UserID: claims.Email,
			Name:   req.Name,
			Email:  claims.Email,
		},
	})
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to create invitation")
		return
	}

	apihttp.OK(c, http.StatusCreated, inv)
}

// getByCode resolves an invitation code; used by the registration flow before
// the recipient has an account, so it sits on the public router.
func (h *Handler) getByCode(c *gin.Context) {
	code := c.Param("code")

	inv, err := h.repo.GetByCode(c.Request.Context(), code)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to look up invitation")
		return
	}
	if inv == nil {
		apihttp.Fail(c, http.StatusNotFound, "invitation not found")
		return
	}

	apihttp.OK(c, http.StatusOK, inv)
}

type listResponse struct {
	Items            []domain.Invitation `json:"items"`
	LastEvaluatedKey string              `json:"lastEvaluatedKey,omitempty"`
}

// listMine lists invitations issued by the authenticated user, optionally
// filtered by status.
func (h *Handler) listMine(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		apihttp.Fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	cursor := storage.Cursor(c.Query("lastEvaluatedKey"))

	var status *domain.Status
	if s := c.Query("status"); s != "" {
		st := domain.Status(s)
		status = &st
	}

	page, err := h.repo.ListByUser(c.Request.Context(), claims.Email, status, limit, cursor)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to list invitations")
		return
	}

	apihttp.OK(c, http.StatusOK, listResponse{
		Items:            page.Items,
		LastEvaluatedKey: string(page.Cursor),
	})
}

// claim transitions a PENDING invitation to CLAIMED. The store does not
// transition statuses itself; this handler is the caller that does.
func (h *Handler) claim(c *gin.Context) {
	code := c.Param("code")

	inv, err := h.repo.GetByCode(c.Request.Context(), code)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to claim invitation")
		return
	}
	if inv == nil {
		apihttp.Fail(c, http.StatusNotFound, "invitation not found")
		return
	}
	if inv.Status != domain.StatusPending {
		apihttp.Fail(c, http.StatusBadRequest, "invitation is not pending")
		return
	}
	if inv.ExpiresAt < time.Now().Unix() {
		apihttp.Fail(c, http.StatusBadRequest, "invitation has expired")
		return
	}

	claimed := domain.StatusClaimed
	claimedAt := time.Now().UTC().Format(time.RFC3339)
	updated, err := h.repo.Update(c.Request.Context(), inv.InvitationID, domain.UpdateInput{
		Status:    &claimed,
		ClaimedAt: &claimedAt,
	})
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to claim invitation")
		return
	}

	apihttp.OK(c, http.StatusOK, updated)
}
