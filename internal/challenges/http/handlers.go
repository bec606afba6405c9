// Package http exposes the challenge instance routes: instance lifecycle,
// submissions and messages.
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apihttp "github.com/guahanweb/photography-challenges-backend/internal/api/http"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/challenges/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/challenges/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

type Handler struct {
	repo *repository.InstanceRepository
}

func NewHandler(repo *repository.InstanceRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) createInstance(c *gin.Context) {
	var input domain.CreateInstanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apihttp.Fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if input.ProjectID == "" {
		apihttp.Fail(c, http.StatusBadRequest, "projectId is required")
		return
	}
	if input.AssignedTo == "" {
		if claims := auth.ClaimsFrom(c); claims != nil {
			input.AssignedTo = claims.Email
		}
	}

	inst, err := h.repo.CreateInstance(c.Request.Context(), input)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to create instance")
		return
	}

	apihttp.OK(c, http.StatusCreated, inst)
}

func (h *Handler) getInstance(c *gin.Context) {
	instanceID := c.Param("instanceId")

	inst, err := h.repo.GetInstance(c.Request.Context(), instanceID)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to get instance")
		return
	}
	// Soft-deleted instances read as gone.
	if inst == nil || inst.Deleted {
		apihttp.Fail(c, http.StatusNotFound, "instance not found")
		return
	}

	apihttp.OK(c, http.StatusOK, inst)
}

func (h *Handler) updateInstance(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var input domain.UpdateInstanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apihttp.Fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	inst, err := h.repo.UpdateInstance(c.Request.Context(), instanceID, input)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to update instance")
		return
	}

	apihttp.OK(c, http.StatusOK, inst)
}

func (h *Handler) deleteInstance(c *gin.Context) {
	instanceID := c.Param("instanceId")

	if err := h.repo.SoftDelete(c.Request.Context(), instanceID); err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to delete instance")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) addSubmission(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var input domain.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apihttp.Fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	sub, err := h.repo.AddSubmission(c.Request.Context(), instanceID, input)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to add submission")
		return
	}

	apihttp.OK(c, http.StatusCreated, sub)
}

func (h *Handler) addMessage(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var input domain.MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apihttp.Fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if input.SenderID == "" {
		if claims := auth.ClaimsFrom(c); claims != nil {
			input.SenderID = claims.Email
		}
	}

	msg, err := h.repo.AddMessage(c.Request.Context(), instanceID, input)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to add message")
		return
	}

	apihttp.OK(c, http.StatusCreated, msg)
}

type submissionsResponse struct {
	Items            []domain.Submission `json:"items"`
	LastEvaluatedKey string              `json:"lastEvaluatedKey,omitempty"`
}

func (h *Handler) getSubmissions(c *gin.Context) {
	instanceID := c.Param("instanceId")
	limit, cursor := pageParams(c)

	page, err := h.repo.GetSubmissions(c.Request.Context(), instanceID, limit, cursor)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	apihttp.OK(c, http.StatusOK, submissionsResponse{
		Items:            page.Items,
		LastEvaluatedKey: string(page.Cursor),
	})
}

type messagesResponse struct {
	Items            []domain.Message `json:"items"`
	LastEvaluatedKey string           `json:"lastEvaluatedKey,omitempty"`
}

func (h *Handler) getMessages(c *gin.Context) {
	instanceID := c.Param("instanceId")
	limit, cursor := pageParams(c)

	page, err := h.repo.GetMessages(c.Request.Context(), instanceID, limit, cursor)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to list messages")
		return
	}

	apihttp.OK(c, http.StatusOK, messagesResponse{
		Items:            page.Items,
		LastEvaluatedKey: string(page.Cursor),
	})
}

type instancesResponse struct {
	Items            []domain.Instance `json:"items"`
	LastEvaluatedKey string            `json:"lastEvaluatedKey,omitempty"`
}

// listMine lists the authenticated user's own challenge instances.
func (h *Handler) listMine(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		apihttp.Fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	limit, cursor := pageParams(c)

	page, err := h.repo.GetUserProjects(c.Request.Context(), claims.Email, limit, cursor)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to list challenges")
		return
	}

	apihttp.OK(c, http.StatusOK, instancesResponse{
		Items:            page.Items,
		LastEvaluatedKey: string(page.Cursor),
	})
}

// listMentoring lists instances the authenticated user assigned to others.
func (h *Handler) listMentoring(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		apihttp.Fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	limit, cursor := pageParams(c)

	page, err := h.repo.GetMentorProjects(c.Request.Context(), claims.Email, limit, cursor)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to list mentored challenges")
		return
	}

	apihttp.OK(c, http.StatusOK, instancesResponse{
		Items:            page.Items,
		LastEvaluatedKey: string(page.Cursor),
	})
}

func pageParams(c *gin.Context) (int, storage.Cursor) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return limit, storage.Cursor(c.Query("lastEvaluatedKey"))
}
