// Package http exposes the project CRUD routes.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apihttp "github.com/guahanweb/photography-challenges-backend/internal/api/http"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/projects/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/projects/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

type Handler struct {
	repo *repository.ProjectRepository
}

func NewHandler(repo *repository.ProjectRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) create(c *gin.Context) {
	var input domain.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apihttp.Fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if input.Title == "" {
		apihttp.Fail(c, http.StatusBadRequest, "title is required")
		return
	}
	if input.CreatedBy == "" {
		if claims := auth.ClaimsFrom(c); claims != nil {
			input.CreatedBy = claims.Email
		}
	}

	p, err := h.repo.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			apihttp.Fail(c, http.StatusBadRequest, "project already exists")
			return
		}
		apihttp.Fail(c, http.StatusInternalServerError, "failed to create project")
		return
	}

	apihttp.OK(c, http.StatusCreated, p)
}

func (h *Handler) get(c *gin.Context) {
	projectID := c.Param("projectId")
	if projectID == "" {
		apihttp.Fail(c, http.StatusBadRequest, "project ID is required")
		return
	}
	version := versionParam(c)

	p, err := h.repo.Get(c.Request.Context(), projectID, version)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to get project")
		return
	}
	if p == nil {
		apihttp.Fail(c, http.StatusNotFound, "project not found")
		return
	}

	apihttp.OK(c, http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	projectID := c.Param("projectId")
	version := versionParam(c)

	var input domain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apihttp.Fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	p, err := h.repo.Update(c.Request.Context(), projectID, version, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			apihttp.Fail(c, http.StatusNotFound, "project not found")
		case errors.Is(err, domain.ErrVersionConflict):
			apihttp.Fail(c, http.StatusConflict, "version conflict, re-fetch and retry")
		default:
			apihttp.Fail(c, http.StatusInternalServerError, "failed to update project")
		}
		return
	}

	apihttp.OK(c, http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	projectID := c.Param("projectId")
	version := versionParam(c)

	if err := h.repo.Delete(c.Request.Context(), projectID, version); err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

type listResponse struct {
	Items            []domain.Project `json:"items"`
	LastEvaluatedKey string           `json:"lastEvaluatedKey,omitempty"`
}

// list pages through the raw version rows: a page can contain several
// historical versions of the same project side by side.
func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	cursor := storage.Cursor(c.Query("lastEvaluatedKey"))

	page, err := h.repo.List(c.Request.Context(), limit, cursor)
	if err != nil {
		apihttp.Fail(c, http.StatusInternalServerError, "failed to list projects")
		return
	}

	apihttp.OK(c, http.StatusOK, listResponse{
		Items:            page.Items,
		LastEvaluatedKey: string(page.Cursor),
	})
}

// versionParam reads the optimistic-concurrency version from the query
// string, defaulting to 1.
func versionParam(c *gin.Context) int {
	v, err := strconv.Atoi(c.DefaultQuery("version", "1"))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
