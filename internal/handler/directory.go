package handler

import (
	"net/http"
	"strconv"

	"github.com/Vebses/GeoAdmin-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DirectoryHandler serves the read-only collaborator views the invoice wizard
// browses: cases, their billable actions, partners and sender companies.
type DirectoryHandler struct{ svc service.DirectoryService }

func NewDirectoryHandler(svc service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

func (h *DirectoryHandler) GetCase(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCase(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DirectoryHandler) ListCases(c *gin.Context) {
	page, limit := pagination(c)
	cases, total, err := h.svc.ListCases(c.Request.Context(), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cases, "total": total, "page": page, "limit": limit})
}

func (h *DirectoryHandler) ListCaseActions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	executorID := uuid.Nil
	if raw := c.Query("executor_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid executor_id"})
			return
		}
		executorID = parsed
	}
	resp, err := h.svc.ListCaseActions(c.Request.Context(), id, executorID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DirectoryHandler) GetPartner(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetPartner(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DirectoryHandler) ListPartners(c *gin.Context) {
	page, limit := pagination(c)
	partners, total, err := h.svc.ListPartners(c.Request.Context(), c.Query("type"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": partners, "total": total, "page": page, "limit": limit})
}

func (h *DirectoryHandler) GetCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DirectoryHandler) ListCompanies(c *gin.Context) {
	resp, err := h.svc.ListCompanies(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return page, limit
}
