package handler

import (
	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/andetex/mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type QualityHandler struct {
	svc *service.QualityService
}

func NewQualityHandler(svc *service.QualityService) *QualityHandler {
	return &QualityHandler{svc: svc}
}

// CreateInspection POST /quality/inspections
func (h *QualityHandler) CreateInspection(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	insp, err := h.svc.CreateInspection(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, insp)
}

// List GET /quality/inspections
func (h *QualityHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	params := repository.InspectionListParams{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		NodeID: c.Query("node_id"),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, pageData(items, total, page, limit))
}

// Get GET /quality/inspections/:id
func (h *QualityHandler) Get(c *gin.Context) {
	insp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, insp)
}

// AddDefect POST /quality/inspections/:id/defects
func (h *QualityHandler) AddDefect(c *gin.Context) {
	var req service.AddDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rec, err := h.svc.AddDefect(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, rec)
}

// UpdateStatus PATCH /quality/inspections/:id/status
func (h *QualityHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	insp, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), entity.InspectionStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, insp)
}

// UploadAttachment POST /quality/inspections/:id/attachments 附件上传（multipart）
func (h *QualityHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer file.Close()

	userID := c.GetString("user_id")
	att, err := h.svc.UploadAttachment(
		c.Request.Context(),
		c.Param("id"),
		userID,
		file,
		fileHeader.Filename,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, att)
}
