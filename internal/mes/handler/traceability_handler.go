package handler

import (
	"net/http"
	"strconv"

	"github.com/andetex/mes/internal/mes/repository"
	"github.com/andetex/mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type TraceabilityHandler struct {
	svc *service.TraceabilityService
}

func NewTraceabilityHandler(svc *service.TraceabilityService) *TraceabilityHandler {
	return &TraceabilityHandler{svc: svc}
}

// CreateNode POST /traceability/nodes
func (h *TraceabilityHandler) CreateNode(c *gin.Context) {
	var req service.CreateTraceNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	node, err := h.svc.CreateNode(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, node)
}

// ListNodes GET /traceability/nodes
func (h *TraceabilityHandler) ListNodes(c *gin.Context) {
	page, limit := pagination(c)
	params := repository.TraceNodeListParams{
		Search:            c.Query("search"),
		Type:              c.Query("type"),
		ProductID:         c.Query("product_id"),
		ProductionOrderID: c.Query("production_order_id"),
		Page:              page,
		Limit:             limit,
	}
	nodes, total, err := h.svc.ListNodes(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, pageData(nodes, total, page, limit))
}

// GetNodeByCode GET /traceability/nodes/code/:code
func (h *TraceabilityHandler) GetNodeByCode(c *gin.Context) {
	node, err := h.svc.FindNodeByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, node)
}

// DeleteNode DELETE /traceability/nodes/:id 软删除
func (h *TraceabilityHandler) DeleteNode(c *gin.Context) {
	if err := h.svc.SoftDeleteNode(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateLink POST /traceability/links
func (h *TraceabilityHandler) CreateLink(c *gin.Context) {
	var req service.LinkNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	link, err := h.svc.Link(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, link)
}

// Upstream GET /traceability/nodes/:id/upstream?depth=N 上游谱系
func (h *TraceabilityHandler) Upstream(c *gin.Context) {
	depth, _ := strconv.Atoi(c.DefaultQuery("depth", "0"))
	result, err := h.svc.Upstream(c.Request.Context(), c.Param("id"), depth)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"root": result.Root, "upstream": result.Edges})
}

// Downstream GET /traceability/nodes/:id/downstream?depth=N 下游谱系
func (h *TraceabilityHandler) Downstream(c *gin.Context) {
	depth, _ := strconv.Atoi(c.DefaultQuery("depth", "0"))
	result, err := h.svc.Downstream(c.Request.Context(), c.Param("id"), depth)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"root": result.Root, "downstream": result.Edges})
}
