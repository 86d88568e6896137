package handler

import (
	"net/http"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/andetex/mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type ProductionOrderHandler struct {
	svc *service.ProductionOrderService
}

func NewProductionOrderHandler(svc *service.ProductionOrderService) *ProductionOrderHandler {
	return &ProductionOrderHandler{svc: svc}
}

// Create POST /production-orders 下单（物化路线模板）
func (h *ProductionOrderHandler) Create(c *gin.Context) {
	var req service.CreateProductionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	po, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, po)
}

// List GET /production-orders
func (h *ProductionOrderHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	params := repository.ProductionOrderListParams{
		ProductID:        c.Query("product_id"),
		RouteID:          c.Query("route_id"),
		MainWorkCenterID: c.Query("main_work_center_id"),
		Status:           c.Query("status"),
		Priority:         c.Query("priority"),
		Search:           c.Query("search"),
		Page:             page,
		Limit:            limit,
	}
	orders, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, pageData(orders, total, page, limit))
}

// Get GET /production-orders/:id
func (h *ProductionOrderHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, po)
}

// Update PATCH /production-orders/:id
func (h *ProductionOrderHandler) Update(c *gin.Context) {
	var req service.UpdateProductionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	po, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, po)
}

// UpdateStatus PATCH /production-orders/:id/status
func (h *ProductionOrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	po, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), entity.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, po)
}

// UpdateQuantity PATCH /production-orders/:id/quantity
func (h *ProductionOrderHandler) UpdateQuantity(c *gin.Context) {
	var req struct {
		QuantityProduced *float64 `json:"quantity_produced" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	po, err := h.svc.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.QuantityProduced)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, po)
}

// UpdateOperation PATCH /production-orders/:id/operations/:opId
func (h *ProductionOrderHandler) UpdateOperation(c *gin.Context) {
	var req service.UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	op, err := h.svc.UpdateOperation(c.Request.Context(), c.Param("id"), c.Param("opId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, op)
}

// Delete DELETE /production-orders/:id 软删除
func (h *ProductionOrderHandler) Delete(c *gin.Context) {
	if err := h.svc.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export GET /production-orders/export 导出xlsx，过滤参数与列表接口一致
func (h *ProductionOrderHandler) Export(c *gin.Context) {
	params := repository.ProductionOrderListParams{
		ProductID:        c.Query("product_id"),
		RouteID:          c.Query("route_id"),
		MainWorkCenterID: c.Query("main_work_center_id"),
		Status:           c.Query("status"),
		Priority:         c.Query("priority"),
		Search:           c.Query("search"),
	}
	f, filename, err := h.svc.Export(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "write excel: " + err.Error()})
	}
}
