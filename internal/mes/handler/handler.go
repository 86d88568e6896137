package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andetex/mes/internal/mes/repository"
	"github.com/andetex/mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

// Handlers HTTP处理器集合
type Handlers struct {
	ProductionOrder *ProductionOrderHandler
	Traceability    *TraceabilityHandler
	Quality         *QualityHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		ProductionOrder: NewProductionOrderHandler(svc.ProductionOrder),
		Traceability:    NewTraceabilityHandler(svc.Traceability),
		Quality:         NewQualityHandler(svc.Quality),
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": data})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": message})
}

// respondError 服务层错误 -> HTTP状态码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 40400, "message": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"code": 40900, "message": err.Error()})
	case errors.Is(err, service.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

// pagination 解析并夹取分页参数：page≥1 默认1，limit 1..100 默认20
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// pageData 分页响应体
func pageData(items interface{}, total int64, page, limit int) gin.H {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return gin.H{
		"data":          items,
		"total":         total,
		"page":          page,
		"limit":         limit,
		"total_pages":   totalPages,
		"has_next_page": page < totalPages,
		"has_prev_page": page > 1,
	}
}
