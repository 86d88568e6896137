package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ProductionOrderService 生产订单服务
// 负责从路线模板下单（物化为订单+工序）以及后续的状态/数量更新
type ProductionOrderService struct {
	orders ProductionOrderStore
	master MasterDataSource
}

func NewProductionOrderService(orders ProductionOrderStore, master MasterDataSource) *ProductionOrderService {
	return &ProductionOrderService{orders: orders, master: master}
}

// CreateProductionOrderRequest 下单请求
type CreateProductionOrderRequest struct {
	Code             string     `json:"code" binding:"required"`
	ExternalCode     *string    `json:"external_code"`
	ProductID        string     `json:"product_id" binding:"required"`
	RouteID          string     `json:"route_id" binding:"required"`
	QuantityPlanned  float64    `json:"quantity_planned" binding:"required,gt=0"`
	Priority         string     `json:"priority"`
	MainWorkCenterID *string    `json:"main_work_center_id"`
	ShiftID          *string    `json:"shift_id"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	DueDate          *time.Time `json:"due_date"`
	Notes            string     `json:"notes"`
}

// UpdateProductionOrderRequest 订单头更新请求，nil字段不动
type UpdateProductionOrderRequest struct {
	Code             *string    `json:"code"`
	ExternalCode     *string    `json:"external_code"`
	QuantityPlanned  *float64   `json:"quantity_planned"`
	Priority         *string    `json:"priority"`
	MainWorkCenterID *string    `json:"main_work_center_id"`
	ShiftID          *string    `json:"shift_id"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	DueDate          *time.Time `json:"due_date"`
	Notes            *string    `json:"notes"`
}

// Create 把路线模板物化成一张生产订单：
// 订单头 + 按sequence升序复制的工序实例，一次性落库。
// code查重包含软删记录，订单code空间永久占用。
func (s *ProductionOrderService) Create(ctx context.Context, req CreateProductionOrderRequest) (*entity.ProductionOrder, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("订单编号不能为空: %w", ErrInvalid)
	}
	if req.QuantityPlanned <= 0 {
		return nil, fmt.Errorf("计划数量必须大于0: %w", ErrInvalid)
	}

	priority := entity.OrderPriorityNormal
	if req.Priority != "" {
		priority = entity.OrderPriority(req.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("非法优先级 %s: %w", req.Priority, ErrInvalid)
		}
	}

	if _, err := s.orders.FindByCode(ctx, code, true); err == nil {
		return nil, fmt.Errorf("订单编号 %s 已被占用: %w", code, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check order code: %w", err)
	}

	product, err := s.master.FindProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("产品 %s: %w", req.ProductID, err)
	}
	route, err := s.master.FindRouteWithOperations(ctx, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("路线 %s: %w", req.RouteID, err)
	}

	po := &entity.ProductionOrder{
		ID:               uuid.New().String(),
		Code:             code,
		ExternalCode:     req.ExternalCode,
		ProductID:        product.ID,
		RouteID:          route.ID,
		QuantityPlanned:  req.QuantityPlanned,
		QuantityProduced: 0,
		UnitOfMeasure:    product.UnitOfMeasure,
		Status:           entity.OrderStatusPlanned,
		Priority:         priority,
		MainWorkCenterID: req.MainWorkCenterID,
		ShiftID:          req.ShiftID,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		DueDate:          req.DueDate,
		Notes:            req.Notes,
	}

	// 从模板复制工序：sequence原样保留（含空位），初始状态PENDING
	for _, tmpl := range route.Operations {
		ropID := tmpl.ID
		po.Operations = append(po.Operations, entity.ProductionOrderOperation{
			ID:                  uuid.New().String(),
			ProductionOrderID:   po.ID,
			RouteOperationID:    &ropID,
			Sequence:            tmpl.Sequence,
			Name:                tmpl.Name,
			WorkCenterID:        tmpl.WorkCenterID,
			MachineID:           tmpl.MachineID,
			StandardTimeMinutes: tmpl.StandardTimeMinutes,
			Status:              entity.OperationStatusPending,
		})
	}

	if err := s.orders.Create(ctx, po); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("订单编号 %s 已被占用: %w", code, err)
		}
		return nil, fmt.Errorf("create production order: %w", err)
	}
	return po, nil
}

func (s *ProductionOrderService) Get(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("订单 %s: %w", id, err)
	}
	return po, nil
}

func (s *ProductionOrderService) List(ctx context.Context, params repository.ProductionOrderListParams) ([]entity.ProductionOrder, int64, error) {
	orders, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list production orders: %w", err)
	}
	return orders, total, nil
}

// Update 更新订单头字段；改code时重新查重
func (s *ProductionOrderService) Update(ctx context.Context, id string, req UpdateProductionOrderRequest) (*entity.ProductionOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("订单 %s: %w", id, err)
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != po.Code {
			if _, err := s.orders.FindByCode(ctx, code, true); err == nil {
				return nil, fmt.Errorf("订单编号 %s 已被占用: %w", code, repository.ErrConflict)
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("check order code: %w", err)
			}
			po.Code = code
		}
	}
	if req.ExternalCode != nil {
		po.ExternalCode = req.ExternalCode
	}
	if req.QuantityPlanned != nil {
		if *req.QuantityPlanned <= 0 {
			return nil, fmt.Errorf("计划数量必须大于0: %w", ErrInvalid)
		}
		po.QuantityPlanned = *req.QuantityPlanned
	}
	if req.Priority != nil {
		priority := entity.OrderPriority(*req.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("非法优先级 %s: %w", *req.Priority, ErrInvalid)
		}
		po.Priority = priority
	}
	if req.MainWorkCenterID != nil {
		po.MainWorkCenterID = req.MainWorkCenterID
	}
	if req.ShiftID != nil {
		po.ShiftID = req.ShiftID
	}
	if req.PlannedStartDate != nil {
		po.PlannedStartDate = req.PlannedStartDate
	}
	if req.PlannedEndDate != nil {
		po.PlannedEndDate = req.PlannedEndDate
	}
	if req.DueDate != nil {
		po.DueDate = req.DueDate
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}

	if err := s.orders.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("update production order: %w", err)
	}
	return po, nil
}

// UpdateStatus 记录订单状态流转。
// 只校验状态值合法，不限制跳转路径（跳转规则由上游编排服务把关）。
// 首次进入IN_PROGRESS盖实际开工时间，进入COMPLETED盖实际完工时间。
func (s *ProductionOrderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.ProductionOrder, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("非法订单状态 %s: %w", status, ErrInvalid)
	}

	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("订单 %s: %w", id, err)
	}

	po.Status = status
	now := time.Now()
	if status == entity.OrderStatusInProgress && po.ActualStartDate == nil {
		po.ActualStartDate = &now
	}
	if status == entity.OrderStatusCompleted {
		po.ActualEndDate = &now
	}

	if err := s.orders.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return po, nil
}

// UpdateQuantity 回报累计产出数量，只增不减
func (s *ProductionOrderService) UpdateQuantity(ctx context.Context, id string, quantityProduced float64) (*entity.ProductionOrder, error) {
	if quantityProduced < 0 {
		return nil, fmt.Errorf("产出数量不能为负: %w", ErrInvalid)
	}

	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("订单 %s: %w", id, err)
	}
	if quantityProduced < po.QuantityProduced {
		return nil, fmt.Errorf("产出数量不能回退 (当前 %.4f, 提交 %.4f): %w",
			po.QuantityProduced, quantityProduced, ErrInvalid)
	}

	po.QuantityProduced = quantityProduced
	if err := s.orders.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("update order quantity: %w", err)
	}
	return po, nil
}

// UpdateOperationRequest 工序回报请求，nil字段不动
type UpdateOperationRequest struct {
	Status        *string  `json:"status"`
	QuantityGood  *float64 `json:"quantity_good"`
	QuantityScrap *float64 `json:"quantity_scrap"`
	Notes         *string  `json:"notes"`
}

// UpdateOperation 工序状态/数量回报。
// 状态同样只做枚举校验；工序状态变化不级联到订单状态。
func (s *ProductionOrderService) UpdateOperation(ctx context.Context, orderID, operationID string, req UpdateOperationRequest) (*entity.ProductionOrderOperation, error) {
	op, err := s.orders.FindOperation(ctx, orderID, operationID)
	if err != nil {
		return nil, fmt.Errorf("工序 %s: %w", operationID, err)
	}

	if req.Status != nil {
		status := entity.OperationStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("非法工序状态 %s: %w", *req.Status, ErrInvalid)
		}
		op.Status = status
		now := time.Now()
		if status == entity.OperationStatusInProgress && op.ActualStart == nil {
			op.ActualStart = &now
		}
		if status == entity.OperationStatusCompleted {
			op.ActualEnd = &now
		}
	}
	if req.QuantityGood != nil {
		if *req.QuantityGood < 0 {
			return nil, fmt.Errorf("良品数量不能为负: %w", ErrInvalid)
		}
		op.QuantityGood = req.QuantityGood
	}
	if req.QuantityScrap != nil {
		if *req.QuantityScrap < 0 {
			return nil, fmt.Errorf("废品数量不能为负: %w", ErrInvalid)
		}
		op.QuantityScrap = req.QuantityScrap
	}
	if req.Notes != nil {
		op.Notes = *req.Notes
	}

	if err := s.orders.UpdateOperation(ctx, op); err != nil {
		return nil, fmt.Errorf("update operation: %w", err)
	}
	return op, nil
}

// SoftDelete 订单打墓碑
func (s *ProductionOrderService) SoftDelete(ctx context.Context, id string) error {
	if err := s.orders.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("订单 %s: %w", id, err)
	}
	return nil
}

// ==================== Excel 导出 ====================

var orderExportHeaders = []string{
	"订单编号", "外部编号", "产品", "计划数量", "已产出", "单位",
	"状态", "优先级", "计划开工", "计划完工", "实际开工", "实际完工", "备注",
}

// 单次导出的行数上限
const exportRowLimit = 5000

// Export 按列表过滤条件导出订单清单为xlsx
func (s *ProductionOrderService) Export(ctx context.Context, params repository.ProductionOrderListParams) (*excelize.File, string, error) {
	params.Page = 1
	params.Limit = exportRowLimit

	orders, _, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, "", fmt.Errorf("list production orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "生产订单"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range orderExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx := range orders {
		po := &orders[rowIdx]
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), po.Code)
		if po.ExternalCode != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), *po.ExternalCode)
		}
		productName := po.ProductID
		if po.Product != nil {
			productName = po.Product.Name
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), productName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), po.QuantityPlanned)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), po.QuantityProduced)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), po.UnitOfMeasure)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), string(po.Status))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), string(po.Priority))
		dates := []*time.Time{po.PlannedStartDate, po.PlannedEndDate, po.ActualStartDate, po.ActualEndDate}
		for i, d := range dates {
			if d != nil {
				col, _ := excelize.ColumnNumberToName(9 + i)
				f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), d.Format("2006-01-02 15:04"))
			}
		}
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), po.Notes)
	}

	colWidths := []float64{16, 14, 20, 10, 10, 6, 12, 10, 16, 16, 16, 16, 24}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("ProductionOrders_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}
