package repository

import (
	"context"

	"github.com/andetex/mes/internal/mes/entity"
	"gorm.io/gorm"
)

type ProductionOrderRepository struct {
	db *gorm.DB
}

func NewProductionOrderRepository(db *gorm.DB) *ProductionOrderRepository {
	return &ProductionOrderRepository{db: db}
}

// Create 保存订单及其工序，单事务
func (r *ProductionOrderRepository) Create(ctx context.Context, po *entity.ProductionOrder) error {
	return translate(r.db.WithContext(ctx).Create(po).Error)
}

// FindByCode 按code取订单。includeDeleted=true时连软删记录一起查（code查重用）
func (r *ProductionOrderRepository) FindByCode(ctx context.Context, code string, includeDeleted bool) (*entity.ProductionOrder, error) {
	query := r.db.WithContext(ctx).Where("code = ?", code)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	var po entity.ProductionOrder
	if err := query.First(&po).Error; err != nil {
		return nil, translate(err)
	}
	return &po, nil
}

// FindByID 取订单详情，含工序和引用的主数据
func (r *ProductionOrderRepository) FindByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	var po entity.ProductionOrder
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Preload("Operations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Product").
		Preload("Route").
		Preload("MainWorkCenter").
		Preload("Shift").
		First(&po).Error
	if err != nil {
		return nil, translate(err)
	}
	return &po, nil
}

// ProductionOrderListParams 订单列表过滤参数
type ProductionOrderListParams struct {
	ProductID        string
	RouteID          string
	MainWorkCenterID string
	Status           string
	Priority         string
	Search           string
	Page             int
	Limit            int
}

func (r *ProductionOrderRepository) List(ctx context.Context, params ProductionOrderListParams) ([]entity.ProductionOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.ProductionOrder{}).Where("deleted_at IS NULL")
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.RouteID != "" {
		query = query.Where("route_id = ?", params.RouteID)
	}
	if params.MainWorkCenterID != "" {
		query = query.Where("main_work_center_id = ?", params.MainWorkCenterID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Priority != "" {
		query = query.Where("priority = ?", params.Priority)
	}
	if params.Search != "" {
		kw := "%" + params.Search + "%"
		query = query.Where("code ILIKE ? OR external_code ILIKE ?", kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var orders []entity.ProductionOrder
	err := query.
		Preload("Product").
		Preload("Route").
		Preload("MainWorkCenter").
		Preload("Shift").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

func (r *ProductionOrderRepository) Update(ctx context.Context, po *entity.ProductionOrder) error {
	return translate(r.db.WithContext(ctx).Save(po).Error)
}

// FindOperation 取订单下的某道工序
func (r *ProductionOrderRepository) FindOperation(ctx context.Context, orderID, operationID string) (*entity.ProductionOrderOperation, error) {
	var op entity.ProductionOrderOperation
	err := r.db.WithContext(ctx).
		Where("id = ? AND production_order_id = ?", operationID, orderID).
		First(&op).Error
	if err != nil {
		return nil, translate(err)
	}
	return &op, nil
}

func (r *ProductionOrderRepository) UpdateOperation(ctx context.Context, op *entity.ProductionOrderOperation) error {
	return translate(r.db.WithContext(ctx).Save(op).Error)
}

// SoftDelete 打墓碑，不物理删除；code继续占用
func (r *ProductionOrderRepository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.ProductionOrder{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", gorm.Expr("NOW()"))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
