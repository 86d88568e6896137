package repository

import (
	"context"

	"github.com/andetex/mes/internal/mes/entity"
	"gorm.io/gorm"
)

type TraceRepository struct {
	db *gorm.DB
}

func NewTraceRepository(db *gorm.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

func (r *TraceRepository) CreateNode(ctx context.Context, node *entity.TraceNode) error {
	return translate(r.db.WithContext(ctx).Create(node).Error)
}

func (r *TraceRepository) FindNodeByID(ctx context.Context, id string) (*entity.TraceNode, error) {
	var node entity.TraceNode
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&node).Error
	if err != nil {
		return nil, translate(err)
	}
	return &node, nil
}

// FindNodeByCode 按code取节点。includeDeleted=true时含软删记录（查重用）
func (r *TraceRepository) FindNodeByCode(ctx context.Context, code string, includeDeleted bool) (*entity.TraceNode, error) {
	query := r.db.WithContext(ctx).Where("code = ?", code)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL").
			Preload("Product").
			Preload("ProductionOrder")
	}
	var node entity.TraceNode
	if err := query.First(&node).Error; err != nil {
		return nil, translate(err)
	}
	return &node, nil
}

// TraceNodeListParams 节点列表过滤参数
type TraceNodeListParams struct {
	Search            string
	Type              string
	ProductID         string
	ProductionOrderID string
	Page              int
	Limit             int
}

func (r *TraceRepository) ListNodes(ctx context.Context, params TraceNodeListParams) ([]entity.TraceNode, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.TraceNode{}).Where("deleted_at IS NULL")
	if params.Search != "" {
		query = query.Where("code ILIKE ?", "%"+params.Search+"%")
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.ProductionOrderID != "" {
		query = query.Where("production_order_id = ?", params.ProductionOrderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var nodes []entity.TraceNode
	err := query.
		Preload("Product").
		Preload("ProductionOrder").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&nodes).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return nodes, total, nil
}

// SoftDeleteNode 节点打墓碑；关联的边不级联处理
func (r *TraceRepository) SoftDeleteNode(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.TraceNode{}).
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

func (r *TraceRepository) CreateLink(ctx context.Context, link *entity.TraceLink) error {
	return translate(r.db.WithContext(ctx).Create(link).Error)
}

// LinksByChild 指向该节点的入边（上游方向），带父节点
func (r *TraceRepository) LinksByChild(ctx context.Context, nodeID string) ([]entity.TraceLink, error) {
	var links []entity.TraceLink
	err := r.db.WithContext(ctx).
		Where("child_node_id = ?", nodeID).
		Preload("ParentNode").
		Find(&links).Error
	if err != nil {
		return nil, translate(err)
	}
	return links, nil
}

// LinksByParent 从该节点出发的出边（下游方向），带子节点
func (r *TraceRepository) LinksByParent(ctx context.Context, nodeID string) ([]entity.TraceLink, error) {
	var links []entity.TraceLink
	err := r.db.WithContext(ctx).
		Where("parent_node_id = ?", nodeID).
		Preload("ChildNode").
		Find(&links).Error
	if err != nil {
		return nil, translate(err)
	}
	return links, nil
}
