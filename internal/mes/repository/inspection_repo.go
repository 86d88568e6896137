package repository

import (
	"context"

	"github.com/andetex/mes/internal/mes/entity"
	"gorm.io/gorm"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func (r *InspectionRepository) Create(ctx context.Context, insp *entity.QualityInspection) error {
	return translate(r.db.WithContext(ctx).Create(insp).Error)
}

func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.QualityInspection, error) {
	var insp entity.QualityInspection
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Node").
		Preload("Defects").
		Preload("Defects.Defect").
		Preload("Attachments").
		First(&insp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &insp, nil
}

func (r *InspectionRepository) Update(ctx context.Context, insp *entity.QualityInspection) error {
	return translate(r.db.WithContext(ctx).Save(insp).Error)
}

// InspectionListParams 质检单列表过滤参数
type InspectionListParams struct {
	Type   string
	Status string
	NodeID string
	Page   int
	Limit  int
}

func (r *InspectionRepository) List(ctx context.Context, params InspectionListParams) ([]entity.QualityInspection, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.QualityInspection{})
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.NodeID != "" {
		query = query.Where("node_id = ?", params.NodeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var items []entity.QualityInspection
	err := query.
		Preload("Node").
		Preload("Defects").
		Preload("Defects.Defect").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

func (r *InspectionRepository) FindDefect(ctx context.Context, id string) (*entity.Defect, error) {
	var d entity.Defect
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *InspectionRepository) AddDefect(ctx context.Context, rec *entity.InspectionDefect) error {
	return translate(r.db.WithContext(ctx).Create(rec).Error)
}

func (r *InspectionRepository) AddAttachment(ctx context.Context, att *entity.InspectionAttachment) error {
	return translate(r.db.WithContext(ctx).Create(att).Error)
}
