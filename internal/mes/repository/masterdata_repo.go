package repository

import (
	"context"

	"github.com/andetex/mes/internal/mes/entity"
	"gorm.io/gorm"
)

// MasterDataRepository 主数据只读仓库
// 主数据的增删改由主数据服务负责，MES侧只消费
type MasterDataRepository struct {
	db *gorm.DB
}

func NewMasterDataRepository(db *gorm.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

// FindProduct 按ID取产品
func (r *MasterDataRepository) FindProduct(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindRouteWithOperations 取路线及其工序模板，按sequence升序
func (r *MasterDataRepository) FindRouteWithOperations(ctx context.Context, id string) (*entity.Route, error) {
	var route entity.Route
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Preload("Operations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&route).Error
	if err != nil {
		return nil, translate(err)
	}
	return &route, nil
}
