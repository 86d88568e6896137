package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义：仓库层把gorm错误翻译成这两个哨兵，上层用errors.Is判断
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// translate gorm错误 -> 仓库哨兵错误
// 唯一索引冲突依赖 gorm.Config{TranslateError: true}
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

// Repositories 仓库集合
type Repositories struct {
	MasterData      *MasterDataRepository
	ProductionOrder *ProductionOrderRepository
	Trace           *TraceRepository
	Inspection      *InspectionRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		MasterData:      NewMasterDataRepository(db),
		ProductionOrder: NewProductionOrderRepository(db),
		Trace:           NewTraceRepository(db),
		Inspection:      NewInspectionRepository(db),
	}
}
