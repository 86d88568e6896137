package entity

import (
	"time"
)

// Product 产品主数据（由主数据服务维护，这里只读）
type Product struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	Code          string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name          string     `json:"name" gorm:"size:128;not null"`
	UnitOfMeasure string     `json:"unit_of_measure" gorm:"size:20;not null"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// Route 工艺路线（工序模板的有序集合）
type Route struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	Code          string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name          string     `json:"name" gorm:"size:128;not null"`
	Version       int        `json:"version" gorm:"not null;default:1"`
	ProductID     string     `json:"product_id" gorm:"type:uuid;not null;index"`
	Description   string     `json:"description" gorm:"type:text"`
	EffectiveFrom *time.Time `json:"effective_from" gorm:"type:date"`
	EffectiveTo   *time.Time `json:"effective_to" gorm:"type:date"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Product    *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Operations []RouteOperation `json:"operations,omitempty" gorm:"foreignKey:RouteID"`
}

func (Route) TableName() string {
	return "routes"
}

// RouteOperation 路线工序模板
// sequence 使用 10/20/30 步进，允许留空位插入
type RouteOperation struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:uuid"`
	RouteID             string    `json:"route_id" gorm:"type:uuid;not null;index"`
	Sequence            int       `json:"sequence" gorm:"not null"`
	Name                string    `json:"name" gorm:"size:150;not null"`
	WorkCenterID        *string   `json:"work_center_id" gorm:"type:uuid"`
	MachineID           *string   `json:"machine_id" gorm:"type:uuid"`
	StandardTimeMinutes *float64  `json:"standard_time_minutes" gorm:"type:decimal(12,4)"`
	OverlapAllowed      bool      `json:"overlap_allowed" gorm:"default:false"`
	Notes               string    `json:"notes" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (RouteOperation) TableName() string {
	return "route_operations"
}

// WorkCenter 工作中心
type WorkCenter struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name      string     `json:"name" gorm:"size:128;not null"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (WorkCenter) TableName() string {
	return "work_centers"
}

// Machine 设备
type Machine struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid"`
	Code         string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	WorkCenterID *string    `json:"work_center_id" gorm:"type:uuid"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (Machine) TableName() string {
	return "machines"
}

// Shift 班次
type Shift struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string     `json:"code" gorm:"size:32;not null;uniqueIndex"`
	Name      string     `json:"name" gorm:"size:64;not null"`
	StartTime string     `json:"start_time" gorm:"size:8"`
	EndTime   string     `json:"end_time" gorm:"size:8"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (Shift) TableName() string {
	return "shifts"
}
