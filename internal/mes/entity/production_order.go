package entity

import (
	"time"
)

// OrderStatus 生产订单状态
type OrderStatus string

const (
	OrderStatusPlanned    OrderStatus = "PLANNED"
	OrderStatusReleased   OrderStatus = "RELEASED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusPaused     OrderStatus = "PAUSED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// Valid 判断是否为合法状态值
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlanned, OrderStatusReleased, OrderStatusInProgress,
		OrderStatusPaused, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Terminal 终态不再流转
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// OrderPriority 订单优先级
type OrderPriority string

const (
	OrderPriorityLow    OrderPriority = "LOW"
	OrderPriorityNormal OrderPriority = "NORMAL"
	OrderPriorityHigh   OrderPriority = "HIGH"
	OrderPriorityUrgent OrderPriority = "URGENT"
)

func (p OrderPriority) Valid() bool {
	switch p {
	case OrderPriorityLow, OrderPriorityNormal, OrderPriorityHigh, OrderPriorityUrgent:
		return true
	}
	return false
}

// OperationStatus 订单工序状态
type OperationStatus string

const (
	OperationStatusPending    OperationStatus = "PENDING"
	OperationStatusReady      OperationStatus = "READY"
	OperationStatusInProgress OperationStatus = "IN_PROGRESS"
	OperationStatusPaused     OperationStatus = "PAUSED"
	OperationStatusCompleted  OperationStatus = "COMPLETED"
	OperationStatusSkipped    OperationStatus = "SKIPPED"
)

func (s OperationStatus) Valid() bool {
	switch s {
	case OperationStatusPending, OperationStatusReady, OperationStatusInProgress,
		OperationStatusPaused, OperationStatusCompleted, OperationStatusSkipped:
		return true
	}
	return false
}

func (s OperationStatus) Terminal() bool {
	return s == OperationStatusCompleted || s == OperationStatusSkipped
}

// ProductionOrder 生产订单
// code 大写唯一，含软删记录（code 空间永久占用）
type ProductionOrder struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid"`
	Code             string        `json:"code" gorm:"size:50;not null;uniqueIndex"`
	ExternalCode     *string       `json:"external_code" gorm:"size:50"`
	ProductID        string        `json:"product_id" gorm:"type:uuid;not null;index"`
	RouteID          string        `json:"route_id" gorm:"type:uuid;not null;index"`
	QuantityPlanned  float64       `json:"quantity_planned" gorm:"type:decimal(12,4);not null"`
	QuantityProduced float64       `json:"quantity_produced" gorm:"type:decimal(12,4);not null;default:0"`
	UnitOfMeasure    string        `json:"unit_of_measure" gorm:"size:20;not null"`
	Status           OrderStatus   `json:"status" gorm:"size:20;not null;default:PLANNED"`
	Priority         OrderPriority `json:"priority" gorm:"size:20;not null;default:NORMAL"`
	MainWorkCenterID *string       `json:"main_work_center_id" gorm:"type:uuid"`
	ShiftID          *string       `json:"shift_id" gorm:"type:uuid"`
	PlannedStartDate *time.Time    `json:"planned_start_date"`
	PlannedEndDate   *time.Time    `json:"planned_end_date"`
	ActualStartDate  *time.Time    `json:"actual_start_date"`
	ActualEndDate    *time.Time    `json:"actual_end_date"`
	DueDate          *time.Time    `json:"due_date" gorm:"type:date"`
	Notes            string        `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	DeletedAt        *time.Time    `json:"deleted_at" gorm:"index"`

	// 关联
	Product        *Product                   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Route          *Route                     `json:"route,omitempty" gorm:"foreignKey:RouteID"`
	MainWorkCenter *WorkCenter                `json:"main_work_center,omitempty" gorm:"foreignKey:MainWorkCenterID"`
	Shift          *Shift                     `json:"shift,omitempty" gorm:"foreignKey:ShiftID"`
	Operations     []ProductionOrderOperation `json:"operations,omitempty" gorm:"foreignKey:ProductionOrderID"`
}

func (ProductionOrder) TableName() string {
	return "production_orders"
}

// ProductionOrderOperation 生产订单工序（下单时从路线模板复制）
// sequence 原样保留（含空位），订单内唯一
type ProductionOrderOperation struct {
	ID                  string          `json:"id" gorm:"primaryKey;type:uuid"`
	ProductionOrderID   string          `json:"production_order_id" gorm:"type:uuid;not null;index"`
	RouteOperationID    *string         `json:"route_operation_id" gorm:"type:uuid"`
	Sequence            int             `json:"sequence" gorm:"not null"`
	Name                string          `json:"name" gorm:"size:150;not null"`
	WorkCenterID        *string         `json:"work_center_id" gorm:"type:uuid"`
	MachineID           *string         `json:"machine_id" gorm:"type:uuid"`
	StandardTimeMinutes *float64        `json:"standard_time_minutes" gorm:"column:std_time_min;type:decimal(12,4)"`
	Status              OperationStatus `json:"status" gorm:"size:20;not null;default:PENDING"`
	ActualStart         *time.Time      `json:"actual_start"`
	ActualEnd           *time.Time      `json:"actual_end"`
	QuantityGood        *float64        `json:"quantity_good" gorm:"type:decimal(12,4)"`
	QuantityScrap       *float64        `json:"quantity_scrap" gorm:"type:decimal(12,4)"`
	Notes               string          `json:"notes" gorm:"type:text"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (ProductionOrderOperation) TableName() string {
	return "production_order_operations"
}
