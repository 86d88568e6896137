package entity

import (
	"time"
)

// TraceNodeType 追溯节点类型
type TraceNodeType string

const (
	TraceNodeMaterialLot      TraceNodeType = "MATERIAL_LOT"      // 原料批次（棉花、纱线等）
	TraceNodeSemiFinishedLot  TraceNodeType = "SEMI_FINISHED_LOT" // 半成品批次（坯布、裁片）
	TraceNodeFinishedGood     TraceNodeType = "FINISHED_GOOD"     // 成品批次
	TraceNodeItemSerial       TraceNodeType = "ITEM_SERIAL"       // 单件序列号
	TraceNodeContainer        TraceNodeType = "CONTAINER"         // 容器（箱、托盘）
	TraceNodeProcessExecution TraceNodeType = "PROCESS_EXECUTION" // 工序执行记录
)

func (t TraceNodeType) Valid() bool {
	switch t {
	case TraceNodeMaterialLot, TraceNodeSemiFinishedLot, TraceNodeFinishedGood,
		TraceNodeItemSerial, TraceNodeContainer, TraceNodeProcessExecution:
		return true
	}
	return false
}

// TraceLinkType 追溯边类型
type TraceLinkType string

const (
	TraceLinkTransformation TraceLinkType = "TRANSFORMATION" // 原料->半成品->成品
	TraceLinkConsumption    TraceLinkType = "CONSUMPTION"    // 部分消耗
	TraceLinkSplit          TraceLinkType = "SPLIT"          // 一分为多
	TraceLinkMerge          TraceLinkType = "MERGE"          // 多合为一
	TraceLinkPacking        TraceLinkType = "PACKING"        // 装箱
	TraceLinkMovement       TraceLinkType = "MOVEMENT"       // 容器/库位间移动
)

func (t TraceLinkType) Valid() bool {
	switch t {
	case TraceLinkTransformation, TraceLinkConsumption, TraceLinkSplit,
		TraceLinkMerge, TraceLinkPacking, TraceLinkMovement:
		return true
	}
	return false
}

// TraceNode 谱系图节点：一个物理或逻辑生产单元
type TraceNode struct {
	ID                string        `json:"id" gorm:"primaryKey;type:uuid"`
	Code              string        `json:"code" gorm:"size:80;not null;uniqueIndex"`
	Type              TraceNodeType `json:"type" gorm:"size:32;not null"`
	ProductID         *string       `json:"product_id" gorm:"type:uuid;index"`
	ProductionOrderID *string       `json:"production_order_id" gorm:"type:uuid;index"`
	Quantity          *float64      `json:"quantity" gorm:"type:decimal(12,4)"`
	UnitOfMeasure     *string       `json:"unit_of_measure" gorm:"size:20"`
	Metadata          JSONB         `json:"metadata" gorm:"type:jsonb"`
	ManufacturingDate *time.Time    `json:"manufacturing_date" gorm:"type:date"`
	ExpirationDate    *time.Time    `json:"expiration_date" gorm:"type:date"`
	Notes             string        `json:"notes" gorm:"type:text"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	DeletedAt         *time.Time    `json:"deleted_at" gorm:"index"`

	// 关联
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	ProductionOrder *ProductionOrder `json:"production_order,omitempty" gorm:"foreignKey:ProductionOrderID"`
}

func (TraceNode) TableName() string {
	return "trace_nodes"
}

// TraceLink 谱系图有向边 parent -> child，写入后不可变
type TraceLink struct {
	ID             string        `json:"id" gorm:"primaryKey;type:uuid"`
	ParentNodeID   string        `json:"parent_node_id" gorm:"type:uuid;not null;index"`
	ChildNodeID    string        `json:"child_node_id" gorm:"type:uuid;not null;index"`
	Type           TraceLinkType `json:"type" gorm:"size:32;not null;default:TRANSFORMATION"`
	QuantityUsed   *float64      `json:"quantity_used" gorm:"type:decimal(12,4)"`
	ProcessRefID   *string       `json:"process_ref_id" gorm:"type:uuid"`
	ProcessRefType *string       `json:"process_ref_type" gorm:"size:50"`
	CreatedAt      time.Time     `json:"created_at"`

	// 关联
	ParentNode *TraceNode `json:"parent_node,omitempty" gorm:"foreignKey:ParentNodeID"`
	ChildNode  *TraceNode `json:"child_node,omitempty" gorm:"foreignKey:ChildNodeID"`
}

func (TraceLink) TableName() string {
	return "trace_links"
}
