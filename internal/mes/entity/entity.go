package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有MES表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 主数据（只读引用）
		&Product{},
		&Route{},
		&RouteOperation{},
		&WorkCenter{},
		&Machine{},
		&Shift{},

		// 生产订单
		&ProductionOrder{},
		&ProductionOrderOperation{},

		// 追溯谱系
		&TraceNode{},
		&TraceLink{},

		// 质检
		&QualityInspection{},
		&Defect{},
		&InspectionDefect{},
		&InspectionAttachment{},
	)
}
