package entity

import (
	"time"
)

// InspectionType 质检类型
type InspectionType string

const (
	InspectionRawMaterial  InspectionType = "RAW_MATERIAL"
	InspectionInProcess    InspectionType = "IN_PROCESS"
	InspectionFinishedGood InspectionType = "FINISHED_GOOD"
	InspectionSerialItem   InspectionType = "SERIAL_ITEM"
	InspectionContainer    InspectionType = "CONTAINER"
)

func (t InspectionType) Valid() bool {
	switch t {
	case InspectionRawMaterial, InspectionInProcess, InspectionFinishedGood,
		InspectionSerialItem, InspectionContainer:
		return true
	}
	return false
}

// InspectionStatus 质检结论
type InspectionStatus string

const (
	InspectionStatusPending InspectionStatus = "PENDING"
	InspectionStatusPassed  InspectionStatus = "PASSED"
	InspectionStatusFailed  InspectionStatus = "FAILED"
	InspectionStatusRework  InspectionStatus = "REWORK"
)

func (s InspectionStatus) Valid() bool {
	switch s {
	case InspectionStatusPending, InspectionStatusPassed,
		InspectionStatusFailed, InspectionStatusRework:
		return true
	}
	return false
}

// DefectSeverity 缺陷严重度
type DefectSeverity string

const (
	DefectSeverityMinor    DefectSeverity = "MINOR"
	DefectSeverityMajor    DefectSeverity = "MAJOR"
	DefectSeverityCritical DefectSeverity = "CRITICAL"
)

// QualityInspection 质检单，挂在追溯节点上
type QualityInspection struct {
	ID                string           `json:"id" gorm:"primaryKey;type:uuid"`
	Type              InspectionType   `json:"type" gorm:"size:32;not null"`
	NodeID            string           `json:"node_id" gorm:"type:uuid;not null;index"`
	Status            InspectionStatus `json:"status" gorm:"size:20;not null;default:PENDING"`
	InspectedQuantity *float64         `json:"inspected_quantity" gorm:"type:decimal(12,4)"`
	InspectorID       *string          `json:"inspector_id" gorm:"type:uuid"`
	Notes             string           `json:"notes" gorm:"type:text"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`

	// 关联
	Node        *TraceNode             `json:"node,omitempty" gorm:"foreignKey:NodeID"`
	Defects     []InspectionDefect     `json:"defects,omitempty" gorm:"foreignKey:InspectionID"`
	Attachments []InspectionAttachment `json:"attachments,omitempty" gorm:"foreignKey:InspectionID"`
}

func (QualityInspection) TableName() string {
	return "quality_inspections"
}

// Defect 缺陷目录
type Defect struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid"`
	Code        string         `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name        string         `json:"name" gorm:"size:128;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Severity    DefectSeverity `json:"severity" gorm:"size:20;not null"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (Defect) TableName() string {
	return "defects"
}

// InspectionDefect 质检单上登记的缺陷
type InspectionDefect struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	InspectionID string    `json:"inspection_id" gorm:"type:uuid;not null;index"`
	DefectID     string    `json:"defect_id" gorm:"type:uuid;not null"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`

	// 关联
	Defect *Defect `json:"defect,omitempty" gorm:"foreignKey:DefectID"`
}

func (InspectionDefect) TableName() string {
	return "inspection_defects"
}

// InspectionAttachment 质检附件（照片、报告），文件存MinIO
type InspectionAttachment struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	InspectionID string    `json:"inspection_id" gorm:"type:uuid;not null;index"`
	FileName     string    `json:"file_name" gorm:"size:256;not null"`
	FilePath     string    `json:"file_path" gorm:"size:512;not null"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type" gorm:"size:128"`
	UploadedBy   string    `json:"uploaded_by" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}

func (InspectionAttachment) TableName() string {
	return "inspection_attachments"
}
