package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// QualityService 质检服务：质检单、缺陷登记、附件上传
type QualityService struct {
	inspections InspectionStore
	trace       TraceStore
	minioClient *minio.Client
	bucketName  string
}

func NewQualityService(inspections InspectionStore, trace TraceStore, minioClient *minio.Client, bucketName string) *QualityService {
	return &QualityService{
		inspections: inspections,
		trace:       trace,
		minioClient: minioClient,
		bucketName:  bucketName,
	}
}

// CreateInspectionRequest 开质检单请求
type CreateInspectionRequest struct {
	Type              string   `json:"type" binding:"required"`
	NodeID            string   `json:"node_id" binding:"required"`
	InspectedQuantity *float64 `json:"inspected_quantity"`
	InspectorID       *string  `json:"inspector_id"`
	Notes             string   `json:"notes"`
}

// CreateInspection 对某个追溯节点开质检单
func (s *QualityService) CreateInspection(ctx context.Context, req CreateInspectionRequest) (*entity.QualityInspection, error) {
	inspType := entity.InspectionType(req.Type)
	if !inspType.Valid() {
		return nil, fmt.Errorf("非法质检类型 %s: %w", req.Type, ErrInvalid)
	}

	node, err := s.trace.FindNodeByID(ctx, req.NodeID)
	if err != nil {
		return nil, fmt.Errorf("节点 %s: %w", req.NodeID, err)
	}

	insp := &entity.QualityInspection{
		ID:                uuid.New().String(),
		Type:              inspType,
		NodeID:            node.ID,
		Status:            entity.InspectionStatusPending,
		InspectedQuantity: req.InspectedQuantity,
		InspectorID:       req.InspectorID,
		Notes:             req.Notes,
	}

	if err := s.inspections.Create(ctx, insp); err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}
	return insp, nil
}

// AddDefectRequest 登记缺陷请求
type AddDefectRequest struct {
	DefectID string  `json:"defect_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Notes    string  `json:"notes"`
}

// AddDefect 在质检单上登记缺陷。出现CRITICAL缺陷时质检单自动判FAILED。
func (s *QualityService) AddDefect(ctx context.Context, inspectionID string, req AddDefectRequest) (*entity.InspectionDefect, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("缺陷数量必须大于0: %w", ErrInvalid)
	}

	insp, err := s.inspections.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("质检单 %s: %w", inspectionID, err)
	}
	defect, err := s.inspections.FindDefect(ctx, req.DefectID)
	if err != nil {
		return nil, fmt.Errorf("缺陷 %s: %w", req.DefectID, err)
	}

	rec := &entity.InspectionDefect{
		ID:           uuid.New().String(),
		InspectionID: insp.ID,
		DefectID:     defect.ID,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}
	if err := s.inspections.AddDefect(ctx, rec); err != nil {
		return nil, fmt.Errorf("add defect: %w", err)
	}

	if defect.Severity == entity.DefectSeverityCritical {
		insp.Status = entity.InspectionStatusFailed
		if err := s.inspections.Update(ctx, insp); err != nil {
			return nil, fmt.Errorf("fail inspection: %w", err)
		}
	}
	return rec, nil
}

// UpdateStatus 更新质检结论
func (s *QualityService) UpdateStatus(ctx context.Context, id string, status entity.InspectionStatus) (*entity.QualityInspection, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("非法质检状态 %s: %w", status, ErrInvalid)
	}
	insp, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("质检单 %s: %w", id, err)
	}
	insp.Status = status
	if err := s.inspections.Update(ctx, insp); err != nil {
		return nil, fmt.Errorf("update inspection status: %w", err)
	}
	return insp, nil
}

func (s *QualityService) Get(ctx context.Context, id string) (*entity.QualityInspection, error) {
	insp, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("质检单 %s: %w", id, err)
	}
	return insp, nil
}

func (s *QualityService) List(ctx context.Context, params repository.InspectionListParams) ([]entity.QualityInspection, int64, error) {
	items, total, err := s.inspections.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list inspections: %w", err)
	}
	return items, total, nil
}

// UploadAttachment 上传质检附件（照片、报告）到MinIO并登记
func (s *QualityService) UploadAttachment(ctx context.Context, inspectionID, userID string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.InspectionAttachment, error) {
	insp, err := s.inspections.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("质检单 %s: %w", inspectionID, err)
	}

	objectName := fmt.Sprintf("inspections/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	if s.minioClient != nil {
		_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
	}

	att := &entity.InspectionAttachment{
		ID:           uuid.New().String(),
		InspectionID: insp.ID,
		FileName:     fileName,
		FilePath:     objectName,
		FileSize:     fileSize,
		MimeType:     contentType,
		UploadedBy:   userID,
	}
	if err := s.inspections.AddAttachment(ctx, att); err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return att, nil
}
