package service

import (
	"context"
	"errors"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
)

// ErrInvalid 业务校验错误（非法状态值、数量为负等）
// 未找到/冲突沿用 repository.ErrNotFound / repository.ErrConflict
var ErrInvalid = errors.New("invalid request")

// 持久化端口：业务核心只依赖这些接口，gorm仓库是其实现。
// 查不到记录时返回 repository.ErrNotFound，唯一约束冲突返回 repository.ErrConflict。

// MasterDataSource 主数据读取端口
type MasterDataSource interface {
	FindProduct(ctx context.Context, id string) (*entity.Product, error)
	FindRouteWithOperations(ctx context.Context, id string) (*entity.Route, error)
}

// ProductionOrderStore 生产订单持久化端口
type ProductionOrderStore interface {
	Create(ctx context.Context, po *entity.ProductionOrder) error
	FindByCode(ctx context.Context, code string, includeDeleted bool) (*entity.ProductionOrder, error)
	FindByID(ctx context.Context, id string) (*entity.ProductionOrder, error)
	List(ctx context.Context, params repository.ProductionOrderListParams) ([]entity.ProductionOrder, int64, error)
	Update(ctx context.Context, po *entity.ProductionOrder) error
	FindOperation(ctx context.Context, orderID, operationID string) (*entity.ProductionOrderOperation, error)
	UpdateOperation(ctx context.Context, op *entity.ProductionOrderOperation) error
	SoftDelete(ctx context.Context, id string) error
}

// TraceStore 追溯谱系持久化端口
type TraceStore interface {
	CreateNode(ctx context.Context, node *entity.TraceNode) error
	FindNodeByID(ctx context.Context, id string) (*entity.TraceNode, error)
	FindNodeByCode(ctx context.Context, code string, includeDeleted bool) (*entity.TraceNode, error)
	ListNodes(ctx context.Context, params repository.TraceNodeListParams) ([]entity.TraceNode, int64, error)
	SoftDeleteNode(ctx context.Context, id string) error
	CreateLink(ctx context.Context, link *entity.TraceLink) error
	LinksByChild(ctx context.Context, nodeID string) ([]entity.TraceLink, error)
	LinksByParent(ctx context.Context, nodeID string) ([]entity.TraceLink, error)
}

// InspectionStore 质检持久化端口
type InspectionStore interface {
	Create(ctx context.Context, insp *entity.QualityInspection) error
	FindByID(ctx context.Context, id string) (*entity.QualityInspection, error)
	Update(ctx context.Context, insp *entity.QualityInspection) error
	List(ctx context.Context, params repository.InspectionListParams) ([]entity.QualityInspection, int64, error)
	FindDefect(ctx context.Context, id string) (*entity.Defect, error)
	AddDefect(ctx context.Context, rec *entity.InspectionDefect) error
	AddAttachment(ctx context.Context, att *entity.InspectionAttachment) error
}

// Services 服务集合
type Services struct {
	ProductionOrder *ProductionOrderService
	Traceability    *TraceabilityService
	Quality         *QualityService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, minioClient *minio.Client, bucketName string) *Services {
	return &Services{
		ProductionOrder: NewProductionOrderService(repos.ProductionOrder, repos.MasterData),
		Traceability:    NewTraceabilityService(repos.Trace, repos.MasterData, rdb),
		Quality:         NewQualityService(repos.Inspection, repos.Trace, minioClient, bucketName),
	}
}
