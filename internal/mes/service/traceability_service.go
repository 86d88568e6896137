package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTraversalDepth 未指定depth时的默认遍历深度
	DefaultTraversalDepth = 3
	// MaxTraversalDepth depth上限，防止大扇出图把查询打爆
	MaxTraversalDepth = 32

	graphVersionKey = "trace:graph:ver"
	lineageCacheTTL = 5 * time.Minute
)

// TraceabilityService 追溯谱系服务：节点/边的登记与上下游遍历
type TraceabilityService struct {
	store  TraceStore
	master MasterDataSource
	rdb    *redis.Client // 可为nil，遍历缓存尽力而为
}

func NewTraceabilityService(store TraceStore, master MasterDataSource, rdb *redis.Client) *TraceabilityService {
	return &TraceabilityService{store: store, master: master, rdb: rdb}
}

// CreateTraceNodeRequest 登记节点请求
type CreateTraceNodeRequest struct {
	Code              string       `json:"code" binding:"required"`
	Type              string       `json:"type" binding:"required"`
	ProductID         *string      `json:"product_id"`
	ProductionOrderID *string      `json:"production_order_id"`
	Quantity          *float64     `json:"quantity"`
	UnitOfMeasure     *string      `json:"unit_of_measure"`
	Metadata          entity.JSONB `json:"metadata"`
	ManufacturingDate *time.Time   `json:"manufacturing_date"`
	ExpirationDate    *time.Time   `json:"expiration_date"`
	Notes             string       `json:"notes"`
}

// CreateNode 登记追溯节点。code大写唯一（含软删记录）。
// 未给单位时从关联产品带出。
func (s *TraceabilityService) CreateNode(ctx context.Context, req CreateTraceNodeRequest) (*entity.TraceNode, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("节点编码不能为空: %w", ErrInvalid)
	}
	nodeType := entity.TraceNodeType(req.Type)
	if !nodeType.Valid() {
		return nil, fmt.Errorf("非法节点类型 %s: %w", req.Type, ErrInvalid)
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, fmt.Errorf("节点数量不能为负: %w", ErrInvalid)
	}

	if _, err := s.store.FindNodeByCode(ctx, code, true); err == nil {
		return nil, fmt.Errorf("节点编码 %s 已被占用: %w", code, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check node code: %w", err)
	}

	uom := req.UnitOfMeasure
	if req.ProductID != nil {
		product, err := s.master.FindProduct(ctx, *req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("产品 %s: %w", *req.ProductID, err)
		}
		if uom == nil {
			uom = &product.UnitOfMeasure
		}
	}

	node := &entity.TraceNode{
		ID:                uuid.New().String(),
		Code:              code,
		Type:              nodeType,
		ProductID:         req.ProductID,
		ProductionOrderID: req.ProductionOrderID,
		Quantity:          req.Quantity,
		UnitOfMeasure:     uom,
		Metadata:          req.Metadata,
		ManufacturingDate: req.ManufacturingDate,
		ExpirationDate:    req.ExpirationDate,
		Notes:             req.Notes,
	}

	if err := s.store.CreateNode(ctx, node); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("节点编码 %s 已被占用: %w", code, err)
		}
		return nil, fmt.Errorf("create trace node: %w", err)
	}
	return node, nil
}

func (s *TraceabilityService) ListNodes(ctx context.Context, params repository.TraceNodeListParams) ([]entity.TraceNode, int64, error) {
	nodes, total, err := s.store.ListNodes(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list trace nodes: %w", err)
	}
	return nodes, total, nil
}

func (s *TraceabilityService) FindNodeByCode(ctx context.Context, code string) (*entity.TraceNode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	node, err := s.store.FindNodeByCode(ctx, code, false)
	if err != nil {
		return nil, fmt.Errorf("节点 %s: %w", code, err)
	}
	return node, nil
}

// SoftDeleteNode 节点打墓碑，边保持原样
func (s *TraceabilityService) SoftDeleteNode(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteNode(ctx, id); err != nil {
		return fmt.Errorf("节点 %s: %w", id, err)
	}
	return nil
}

// LinkNodesRequest 建边请求
type LinkNodesRequest struct {
	ParentNodeID   string   `json:"parent_node_id" binding:"required"`
	ChildNodeID    string   `json:"child_node_id" binding:"required"`
	Type           string   `json:"type"`
	QuantityUsed   *float64 `json:"quantity_used"`
	ProcessRefID   *string  `json:"process_ref_id"`
	ProcessRefType *string  `json:"process_ref_type"`
}

// Link 在两个已有节点之间建有向边 parent -> child。
// 不做环检测（沿用既有行为），遍历侧必须能扛环。
func (s *TraceabilityService) Link(ctx context.Context, req LinkNodesRequest) (*entity.TraceLink, error) {
	linkType := entity.TraceLinkTransformation
	if req.Type != "" {
		linkType = entity.TraceLinkType(req.Type)
		if !linkType.Valid() {
			return nil, fmt.Errorf("非法边类型 %s: %w", req.Type, ErrInvalid)
		}
	}
	if req.QuantityUsed != nil && *req.QuantityUsed < 0 {
		return nil, fmt.Errorf("消耗数量不能为负: %w", ErrInvalid)
	}

	parent, err := s.store.FindNodeByID(ctx, req.ParentNodeID)
	if err != nil {
		return nil, fmt.Errorf("父节点 %s: %w", req.ParentNodeID, err)
	}
	child, err := s.store.FindNodeByID(ctx, req.ChildNodeID)
	if err != nil {
		return nil, fmt.Errorf("子节点 %s: %w", req.ChildNodeID, err)
	}

	link := &entity.TraceLink{
		ID:             uuid.New().String(),
		ParentNodeID:   parent.ID,
		ChildNodeID:    child.ID,
		Type:           linkType,
		QuantityUsed:   req.QuantityUsed,
		ProcessRefID:   req.ProcessRefID,
		ProcessRefType: req.ProcessRefType,
	}

	if err := s.store.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create trace link: %w", err)
	}
	s.bumpGraphVersion(ctx)
	return link, nil
}

// TraceEdge 遍历结果中的一条边记录
type TraceEdge struct {
	Level        int                  `json:"level"`
	Relation     entity.TraceLinkType `json:"relation"`
	QuantityUsed *float64             `json:"quantity_used"`
	Node         *entity.TraceNode    `json:"node"`
}

// GenealogyResult 谱系查询结果
type GenealogyResult struct {
	Root  *entity.TraceNode `json:"root"`
	Edges []TraceEdge       `json:"edges"`
}

// Upstream 向上游追：哪些节点喂给了它
func (s *TraceabilityService) Upstream(ctx context.Context, nodeID string, depth int) (*GenealogyResult, error) {
	return s.lineage(ctx, nodeID, depth, false)
}

// Downstream 向下游追：它又喂给了哪些节点
func (s *TraceabilityService) Downstream(ctx context.Context, nodeID string, depth int) (*GenealogyResult, error) {
	return s.lineage(ctx, nodeID, depth, true)
}

func (s *TraceabilityService) lineage(ctx context.Context, nodeID string, depth int, downstream bool) (*GenealogyResult, error) {
	if depth <= 0 {
		depth = DefaultTraversalDepth
	}
	if depth > MaxTraversalDepth {
		depth = MaxTraversalDepth
	}

	root, err := s.store.FindNodeByID(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("节点 %s: %w", nodeID, err)
	}

	if cached, ok := s.cacheGet(ctx, nodeID, depth, downstream); ok {
		return cached, nil
	}

	edges, err := s.walk(ctx, root.ID, depth, downstream)
	if err != nil {
		return nil, err
	}

	result := &GenealogyResult{Root: root, Edges: edges}
	s.cachePut(ctx, nodeID, depth, downstream, result)
	return result, nil
}

type frontierEntry struct {
	nodeID string
	level  int
}

// walk 广度优先遍历，显式队列+本次调用私有的visited集合。
// 图允许有环（建边不做环检测）：节点只展开一次，重复可达的节点
// 按首次发现的层级上报，BFS保证该层级是最短路径层级。
// 每个展开的节点把自己的全部关联边都上报一条记录，level ≤ depth。
func (s *TraceabilityService) walk(ctx context.Context, rootID string, depth int, downstream bool) ([]TraceEdge, error) {
	visited := map[string]bool{rootID: true}
	queue := []frontierEntry{{nodeID: rootID, level: 1}}
	edges := make([]TraceEdge, 0)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.level > depth {
			continue
		}

		var links []entity.TraceLink
		var err error
		if downstream {
			links, err = s.store.LinksByParent(ctx, cur.nodeID)
		} else {
			links, err = s.store.LinksByChild(ctx, cur.nodeID)
		}
		if err != nil {
			return nil, fmt.Errorf("load links of %s: %w", cur.nodeID, err)
		}

		for i := range links {
			link := &links[i]
			var neighborID string
			var neighbor *entity.TraceNode
			if downstream {
				neighborID = link.ChildNodeID
				neighbor = link.ChildNode
			} else {
				neighborID = link.ParentNodeID
				neighbor = link.ParentNode
			}

			edges = append(edges, TraceEdge{
				Level:        cur.level,
				Relation:     link.Type,
				QuantityUsed: link.QuantityUsed,
				Node:         neighbor,
			})

			if !visited[neighborID] {
				visited[neighborID] = true
				queue = append(queue, frontierEntry{nodeID: neighborID, level: cur.level + 1})
			}
		}
	}
	return edges, nil
}

// 遍历缓存：key带图版本号，建边后版本号递增，旧结果自然失效。
// redis不可用时静默走库，缓存只是读加速。

func (s *TraceabilityService) cacheKey(ctx context.Context, nodeID string, depth int, downstream bool) string {
	ver, err := s.rdb.Get(ctx, graphVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return ""
	}
	dir := "up"
	if downstream {
		dir = "down"
	}
	return fmt.Sprintf("trace:lineage:%d:%s:%s:%d", ver, dir, nodeID, depth)
}

func (s *TraceabilityService) cacheGet(ctx context.Context, nodeID string, depth int, downstream bool) (*GenealogyResult, bool) {
	if s.rdb == nil {
		return nil, false
	}
	key := s.cacheKey(ctx, nodeID, depth, downstream)
	if key == "" {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var result GenealogyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *TraceabilityService) cachePut(ctx context.Context, nodeID string, depth int, downstream bool, result *GenealogyResult) {
	if s.rdb == nil {
		return
	}
	key := s.cacheKey(ctx, nodeID, depth, downstream)
	if key == "" {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	s.rdb.Set(ctx, key, raw, lineageCacheTTL)
}

func (s *TraceabilityService) bumpGraphVersion(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	s.rdb.Incr(ctx, graphVersionKey)
}
