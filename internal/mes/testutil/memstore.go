package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
)

// 内存版持久化端口实现，测试不依赖Postgres

type MemMasterData struct {
	Products map[string]*entity.Product
	Routes   map[string]*entity.Route
}

func NewMemMasterData() *MemMasterData {
	return &MemMasterData{
		Products: make(map[string]*entity.Product),
		Routes:   make(map[string]*entity.Route),
	}
}

func (m *MemMasterData) FindProduct(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.Products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *MemMasterData) FindRouteWithOperations(_ context.Context, id string) (*entity.Route, error) {
	r, ok := m.Routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

type MemOrderStore struct {
	Orders map[string]*entity.ProductionOrder
}

func NewMemOrderStore() *MemOrderStore {
	return &MemOrderStore{Orders: make(map[string]*entity.ProductionOrder)}
}

func (m *MemOrderStore) Create(_ context.Context, po *entity.ProductionOrder) error {
	for _, existing := range m.Orders {
		if existing.Code == po.Code {
			return repository.ErrConflict
		}
	}
	m.Orders[po.ID] = po
	return nil
}

func (m *MemOrderStore) FindByCode(_ context.Context, code string, includeDeleted bool) (*entity.ProductionOrder, error) {
	for _, po := range m.Orders {
		if po.Code != code {
			continue
		}
		if po.DeletedAt != nil && !includeDeleted {
			continue
		}
		return po, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemOrderStore) FindByID(_ context.Context, id string) (*entity.ProductionOrder, error) {
	po, ok := m.Orders[id]
	if !ok || po.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	return po, nil
}

func (m *MemOrderStore) List(_ context.Context, params repository.ProductionOrderListParams) ([]entity.ProductionOrder, int64, error) {
	var out []entity.ProductionOrder
	for _, po := range m.Orders {
		if po.DeletedAt != nil {
			continue
		}
		if params.Status != "" && string(po.Status) != params.Status {
			continue
		}
		if params.Search != "" && !strings.Contains(po.Code, params.Search) {
			continue
		}
		out = append(out, *po)
	}
	return out, int64(len(out)), nil
}

func (m *MemOrderStore) Update(_ context.Context, po *entity.ProductionOrder) error {
	if _, ok := m.Orders[po.ID]; !ok {
		return repository.ErrNotFound
	}
	m.Orders[po.ID] = po
	return nil
}

func (m *MemOrderStore) FindOperation(_ context.Context, orderID, operationID string) (*entity.ProductionOrderOperation, error) {
	po, ok := m.Orders[orderID]
	if !ok || po.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	for i := range po.Operations {
		if po.Operations[i].ID == operationID {
			return &po.Operations[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemOrderStore) UpdateOperation(_ context.Context, op *entity.ProductionOrderOperation) error {
	po, ok := m.Orders[op.ProductionOrderID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range po.Operations {
		if po.Operations[i].ID == op.ID {
			po.Operations[i] = *op
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MemOrderStore) SoftDelete(_ context.Context, id string) error {
	po, ok := m.Orders[id]
	if !ok || po.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	po.DeletedAt = &now
	return nil
}

type MemTraceStore struct {
	Nodes map[string]*entity.TraceNode
	Links []*entity.TraceLink
}

func NewMemTraceStore() *MemTraceStore {
	return &MemTraceStore{Nodes: make(map[string]*entity.TraceNode)}
}

func (m *MemTraceStore) CreateNode(_ context.Context, node *entity.TraceNode) error {
	for _, existing := range m.Nodes {
		if existing.Code == node.Code {
			return repository.ErrConflict
		}
	}
	m.Nodes[node.ID] = node
	return nil
}

func (m *MemTraceStore) FindNodeByID(_ context.Context, id string) (*entity.TraceNode, error) {
	n, ok := m.Nodes[id]
	if !ok || n.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	return n, nil
}

func (m *MemTraceStore) FindNodeByCode(_ context.Context, code string, includeDeleted bool) (*entity.TraceNode, error) {
	for _, n := range m.Nodes {
		if n.Code != code {
			continue
		}
		if n.DeletedAt != nil && !includeDeleted {
			continue
		}
		return n, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemTraceStore) ListNodes(_ context.Context, params repository.TraceNodeListParams) ([]entity.TraceNode, int64, error) {
	var out []entity.TraceNode
	for _, n := range m.Nodes {
		if n.DeletedAt != nil {
			continue
		}
		if params.Type != "" && string(n.Type) != params.Type {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (m *MemTraceStore) SoftDeleteNode(_ context.Context, id string) error {
	n, ok := m.Nodes[id]
	if !ok || n.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	n.DeletedAt = &now
	return nil
}

func (m *MemTraceStore) CreateLink(_ context.Context, link *entity.TraceLink) error {
	m.Links = append(m.Links, link)
	return nil
}

func (m *MemTraceStore) LinksByChild(_ context.Context, nodeID string) ([]entity.TraceLink, error) {
	var out []entity.TraceLink
	for _, l := range m.Links {
		if l.ChildNodeID != nodeID {
			continue
		}
		cp := *l
		cp.ParentNode = m.Nodes[l.ParentNodeID]
		out = append(out, cp)
	}
	return out, nil
}

func (m *MemTraceStore) LinksByParent(_ context.Context, nodeID string) ([]entity.TraceLink, error) {
	var out []entity.TraceLink
	for _, l := range m.Links {
		if l.ParentNodeID != nodeID {
			continue
		}
		cp := *l
		cp.ChildNode = m.Nodes[l.ChildNodeID]
		out = append(out, cp)
	}
	return out, nil
}

type MemInspectionStore struct {
	Inspections map[string]*entity.QualityInspection
	Defects     map[string]*entity.Defect
	Records     []*entity.InspectionDefect
	Attachments []*entity.InspectionAttachment
}

func NewMemInspectionStore() *MemInspectionStore {
	return &MemInspectionStore{
		Inspections: make(map[string]*entity.QualityInspection),
		Defects:     make(map[string]*entity.Defect),
	}
}

func (m *MemInspectionStore) Create(_ context.Context, insp *entity.QualityInspection) error {
	m.Inspections[insp.ID] = insp
	return nil
}

func (m *MemInspectionStore) FindByID(_ context.Context, id string) (*entity.QualityInspection, error) {
	insp, ok := m.Inspections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return insp, nil
}

func (m *MemInspectionStore) Update(_ context.Context, insp *entity.QualityInspection) error {
	if _, ok := m.Inspections[insp.ID]; !ok {
		return repository.ErrNotFound
	}
	m.Inspections[insp.ID] = insp
	return nil
}

func (m *MemInspectionStore) List(_ context.Context, params repository.InspectionListParams) ([]entity.QualityInspection, int64, error) {
	var out []entity.QualityInspection
	for _, insp := range m.Inspections {
		if params.Status != "" && string(insp.Status) != params.Status {
			continue
		}
		out = append(out, *insp)
	}
	return out, int64(len(out)), nil
}

func (m *MemInspectionStore) FindDefect(_ context.Context, id string) (*entity.Defect, error) {
	d, ok := m.Defects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (m *MemInspectionStore) AddDefect(_ context.Context, rec *entity.InspectionDefect) error {
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MemInspectionStore) AddAttachment(_ context.Context, att *entity.InspectionAttachment) error {
	m.Attachments = append(m.Attachments, att)
	return nil
}
