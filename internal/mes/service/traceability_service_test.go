package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/repository"
	"github.com/andetex/mes/internal/mes/testutil"
)

func newTraceService() (*TraceabilityService, *testutil.MemTraceStore, *testutil.MemMasterData) {
	store := testutil.NewMemTraceStore()
	master := testutil.NewMemMasterData()
	return NewTraceabilityService(store, master, nil), store, master
}

func mustNode(t *testing.T, svc *TraceabilityService, code string, nodeType entity.TraceNodeType) *entity.TraceNode {
	t.Helper()
	node, err := svc.CreateNode(context.Background(), CreateTraceNodeRequest{
		Code: code,
		Type: string(nodeType),
	})
	if err != nil {
		t.Fatalf("CreateNode(%s) error = %v", code, err)
	}
	return node
}

func mustLink(t *testing.T, svc *TraceabilityService, parent, child *entity.TraceNode, qty *float64) *entity.TraceLink {
	t.Helper()
	link, err := svc.Link(context.Background(), LinkNodesRequest{
		ParentNodeID: parent.ID,
		ChildNodeID:  child.ID,
		QuantityUsed: qty,
	})
	if err != nil {
		t.Fatalf("Link(%s -> %s) error = %v", parent.Code, child.Code, err)
	}
	return link
}

func TestCreateNodeNormalizesAndDefaults(t *testing.T) {
	svc, _, master := newTraceService()
	master.Products["prod-1"] = &entity.Product{ID: "prod-1", Code: "HILO-01", UnitOfMeasure: "kg"}
	productID := "prod-1"

	node, err := svc.CreateNode(context.Background(), CreateTraceNodeRequest{
		Code:      "  lote-alg-001 ",
		Type:      string(entity.TraceNodeMaterialLot),
		ProductID: &productID,
		Quantity:  f64(120),
	})
	if err != nil {
		t.Fatalf("CreateNode() error = %v", err)
	}
	if node.Code != "LOTE-ALG-001" {
		t.Errorf("code = %q, want trimmed uppercase LOTE-ALG-001", node.Code)
	}
	// 未显式给单位时从产品带出
	if node.UnitOfMeasure == nil || *node.UnitOfMeasure != "kg" {
		t.Errorf("unit = %v, want kg from product", node.UnitOfMeasure)
	}

	if _, err := svc.CreateNode(context.Background(), CreateTraceNodeRequest{Code: "X", Type: "PALLET"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("CreateNode(PALLET) error = %v, want ErrInvalid", err)
	}
	if _, err := svc.CreateNode(context.Background(), CreateTraceNodeRequest{
		Code: "X", Type: string(entity.TraceNodeContainer), Quantity: f64(-1),
	}); !errors.Is(err, ErrInvalid) {
		t.Errorf("CreateNode(qty<0) error = %v, want ErrInvalid", err)
	}
}

func TestCreateNodeCodeConflictIncludesDeleted(t *testing.T) {
	svc, _, _ := newTraceService()
	node := mustNode(t, svc, "LOT-DUP", entity.TraceNodeMaterialLot)

	if _, err := svc.CreateNode(context.Background(), CreateTraceNodeRequest{
		Code: "lot-dup", Type: string(entity.TraceNodeMaterialLot),
	}); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("duplicate CreateNode() error = %v, want ErrConflict", err)
	}

	if err := svc.SoftDeleteNode(context.Background(), node.ID); err != nil {
		t.Fatalf("SoftDeleteNode() error = %v", err)
	}
	if _, err := svc.CreateNode(context.Background(), CreateTraceNodeRequest{
		Code: "LOT-DUP", Type: string(entity.TraceNodeMaterialLot),
	}); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("CreateNode() after soft delete error = %v, want ErrConflict", err)
	}
	// 软删节点对按code查询不可见
	if _, err := svc.FindNodeByCode(context.Background(), "LOT-DUP"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindNodeByCode() after soft delete error = %v, want ErrNotFound", err)
	}
}

func TestLinkValidation(t *testing.T) {
	svc, _, _ := newTraceService()
	a := mustNode(t, svc, "LOT-A", entity.TraceNodeMaterialLot)
	b := mustNode(t, svc, "LOT-B", entity.TraceNodeSemiFinishedLot)

	link := mustLink(t, svc, a, b, f64(50))
	if link.Type != entity.TraceLinkTransformation {
		t.Errorf("link type = %s, want default TRANSFORMATION", link.Type)
	}

	if _, err := svc.Link(context.Background(), LinkNodesRequest{
		ParentNodeID: a.ID, ChildNodeID: "missing",
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Link(missing child) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Link(context.Background(), LinkNodesRequest{
		ParentNodeID: a.ID, ChildNodeID: b.ID, Type: "GLUED",
	}); !errors.Is(err, ErrInvalid) {
		t.Errorf("Link(GLUED) error = %v, want ErrInvalid", err)
	}
	if _, err := svc.Link(context.Background(), LinkNodesRequest{
		ParentNodeID: a.ID, ChildNodeID: b.ID, QuantityUsed: f64(-5),
	}); !errors.Is(err, ErrInvalid) {
		t.Errorf("Link(qty<0) error = %v, want ErrInvalid", err)
	}
}

func TestLineageRoundTrip(t *testing.T) {
	svc, _, _ := newTraceService()
	ctx := context.Background()
	a := mustNode(t, svc, "LOT-A", entity.TraceNodeMaterialLot)
	b := mustNode(t, svc, "LOT-B", entity.TraceNodeSemiFinishedLot)
	mustLink(t, svc, a, b, f64(50))

	down, err := svc.Downstream(ctx, a.ID, 1)
	if err != nil {
		t.Fatalf("Downstream() error = %v", err)
	}
	if down.Root.ID != a.ID {
		t.Errorf("root = %s, want %s", down.Root.ID, a.ID)
	}
	if len(down.Edges) != 1 {
		t.Fatalf("downstream edges = %d, want 1", len(down.Edges))
	}
	e := down.Edges[0]
	if e.Level != 1 || e.Relation != entity.TraceLinkTransformation || e.Node.ID != b.ID {
		t.Errorf("edge = %+v, want level 1 TRANSFORMATION to LOT-B", e)
	}
	if e.QuantityUsed == nil || *e.QuantityUsed != 50 {
		t.Errorf("quantity_used = %v, want 50", e.QuantityUsed)
	}

	up, err := svc.Upstream(ctx, b.ID, 1)
	if err != nil {
		t.Fatalf("Upstream() error = %v", err)
	}
	if len(up.Edges) != 1 || up.Edges[0].Node.ID != a.ID || up.Edges[0].Level != 1 {
		t.Errorf("upstream edges = %+v, want LOT-A at level 1", up.Edges)
	}
}

func TestLineageDepthBound(t *testing.T) {
	svc, _, _ := newTraceService()
	ctx := context.Background()

	// 链 N0 -> N1 -> N2 -> N3 -> N4 -> N5
	nodes := make([]*entity.TraceNode, 6)
	for i := range nodes {
		nodes[i] = mustNode(t, svc, fmt.Sprintf("CHAIN-%d", i), entity.TraceNodeSemiFinishedLot)
		if i > 0 {
			mustLink(t, svc, nodes[i-1], nodes[i], nil)
		}
	}

	levelsAt := func(depth int) []int {
		t.Helper()
		res, err := svc.Downstream(ctx, nodes[0].ID, depth)
		if err != nil {
			t.Fatalf("Downstream(depth=%d) error = %v", depth, err)
		}
		out := make([]int, len(res.Edges))
		for i, e := range res.Edges {
			out[i] = e.Level
		}
		return out
	}

	// depth含边界：depth=2时只看到第1、2层的边
	if got := levelsAt(2); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("levels at depth 2 = %v, want [1 2]", got)
	}
	// depth<=0走默认深度3
	if got := levelsAt(0); len(got) != DefaultTraversalDepth {
		t.Errorf("levels at depth 0 = %v, want %d edges (default depth)", got, DefaultTraversalDepth)
	}
	// 超大depth被截断到上限，链只有5条边
	if got := levelsAt(10_000); len(got) != 5 {
		t.Errorf("levels at huge depth = %v, want all 5 edges", got)
	}
}

func TestLineageSurvivesCycle(t *testing.T) {
	svc, _, _ := newTraceService()
	ctx := context.Background()
	a := mustNode(t, svc, "CYC-A", entity.TraceNodeContainer)
	b := mustNode(t, svc, "CYC-B", entity.TraceNodeContainer)
	mustLink(t, svc, a, b, nil)
	mustLink(t, svc, b, a, nil)

	res, err := svc.Downstream(ctx, a.ID, 10)
	if err != nil {
		t.Fatalf("Downstream() error = %v", err)
	}
	// A展开出B（第1层），B展开出A（第2层），之后都已访问，遍历终止
	if len(res.Edges) != 2 {
		t.Fatalf("edges = %d, want 2 (each node expanded once)", len(res.Edges))
	}
	if res.Edges[0].Level != 1 || res.Edges[0].Node.ID != b.ID {
		t.Errorf("edge[0] = %+v, want CYC-B at level 1", res.Edges[0])
	}
	if res.Edges[1].Level != 2 || res.Edges[1].Node.ID != a.ID {
		t.Errorf("edge[1] = %+v, want CYC-A at level 2", res.Edges[1])
	}
}

func TestLineageDiamondReportsEveryEdge(t *testing.T) {
	svc, _, _ := newTraceService()
	ctx := context.Background()
	a := mustNode(t, svc, "DIA-A", entity.TraceNodeMaterialLot)
	b := mustNode(t, svc, "DIA-B", entity.TraceNodeSemiFinishedLot)
	c := mustNode(t, svc, "DIA-C", entity.TraceNodeSemiFinishedLot)
	d := mustNode(t, svc, "DIA-D", entity.TraceNodeFinishedGood)
	mustLink(t, svc, a, b, nil)
	mustLink(t, svc, a, c, nil)
	mustLink(t, svc, b, d, nil)
	mustLink(t, svc, c, d, nil)

	res, err := svc.Downstream(ctx, a.ID, 3)
	if err != nil {
		t.Fatalf("Downstream() error = %v", err)
	}
	// 每条关联边各报一条记录：D经B和经C各出现一次，但D只展开一次
	if len(res.Edges) != 4 {
		t.Fatalf("edges = %d, want 4", len(res.Edges))
	}
	byLevel := map[int]int{}
	for _, e := range res.Edges {
		byLevel[e.Level]++
	}
	if byLevel[1] != 2 || byLevel[2] != 2 {
		t.Errorf("edges per level = %v, want 2 at level 1 and 2 at level 2", byLevel)
	}

	// 反向：D的上游在第1层有两条边（B、C）
	up, err := svc.Upstream(ctx, d.ID, 1)
	if err != nil {
		t.Fatalf("Upstream() error = %v", err)
	}
	if len(up.Edges) != 2 {
		t.Errorf("upstream edges = %d, want 2", len(up.Edges))
	}
}

func TestLineageRootMustExist(t *testing.T) {
	svc, _, _ := newTraceService()
	if _, err := svc.Upstream(context.Background(), "missing", 3); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Upstream(missing) error = %v, want ErrNotFound", err)
	}
}
