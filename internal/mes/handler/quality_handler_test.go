package handler

import (
	"net/http"
	"testing"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/testutil"
)

func TestQualityInspectionAPIRoundTrip(t *testing.T) {
	r, st := setupAPI(t)
	token := testutil.DefaultTestToken()

	st.trace.Nodes["node-1"] = &entity.TraceNode{
		ID: "node-1", Code: "LOTE-TELA-001", Type: entity.TraceNodeSemiFinishedLot,
	}
	st.inspections.Defects["def-crit"] = &entity.Defect{
		ID: "def-crit", Code: "ROTURA", Severity: entity.DefectSeverityCritical,
	}

	w := testutil.DoRequest(r, "POST", "/api/v1/quality/inspections", map[string]interface{}{
		"type":    "IN_PROCESS",
		"node_id": "node-1",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create inspection status = %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "PENDING" {
		t.Errorf("inspection status = %v, want PENDING", data["status"])
	}
	inspID := data["id"].(string)

	// 节点不存在
	w = testutil.DoRequest(r, "POST", "/api/v1/quality/inspections", map[string]interface{}{
		"type": "IN_PROCESS", "node_id": "missing",
	}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("create for missing node status = %d, want 404", w.Code)
	}

	// CRITICAL缺陷登记后质检单自动判FAILED
	w = testutil.DoRequest(r, "POST", "/api/v1/quality/inspections/"+inspID+"/defects",
		map[string]interface{}{"defect_id": "def-crit", "quantity": 1}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("add defect status = %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/quality/inspections/"+inspID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get inspection status = %d", w.Code)
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "FAILED" {
		t.Errorf("inspection status after critical defect = %v, want FAILED", data["status"])
	}

	// 非法结论值
	w = testutil.DoRequest(r, "PATCH", "/api/v1/quality/inspections/"+inspID+"/status",
		map[string]interface{}{"status": "APPROVED"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status update = %d, want 400", w.Code)
	}

	w = testutil.DoRequest(r, "PATCH", "/api/v1/quality/inspections/"+inspID+"/status",
		map[string]interface{}{"status": "REWORK"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status update = %d, want 200: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "REWORK" {
		t.Errorf("inspection status = %v, want REWORK", data["status"])
	}
}
