package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/andetex/mes/internal/mes/testutil"
)

func TestProductionOrderAPIRoundTrip(t *testing.T) {
	r, st := setupAPI(t)
	seedMasterData(st)
	token := testutil.DefaultTestToken()

	createBody := map[string]interface{}{
		"code":             "op-2025-0001",
		"product_id":       "prod-1",
		"route_id":         "route-1",
		"quantity_planned": 500,
	}

	// 未带token直接401
	w := testutil.DoRequest(r, "POST", "/api/v1/production-orders", createBody, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", w.Code)
	}

	w = testutil.DoRequest(r, "POST", "/api/v1/production-orders", createBody, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"] != float64(0) {
		t.Errorf("envelope code = %v, want 0", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["code"] != "OP-2025-0001" {
		t.Errorf("order code = %v, want OP-2025-0001", data["code"])
	}
	ops := data["operations"].([]interface{})
	if len(ops) != 2 {
		t.Fatalf("operations = %d, want 2", len(ops))
	}
	orderID := data["id"].(string)

	// 必填字段缺失走binding校验
	w = testutil.DoRequest(r, "POST", "/api/v1/production-orders", map[string]interface{}{
		"code": "OP-NO-PRODUCT",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without product status = %d, want 400", w.Code)
	}

	// 重复code
	w = testutil.DoRequest(r, "POST", "/api/v1/production-orders", createBody, token)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", w.Code)
	}

	// 列表
	w = testutil.DoRequest(r, "GET", "/api/v1/production-orders", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	listData := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if listData["total"] != float64(1) {
		t.Errorf("list total = %v, want 1", listData["total"])
	}

	// 状态流转
	w = testutil.DoRequest(r, "PATCH", "/api/v1/production-orders/"+orderID+"/status",
		map[string]interface{}{"status": "IN_PROGRESS"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status update = %d, want 200: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["actual_start_date"] == nil {
		t.Error("IN_PROGRESS must stamp actual_start_date")
	}

	w = testutil.DoRequest(r, "PATCH", "/api/v1/production-orders/"+orderID+"/status",
		map[string]interface{}{"status": "SHIPPED"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status update = %d, want 400", w.Code)
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/production-orders/missing", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("get missing order status = %d, want 404", w.Code)
	}
}

func TestProductionOrderExportEndpoint(t *testing.T) {
	r, st := setupAPI(t)
	seedMasterData(st)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/production-orders", map[string]interface{}{
		"code": "OP-2025-0090", "product_id": "prod-1", "route_id": "route-1", "quantity_planned": 100,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/production-orders/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("export content type = %q, want xlsx", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "ProductionOrders_") {
		t.Errorf("content disposition = %q, want ProductionOrders_ filename", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("export body is empty")
	}
}
