package handler

import (
	"testing"

	"github.com/andetex/mes/internal/mes/entity"
	"github.com/andetex/mes/internal/mes/service"
	"github.com/andetex/mes/internal/mes/testutil"
	"github.com/andetex/mes/internal/middleware"
	"github.com/gin-gonic/gin"
)

type testStores struct {
	orders      *testutil.MemOrderStore
	master      *testutil.MemMasterData
	trace       *testutil.MemTraceStore
	inspections *testutil.MemInspectionStore
}

// setupAPI wires handlers over in-memory stores with the same route table
// and middleware as the server binary
func setupAPI(t *testing.T) (*gin.Engine, *testStores) {
	t.Helper()

	st := &testStores{
		orders:      testutil.NewMemOrderStore(),
		master:      testutil.NewMemMasterData(),
		trace:       testutil.NewMemTraceStore(),
		inspections: testutil.NewMemInspectionStore(),
	}

	h := &Handlers{
		ProductionOrder: NewProductionOrderHandler(service.NewProductionOrderService(st.orders, st.master)),
		Traceability:    NewTraceabilityHandler(service.NewTraceabilityService(st.trace, st.master, nil)),
		Quality:         NewQualityHandler(service.NewQualityService(st.inspections, st.trace, nil, "mes-attachments")),
	}

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api/v1")

	orders := api.Group("/production-orders")
	orders.POST("", middleware.RequireRole("ADMIN", "SUPERVISOR"), h.ProductionOrder.Create)
	orders.GET("", h.ProductionOrder.List)
	orders.GET("/export", h.ProductionOrder.Export)
	orders.GET("/:id", h.ProductionOrder.Get)
	orders.PATCH("/:id", middleware.RequireRole("ADMIN", "SUPERVISOR"), h.ProductionOrder.Update)
	orders.PATCH("/:id/status", h.ProductionOrder.UpdateStatus)
	orders.PATCH("/:id/quantity", h.ProductionOrder.UpdateQuantity)
	orders.PATCH("/:id/operations/:opId", h.ProductionOrder.UpdateOperation)
	orders.DELETE("/:id", middleware.RequireRole("ADMIN"), h.ProductionOrder.Delete)

	trace := api.Group("/traceability")
	trace.POST("/nodes", middleware.RequireRole("ADMIN", "SUPERVISOR"), h.Traceability.CreateNode)
	trace.GET("/nodes", h.Traceability.ListNodes)
	trace.GET("/nodes/code/:code", h.Traceability.GetNodeByCode)
	trace.DELETE("/nodes/:id", middleware.RequireRole("ADMIN"), h.Traceability.DeleteNode)
	trace.POST("/links", middleware.RequireRole("ADMIN", "SUPERVISOR"), h.Traceability.CreateLink)
	trace.GET("/nodes/:id/upstream", h.Traceability.Upstream)
	trace.GET("/nodes/:id/downstream", h.Traceability.Downstream)

	quality := api.Group("/quality")
	quality.POST("/inspections", h.Quality.CreateInspection)
	quality.GET("/inspections", h.Quality.List)
	quality.GET("/inspections/:id", h.Quality.Get)
	quality.POST("/inspections/:id/defects", h.Quality.AddDefect)
	quality.PATCH("/inspections/:id/status", h.Quality.UpdateStatus)

	return r, st
}

func seedMasterData(st *testStores) {
	st.master.Products["prod-1"] = &entity.Product{
		ID: "prod-1", Code: "TELA-ALG-01", Name: "棉布", UnitOfMeasure: "m",
	}
	st.master.Routes["route-1"] = &entity.Route{
		ID: "route-1", Code: "RT-TEJIDO-01", Name: "织造路线", ProductID: "prod-1",
		Operations: []entity.RouteOperation{
			{ID: "rop-10", RouteID: "route-1", Sequence: 10, Name: "整经"},
			{ID: "rop-20", RouteID: "route-1", Sequence: 20, Name: "织造"},
		},
	}
}
