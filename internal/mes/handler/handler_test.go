package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andetex/mes/internal/mes/repository"
	"github.com/andetex/mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

func TestPaginationClamping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-5&limit=-1", 1, 20},
		{"page=2&limit=500", 2, 100},
		{"page=abc&limit=xyz", 1, 20},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			page, limit := pagination(c)
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Errorf("pagination(%q) = (%d, %d), want (%d, %d)",
					tc.query, page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestPageData(t *testing.T) {
	got := pageData([]string{"a"}, 45, 2, 20)
	if got["total_pages"] != 3 {
		t.Errorf("total_pages = %v, want 3", got["total_pages"])
	}
	if got["has_next_page"] != true || got["has_prev_page"] != true {
		t.Errorf("page flags = %v/%v, want true/true", got["has_next_page"], got["has_prev_page"])
	}

	got = pageData([]string{}, 0, 1, 20)
	if got["total_pages"] != 0 || got["has_next_page"] != false || got["has_prev_page"] != false {
		t.Errorf("empty pageData = %v", got)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
		wantCode   float64
	}{
		{fmt.Errorf("订单 x: %w", repository.ErrNotFound), http.StatusNotFound, 40400},
		{fmt.Errorf("订单编号已被占用: %w", repository.ErrConflict), http.StatusConflict, 40900},
		{fmt.Errorf("非法状态: %w", service.ErrInvalid), http.StatusBadRequest, 10001},
		{fmt.Errorf("db down"), http.StatusInternalServerError, 50001},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Errorf("respondError(%v) status = %d, want %d", tc.err, w.Code, tc.wantStatus)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if body["code"] != tc.wantCode {
			t.Errorf("respondError(%v) code = %v, want %v", tc.err, body["code"], tc.wantCode)
		}
	}
}
