//go:build ui_embed

package ui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	h, err := Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}

	tests := []struct {
		path       string
		wantStatus int
		wantPage   bool
	}{
		{path: "/", wantStatus: http.StatusOK, wantPage: true},
		{path: "/settings", wantStatus: http.StatusOK, wantPage: true},
		{path: "/missing.js", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !tt.wantPage {
				return
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
				t.Errorf("Cache-Control = %q, want no-cache", got)
			}
			if !strings.Contains(rec.Body.String(), "/api/events") {
				t.Error("body is not the control page")
			}
		})
	}
}
