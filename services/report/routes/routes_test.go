// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for report service route registration

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/IntegralMaster/services/report/handlers"
	"github.com/AleutianAI/IntegralMaster/services/report/texcompile"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetupRoutes(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, handlers.NewService(texcompile.NewCompiler()))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: "GET", path: "/health", want: http.StatusOK},
		{method: "GET", path: "/metrics", want: http.StatusOK},
		{method: "POST", path: "/v1/integrals/evaluate", want: http.StatusBadRequest}, // empty body
		{method: "POST", path: "/v1/integrals/compile", want: http.StatusBadRequest},  // empty body
		{method: "GET", path: "/v1/integrals/evaluate", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}
