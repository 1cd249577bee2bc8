package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryParams(t *testing.T) {
	testCases := []struct {
		name      string
		query     string
		wantLimit int
		wantError bool
	}{
		{name: "default", query: "", wantLimit: DEFAULT_LIMIT},
		{name: "explicit", query: "limit=5", wantLimit: 5},
		{name: "clamped", query: "limit=5000", wantLimit: MAX_LIMIT},
		{name: "zero falls back to default", query: "limit=0", wantLimit: DEFAULT_LIMIT},
		{name: "unknown keys ignored", query: "limit=7&page=2", wantLimit: 7},
		{name: "not a number", query: "limit=ten", wantError: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/heights/1/blobs?"+tt.query, nil)
			params, err := ParseQueryParams(req)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestErrorHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		handler  gin.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name:     "bad request",
			handler:  func(c *gin.Context) { BadRequestErrorHandler(c, errors.New("bad id")) },
			wantCode: http.StatusBadRequest,
			wantBody: `{"code":400,"message":"bad id"}`,
		},
		{
			name:     "not found",
			handler:  func(c *gin.Context) { NotFoundErrorHandler(c, errors.New("blob not found")) },
			wantCode: http.StatusNotFound,
			wantBody: `{"code":404,"message":"blob not found"}`,
		},
		{
			name:     "internal",
			handler:  InternalErrorHandler,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"code":500,"message":"An unexpected error occurred."}`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
