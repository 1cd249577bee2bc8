package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	config "github.com/thirdweb-dev/blob-indexer/configs"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger())
	r.GET("/blobs/:id", Authorization, func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})
	return r
}

func TestAuthorizationDisabled(t *testing.T) {
	originalConfig := config.Cfg
	defer func() { config.Cfg = originalConfig }()
	config.Cfg.API.BasicAuth = nil

	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blobs/abcd", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abcd", w.Body.String())
}

func TestAuthorizationEnabled(t *testing.T) {
	originalConfig := config.Cfg
	defer func() { config.Cfg = originalConfig }()
	config.Cfg.API.BasicAuth = &config.BasicAuthConfig{Username: "reader", Password: "s3cret"}

	testCases := []struct {
		name     string
		user     string
		pass     string
		setAuth  bool
		wantCode int
	}{
		{name: "no credentials", wantCode: http.StatusUnauthorized},
		{name: "wrong password", user: "reader", pass: "nope", setAuth: true, wantCode: http.StatusUnauthorized},
		{name: "wrong user", user: "admin", pass: "s3cret", setAuth: true, wantCode: http.StatusUnauthorized},
		{name: "valid", user: "reader", pass: "s3cret", setAuth: true, wantCode: http.StatusOK},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/blobs/abcd", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			newTestRouter().ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zerolog.ErrorLevel, requestLevel("/health", http.StatusInternalServerError))
	assert.Equal(t, zerolog.TraceLevel, requestLevel("/metrics", http.StatusOK))
	assert.Equal(t, zerolog.DebugLevel, requestLevel("/blobs/abcd", http.StatusNotFound))
}
