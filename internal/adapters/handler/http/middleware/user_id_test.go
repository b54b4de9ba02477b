package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(UserIDMiddleware())
	router.GET("/me", func(c *gin.Context) {
		id, ok := GetUserID(c)
		assert.True(t, ok)
		c.String(http.StatusOK, id)
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"Header present", "user-42", http.StatusOK, "user-42"},
		{"Header trimmed", "  user-42 ", http.StatusOK, "user-42"},
		{"Header missing", "", http.StatusUnauthorized, ""},
		{"Header blank", "   ", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetUserID(c)
	assert.False(t, ok)
}
