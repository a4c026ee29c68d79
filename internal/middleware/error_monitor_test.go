package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	os.Exit(m.Run())
}

// TestErrorMonitorCountsHandledErrors 经过 HandleError 的错误计入监控统计
func TestErrorMonitorCountsHandledErrors(t *testing.T) {
	monitor := NewErrorMonitor()

	r := gin.New()
	r.Use(ErrorMonitorMiddleware(monitor))
	r.GET("/boom", func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrVoucherNotFound, "优惠码不存在"))
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	counts := monitor.GetErrorCounts()
	assert.Equal(t, 2, counts[errors.ErrVoucherNotFound])
}

// TestRecoveryMiddlewareTurnsPanicIntoError panic 被恢复并返回内部错误
func TestRecoveryMiddlewareTurnsPanicIntoError(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
