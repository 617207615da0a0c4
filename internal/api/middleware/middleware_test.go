package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"garden-assistant/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDeduplication(t *testing.T) {
	r := newEngine(Deduplication(time.Minute))

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/echo", `{"name":"rose"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/echo", `{"name":"rose"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/echo", `{"name":"tomato"}`).Code)

	// GET 不去重
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/echo", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/echo", "").Code)
}

func TestDeduplication_InstancesAreIndependent(t *testing.T) {
	a := newEngine(Deduplication(time.Minute))
	b := newEngine(Deduplication(time.Minute))

	assert.Equal(t, http.StatusNoContent, do(a, http.MethodPost, "/echo", `{}`).Code)
	assert.Equal(t, http.StatusNoContent, do(b, http.MethodPost, "/echo", `{}`).Code)
}

func TestDeduplication_WindowExpires(t *testing.T) {
	r := newEngine(Deduplication(20 * time.Millisecond))

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/echo", `{}`).Code)
	assert.Eventually(t, func() bool {
		return do(r, http.MethodPost, "/echo", `{}`).Code == http.StatusNoContent
	}, time.Second, 10*time.Millisecond)
}

func TestRateLimiter_RefillsFractionally(t *testing.T) {
	now := time.Unix(0, 0)
	rl := newRateLimiter(2, time.Second, func() time.Time { return now })

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	// 每 250ms 補半個令牌，兩次後才足夠
	now = now.Add(250 * time.Millisecond)
	assert.False(t, rl.Allow())
	now = now.Add(250 * time.Millisecond)
	assert.True(t, rl.Allow())
}

func TestRateLimit_Middleware(t *testing.T) {
	now := time.Unix(0, 0)
	limiter := newRateLimiter(1, time.Minute, func() time.Time { return now })
	r := newEngine(rateLimit(limiter))

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/echo", "").Code)
	w := do(r, http.MethodGet, "/echo", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/echo", `{}`).Code)
	w := do(r, http.MethodPost, "/echo", `{"name":"rose"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeRequestTooLarge)
}

func TestBodySizeLimit_UndeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	var readErr error
	r.POST("/read", func(c *gin.Context) {
		_, readErr = io.ReadAll(c.Request.Body)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/read", strings.NewReader(`{"name":"rose"}`))
	req.ContentLength = -1
	r.ServeHTTP(w, req)

	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(readErr, &tooLarge))
}

type panicRecorder struct {
	errs       []error
	components []string
}

func (p *panicRecorder) CaptureError(err error, component string) {
	p.errs = append(p.errs, err)
	p.components = append(p.components, component)
}

func (p *panicRecorder) Flush(time.Duration) bool { return true }

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(nil), Logger())

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRecovery_ReportsPanic(t *testing.T) {
	rec := &panicRecorder{}
	r := newEngine(Recovery(rec))

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/panic", "").Code)
	if assert.Len(t, rec.errs, 1) {
		assert.EqualError(t, rec.errs[0], "panic: boom")
		assert.Equal(t, "http", rec.components[0])
	}
}
