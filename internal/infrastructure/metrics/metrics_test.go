package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCacheLookup(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordCacheLookup("profile", true)
	m.RecordCacheLookup("profile", true)
	m.RecordCacheLookup("profile", false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues("profile", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues("profile", "miss")))
}

func TestRecordGeneration(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordGeneration("care_profile", 150*time.Millisecond, nil)
	m.RecordGeneration("care_profile", time.Second, errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.generationsTotal.WithLabelValues("care_profile", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.generationsTotal.WithLabelValues("care_profile", "error")))
}

func TestGaugesAndEvictions(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.RecordEviction("capacity", 3)
	m.RecordEviction("expired", 0)
	m.SetIdentificationEntries(7)
	m.SetQueueDepth(2)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.evictionsTotal.WithLabelValues("capacity")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.identificationEntries))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.queueDepth))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordCacheLookup("profile", true)
		m.RecordCacheWriteError("profile", "put")
		m.RecordGeneration("care_profile", time.Second, nil)
		m.RecordEviction("expired", 1)
		m.SetIdentificationEntries(1)
		m.SetQueueDepth(1)
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)
	m.RecordCacheLookup("identification", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "garden_cache_lookups_total")
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}
