package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/books", "200"))
	RecordRequest("GET", "/api/books", http.StatusOK, 10*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/books", "200"))
	assert.Equal(t, before+1, after)

	beforeUnmatched := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	RecordRequest("GET", "", http.StatusNotFound, time.Millisecond)
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordVersionCreated(t *testing.T) {
	initial := testutil.ToFloat64(versionsCreated.WithLabelValues("initial"))
	update := testutil.ToFloat64(versionsCreated.WithLabelValues("update"))

	RecordVersionCreated(1)
	RecordVersionCreated(2)
	RecordVersionCreated(3)

	assert.Equal(t, initial+1, testutil.ToFloat64(versionsCreated.WithLabelValues("initial")))
	assert.Equal(t, update+2, testutil.ToFloat64(versionsCreated.WithLabelValues("update")))
}

func TestRecordSearch(t *testing.T) {
	failed := testutil.ToFloat64(searchQueries.WithLabelValues("error"))
	RecordSearch(errors.New("boom"))
	assert.Equal(t, failed+1, testutil.ToFloat64(searchQueries.WithLabelValues("error")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordStoreConflict("recipe.update")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recipehub_store_conflicts_total")
}
