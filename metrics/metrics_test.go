package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDecision("approve")
	c.RecordDecision("approve")
	c.RecordDecision("invalid")
	c.RecordSocialPost(false)
	c.RecordToggle("publisher", true)
	c.RecordHTTPStatus(404)
	c.RecordFeedBuild(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.decisions.WithLabelValues("approve")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.socialPosts.WithLabelValues("skipped_or_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toggles.WithLabelValues("publisher", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("404")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["newsdesk_feed_build_seconds"])
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordFeedRequest("feed")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `newsdesk_feed_requests_total{kind="feed"} 1`)
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordDecision("approve")
	r.RecordHTTPStatus(200)
}
