package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.ObserveSubmission("succeeded", 20*time.Millisecond)
	m.ObserveSubmission("failed", time.Second)
	m.ObserveSubmission("failed", time.Second)
	m.SubmitRejected()
	m.DraftCreated()
	m.DraftCreated()
	m.DraftReleased()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("succeeded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submitsRejected))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.draftsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.draftsReleased))

	count, err := testutil.GatherAndCount(reg, "notice_composer_submit_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestActiveDraftsFollowsStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	size := 3
	m.TrackActiveDrafts(func() int { return size })

	// Releases, including a release of a draft that is read back into the
	// store right after, never move the gauge away from the store size.
	m.DraftReleased()
	m.DraftReleased()

	expected := `
# HELP notice_composer_drafts_active Drafts currently held in memory.
# TYPE notice_composer_drafts_active gauge
notice_composer_drafts_active 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "notice_composer_drafts_active"))

	size = 1
	expected = strings.Replace(expected, "active 3", "active 1", 1)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "notice_composer_drafts_active"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission("succeeded", time.Second)
	m.SubmitRejected()
	m.DraftCreated()
	m.DraftReleased()
	m.TrackActiveDrafts(func() int { return 1 })
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNewMetrics(reg)
	assert.Panics(t, func() { MustNewMetrics(reg) })
}
