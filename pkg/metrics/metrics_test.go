package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoadmapGenerated(t *testing.T) {
	roadmapsGeneratedTotal.Reset()

	RecordRoadmapGenerated("frontend-developer")
	RecordRoadmapGenerated("frontend-developer")

	metric := &dto.Metric{}
	require.NoError(t, roadmapsGeneratedTotal.WithLabelValues("frontend-developer").Write(metric))
	assert.Equal(t, 2.0, metric.Counter.GetValue())
}

func TestRecordMilestoneUpdate(t *testing.T) {
	milestoneUpdatesTotal.Reset()

	RecordMilestoneUpdate(true)
	RecordMilestoneUpdate(false)
	RecordMilestoneUpdate(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(milestoneUpdatesTotal.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(milestoneUpdatesTotal.WithLabelValues("incomplete")))
}

func TestRecordStatusTransition(t *testing.T) {
	statusTransitionsTotal.Reset()

	RecordStatusTransition("active")

	assert.Equal(t, 1.0, testutil.ToFloat64(statusTransitionsTotal.WithLabelValues("active")))
	assert.Equal(t, 1, testutil.CollectAndCount(statusTransitionsTotal))
}

func TestRecordAnalysisProcessed(t *testing.T) {
	analysesProcessedTotal.Reset()
	analysisDuration.Reset()

	RecordAnalysisProcessed("keyword", "completed", 0.2)
	RecordAnalysisProcessed("openai", "retry", 12)

	assert.Equal(t, 1.0, testutil.ToFloat64(analysesProcessedTotal.WithLabelValues("keyword", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(analysesProcessedTotal.WithLabelValues("openai", "retry")))
	assert.Equal(t, 2, testutil.CollectAndCount(analysisDuration))
}
