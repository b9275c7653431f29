package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dehusync/internal/dehu"
)

func TestMetrics_RemoteOutcomesAreBucketed(t *testing.T) {
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	metrics.remoteReply(dehu.OpRequestAccess, "200")
	metrics.remoteReply(dehu.OpRequestAccess, "404")
	metrics.remoteReply(dehu.OpRequestAccess, "0200")
	metrics.remoteReply(dehu.OpRequestAccess, "whatever the remote invents")
	metrics.remoteError(dehu.OpRequestAccess)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.remoteCalls.WithLabelValues(dehu.OpRequestAccess, "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.remoteCalls.WithLabelValues(dehu.OpRequestAccess, "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.remoteCalls.WithLabelValues(dehu.OpRequestAccess, "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.remoteCalls))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var metrics *Metrics
	assert.NotPanics(t, func() {
		metrics.remoteReply(dehu.OpLocate, "200")
		metrics.remoteError(dehu.OpLocate)
		metrics.notification(sourceFetch, "created")
		metrics.attachment("reference", "created")
	})
}
