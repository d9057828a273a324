package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.ObserveInteraction("slash_command", OutcomeHandled, 0.002)
	r.ObserveInteraction("slash_command", OutcomeUnmatched, 0)
	r.IncEvent("main")
	r.IncHandlerError("interaction")
	r.IncAutocomplete(OutcomeHandled)
	r.IncPublish("main", nil)
	r.IncPublish("main", assert.AnError)

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["tescord_interactions_total"])
	assert.True(t, names["tescord_dispatch_duration_seconds"])
	assert.True(t, names["tescord_publish_total"])

	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.interactionsTotal.WithLabelValues("slash_command", OutcomeHandled)))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.publishTotal.WithLabelValues("main", OutcomeError)))
}
