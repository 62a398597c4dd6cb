package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.EntryAdded("orders", true)
	p.EntryAdded("orders", true)
	p.EntryAdded("orders", false)
	p.Lookup("orders", true)
	p.Lookup("orders", false)
	p.Lookup("orders", false)
	p.EntriesRemoved("orders", 4)
	p.EntriesRemoved("orders", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.added.WithLabelValues("orders", "stored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.added.WithLabelValues("orders", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.lookups.WithLabelValues("orders", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.lookups.WithLabelValues("orders", "miss")))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.removed.WithLabelValues("orders")))
}

func TestPrometheus_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	assert.Error(t, err, "registering the same collectors twice must fail")
}

func TestPrometheus_MetricNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.EntryAdded("c", true)
	p.Lookup("c", true)
	p.EntriesRemoved("c", 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"graphcache_entries_added_total",
		"graphcache_lookups_total",
		"graphcache_entries_removed_total",
	}, names)
}

func TestNop(t *testing.T) {
	r := Nop()
	assert.NotPanics(t, func() {
		r.EntryAdded("c", true)
		r.Lookup("c", false)
		r.EntriesRemoved("c", 3)
	})
}
