// Package metrics records graph cache activity.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder receives cache events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// EntryAdded is called for every cacheable node offered to the store.
	// stored is false when a live entry already held the key.
	EntryAdded(cache string, stored bool)
	// Lookup is called once per read operation.
	Lookup(cache string, hit bool)
	// EntriesRemoved is called after a removal with the number of keys dropped.
	EntriesRemoved(cache string, n int)
}

type nop struct{}

func (nop) EntryAdded(string, bool)    {}
func (nop) Lookup(string, bool)        {}
func (nop) EntriesRemoved(string, int) {}

// Nop returns a Recorder that discards every event.
func Nop() Recorder { return nop{} }

// Prometheus exports cache events as prometheus counters.
type Prometheus struct {
	added   *prometheus.CounterVec
	lookups *prometheus.CounterVec
	removed *prometheus.CounterVec
}

// NewPrometheus creates the graphcache counters and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		added: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "graphcache",
				Name:      "entries_added_total",
				Help:      "Cacheable nodes offered to the store, by outcome",
			},
			[]string{"cache", "result"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "graphcache",
				Name:      "lookups_total",
				Help:      "Cache reads, by outcome",
			},
			[]string{"cache", "result"},
		),
		removed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "graphcache",
				Name:      "entries_removed_total",
				Help:      "Keys removed from the store",
			},
			[]string{"cache"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{p.added, p.lookups, p.removed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) EntryAdded(cache string, stored bool) {
	result := "stored"
	if !stored {
		result = "skipped"
	}
	p.added.WithLabelValues(cache, result).Inc()
}

func (p *Prometheus) Lookup(cache string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	p.lookups.WithLabelValues(cache, result).Inc()
}

func (p *Prometheus) EntriesRemoved(cache string, n int) {
	if n <= 0 {
		return
	}
	p.removed.WithLabelValues(cache).Add(float64(n))
}

