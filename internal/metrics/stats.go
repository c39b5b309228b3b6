package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Stats is a point-in-time summary of the session counters
type Stats struct {
	CacheHits      float64
	CacheMisses    float64
	CacheEvictions float64
	CacheEntries   float64
	Downloads      map[string]float64 // by outcome
	BytesWritten   float64
	ListingFetches map[string]float64 // by result
	FastPath       map[string]float64 // by result
}

// Collect gathers the application metrics from g. cacheGroup selects the cache label.
func Collect(g prometheus.Gatherer, cacheGroup string) (Stats, error) {
	stats := Stats{
		Downloads:      make(map[string]float64),
		ListingFetches: make(map[string]float64),
		FastPath:       make(map[string]float64),
	}

	families, err := g.Gather()
	if err != nil {
		return stats, err
	}

	for _, mf := range families {
		switch mf.GetName() {
		case Namespace + "_cache_hits_total":
			stats.CacheHits = sumWithLabel(mf, "cache", cacheGroup)
		case Namespace + "_cache_misses_total":
			stats.CacheMisses = sumWithLabel(mf, "cache", cacheGroup)
		case Namespace + "_cache_evictions_total":
			stats.CacheEvictions = sumWithLabel(mf, "cache", cacheGroup)
		case Namespace + "_cache_entries":
			stats.CacheEntries = sumWithLabel(mf, "cache", cacheGroup)
		case Namespace + "_paper_downloads_total":
			byLabel(mf, "outcome", stats.Downloads)
		case Namespace + "_downloaded_bytes_total":
			stats.BytesWritten = sumWithLabel(mf, "", "")
		case Namespace + "_listing_fetches_total":
			byLabel(mf, "result", stats.ListingFetches)
		case Namespace + "_fast_path_total":
			byLabel(mf, "result", stats.FastPath)
		}
	}

	return stats, nil
}

func value(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}

// sumWithLabel adds up the samples carrying name=val. An empty name sums every sample.
func sumWithLabel(mf *dto.MetricFamily, name, val string) float64 {
	total := 0.0
	for _, m := range mf.GetMetric() {
		if name == "" || hasLabel(m, name, val) {
			total += value(m)
		}
	}
	return total
}

func hasLabel(m *dto.Metric, name, val string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == val {
			return true
		}
	}
	return false
}

func byLabel(mf *dto.MetricFamily, name string, into map[string]float64) {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name {
				into[lp.GetValue()] += value(m)
			}
		}
	}
}
