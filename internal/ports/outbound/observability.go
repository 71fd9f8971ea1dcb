package outbound

import "time"

// DiscoveryMetrics records search and enrichment outcomes.
type DiscoveryMetrics interface {
	ObserveSearch(outcome string, candidates int, elapsed time.Duration)
	ObserveEnrichment(source, outcome string)
}

// NopDiscoveryMetrics discards all observations.
type NopDiscoveryMetrics struct{}

func (NopDiscoveryMetrics) ObserveSearch(string, int, time.Duration) {}
func (NopDiscoveryMetrics) ObserveEnrichment(string, string)         {}
