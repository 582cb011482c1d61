package tray

// Stats aggregates the current results of a tray.
type Stats struct {
	Count int
	Sum   int
	Max   int
	Min   int
}

// Stats returns the sum, maximum and minimum of the current results. An
// empty tray reports zero for all of them.
func (t *Tray) Stats() Stats {
	return Summarize(t.Results())
}

// Summarize computes Stats over results.
func Summarize(results []int) Stats {
	if len(results) == 0 {
		return Stats{}
	}
	stats := Stats{Count: len(results), Max: results[0], Min: results[0]}
	for _, r := range results {
		stats.Sum += r
		if r > stats.Max {
			stats.Max = r
		}
		if r < stats.Min {
			stats.Min = r
		}
	}
	return stats
}
