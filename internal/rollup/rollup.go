// Package rollup buckets rolls along the episode axis for the trend and
// radar charts.
package rollup

import "dice-analyzer/internal/dataset"

// Bucket is one (episode, roll type) cell of the dense rollup grid.
type Bucket struct {
	Episode  int    `json:"episode"`
	RollType string `json:"rollType"`
	Count    int    `json:"count"`
}

// EpisodeCount is one point of the roll-frequency series. RollingAvg is nil
// where the centered window does not fully fit.
type EpisodeCount struct {
	Episode    int      `json:"episode"`
	Count      int      `json:"count"`
	RollingAvg *float64 `json:"rollingAvg"`
}

// trendWindow is the centered rolling-average span for the frequency chart.
const trendWindow = 7

// ByEpisodeType counts rolls per (episode, roll type) over a filtered
// sequence and fills the full episodes x types grid, so consuming charts
// never need to gap-fill. Episode and type orders come from the caller
// (base-dataset episodes in range, fixed roll-type order) and determine the
// output order: ascending episode, then type.
func ByEpisodeType(filtered []dataset.Record, episodes []int, types []string) []Bucket {
	type key struct {
		episode  int
		rollType string
	}
	counts := make(map[key]int, len(filtered))
	for _, r := range filtered {
		counts[key{r.Episode, r.RollType}]++
	}

	out := make([]Bucket, 0, len(episodes)*len(types))
	for _, ep := range episodes {
		for _, rt := range types {
			out = append(out, Bucket{Episode: ep, RollType: rt, Count: counts[key{ep, rt}]})
		}
	}
	return out
}

// Frequency counts total rolls per episode over the given episode sequence
// and attaches a centered rolling average for the trend line.
func Frequency(filtered []dataset.Record, episodes []int) []EpisodeCount {
	counts := make(map[int]int, len(episodes))
	for _, r := range filtered {
		counts[r.Episode]++
	}

	out := make([]EpisodeCount, len(episodes))
	for i, ep := range episodes {
		out[i] = EpisodeCount{Episode: ep, Count: counts[ep]}
	}

	half := trendWindow / 2
	for i := range out {
		if i < half || i+half >= len(out) {
			continue
		}
		sum := 0
		for j := i - half; j <= i+half; j++ {
			sum += out[j].Count
		}
		avg := float64(sum) / float64(trendWindow)
		out[i].RollingAvg = &avg
	}
	return out
}
