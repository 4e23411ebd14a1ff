package poker

import (
	"math"
	"sort"
	"strconv"
)

type Stats struct {
	Average        *float64 `json:"average"`
	Median         *float64 `json:"median"`
	Recommendation *int     `json:"recommendation"`
	HasCoffee      bool     `json:"hasCoffee"`
	NumericCount   int      `json:"numericCount"`
}

// CalculateStats aggregates revealed vote values. Coffee votes only set
// HasCoffee; with no numeric votes the aggregates stay nil. The
// recommendation is the Fibonacci card closest to the unrounded median,
// scanning the set ascending so ties resolve to the smaller card.
func CalculateStats(values []string) Stats {
	var numeric []int
	stats := Stats{}
	for _, v := range values {
		if v == CoffeeValue {
			stats.HasCoffee = true
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		numeric = append(numeric, n)
	}
	stats.NumericCount = len(numeric)
	if len(numeric) == 0 {
		return stats
	}
	sort.Ints(numeric)

	sum := 0
	for _, n := range numeric {
		sum += n
	}
	average := round2(float64(sum) / float64(len(numeric)))

	var median float64
	if len(numeric)%2 == 0 {
		median = float64(numeric[len(numeric)/2-1]+numeric[len(numeric)/2]) / 2
	} else {
		median = float64(numeric[len(numeric)/2])
	}

	recommendation := 0
	minDiff := math.Inf(1)
	for _, raw := range FibonacciValues {
		fib, _ := strconv.Atoi(raw)
		if diff := math.Abs(median - float64(fib)); diff < minDiff {
			minDiff = diff
			recommendation = fib
		}
	}

	roundedMedian := round2(median)
	stats.Average = &average
	stats.Median = &roundedMedian
	stats.Recommendation = &recommendation
	return stats
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
