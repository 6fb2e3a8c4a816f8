// Package statistics accumulates per-seat results across simulated hands.
package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// HandResult is one seat's outcome for a single hand
type HandResult struct {
	NetBB    float64 // chips won or lost, in big blinds
	Showdown bool    // hand was decided by comparing cards
	Won      bool
	Sat      bool // seat had no chips and sat out
}

// Statistics tracks one seat's results
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares for variance
	Values []float64 // kept for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	SatOut          int

	BestBB  float64
	WorstBB float64
}

// Mean returns big blinds won per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates one hand. Hands spent sitting out are counted but
// contribute nothing to the win rate.
func (s *Statistics) Add(r HandResult) {
	if r.Sat {
		s.SatOut++
		return
	}
	if s.Hands == 0 {
		s.BestBB, s.WorstBB = r.NetBB, r.NetBB
	}
	s.Hands++
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB
	s.Values = append(s.Values, r.NetBB)
	s.BestBB = max(s.BestBB, r.NetBB)
	s.WorstBB = min(s.WorstBB, r.NetBB)

	if r.Won {
		if r.Showdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if r.Showdown {
		s.ShowdownBB += r.NetBB
	} else {
		s.NonShowdownBB += r.NetBB
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	if other.Hands > 0 {
		if s.Hands == 0 {
			s.BestBB, s.WorstBB = other.BestBB, other.WorstBB
		}
		s.BestBB = max(s.BestBB, other.BestBB)
		s.WorstBB = min(s.WorstBB, other.WorstBB)
	}
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.SatOut += other.SatOut
}

// Median returns the median result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p in [0, 1]
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the accounting is internally consistent
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f, showdown=%.6f, non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length %d does not match hands %d", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins %d exceed hands %d", wins, s.Hands)
	}
	return nil
}

// Table keys statistics by seat name
type Table struct {
	seats map[string]*Statistics
}

func NewTable() *Table {
	return &Table{seats: make(map[string]*Statistics)}
}

func (t *Table) Add(name string, r HandResult) {
	t.Seat(name).Add(r)
}

// Seat returns the statistics for name, creating them if needed
func (t *Table) Seat(name string) *Statistics {
	s, ok := t.seats[name]
	if !ok {
		s = &Statistics{}
		t.seats[name] = s
	}
	return s
}

func (t *Table) Merge(other *Table) {
	for name, s := range other.seats {
		t.Seat(name).Merge(s)
	}
}

// Names returns seat names ordered by win rate, best first
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.seats))
	for name := range t.seats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		mi, mj := t.seats[names[i]].Mean(), t.seats[names[j]].Mean()
		if mi != mj {
			return mi > mj
		}
		return names[i] < names[j]
	})
	return names
}

// NetBB is the sum of every seat's results and is zero when chips are
// conserved
func (t *Table) NetBB() float64 {
	total := 0.0
	for _, s := range t.seats {
		total += s.SumBB
	}
	return total
}
