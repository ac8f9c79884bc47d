package attendance

import (
	"math"
	"sort"

	"github.com/alexanderramin/attendance/internal/domain"
)

type dayWorkerKey struct {
	date   string
	worker string
}

type hoursGroup struct {
	hours []float64
	tasks map[int64]struct{}
	days  map[string]struct{}
}

func newHoursGroup() *hoursGroup {
	return &hoursGroup{
		tasks: make(map[int64]struct{}),
		days:  make(map[string]struct{}),
	}
}

func (g *hoursGroup) add(s domain.Session) {
	g.hours = append(g.hours, s.WorkHours)
	g.tasks[s.TaskID] = struct{}{}
	g.days[s.Date] = struct{}{}
}

// total sums in ascending order so the float result does not depend on the
// order sessions arrived in.
func (g *hoursGroup) total() float64 {
	sort.Float64s(g.hours)
	var sum float64
	for _, h := range g.hours {
		sum += h
	}
	return RoundHours(sum)
}

// Summarize groups sessions by (date, worker). Totals are rounded to two
// decimals; TaskCount counts distinct tasks. The result is in the default
// order: newest day first, then worker name.
func Summarize(sessions []domain.Session) []domain.DailySummary {
	groups := make(map[dayWorkerKey]*hoursGroup)
	for _, s := range sessions {
		key := dayWorkerKey{date: s.Date, worker: s.Worker}
		g, ok := groups[key]
		if !ok {
			g = newHoursGroup()
			groups[key] = g
		}
		g.add(s)
	}

	summaries := make([]domain.DailySummary, 0, len(groups))
	for key, g := range groups {
		summaries = append(summaries, domain.DailySummary{
			Date:       key.date,
			Worker:     key.worker,
			TotalHours: g.total(),
			TaskCount:  len(g.tasks),
		})
	}

	SortSummaries(summaries, Order{})
	return summaries
}

// TotalsByWorker aggregates sessions per worker across all days, sorted by
// worker name.
func TotalsByWorker(sessions []domain.Session) []domain.WorkerTotal {
	groups := make(map[string]*hoursGroup)
	for _, s := range sessions {
		g, ok := groups[s.Worker]
		if !ok {
			g = newHoursGroup()
			groups[s.Worker] = g
		}
		g.add(s)
	}

	totals := make([]domain.WorkerTotal, 0, len(groups))
	for worker, g := range groups {
		totals = append(totals, domain.WorkerTotal{
			Worker:     worker,
			TotalHours: g.total(),
			Days:       len(g.days),
			TaskCount:  len(g.tasks),
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Worker < totals[j].Worker
	})
	return totals
}

// RoundHours rounds h to two decimals, halves away from zero.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
