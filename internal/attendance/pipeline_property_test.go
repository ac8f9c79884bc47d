package attendance

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propertyWorkers = []string{"Alice", "Bob", "alicia", "Dana", domain.UnassignedWorker}

// randomSessions builds sessions on a handful of days with quarter-hour
// durations so sums are exact in binary floating point.
func randomSessions(rng *rand.Rand, n int) []domain.Session {
	base := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	sessions := make([]domain.Session, n)
	for i := range sessions {
		start := base.AddDate(0, 0, rng.Intn(4)).Add(time.Duration(rng.Intn(48)) * 15 * time.Minute)
		s := domain.Session{
			TaskID:    int64(rng.Intn(6) + 1),
			Worker:    propertyWorkers[rng.Intn(len(propertyWorkers))],
			WorkHours: float64(rng.Intn(56)) / 4,
		}
		s.TaskTitle = fmt.Sprintf("task-%d", s.TaskID)
		switch rng.Intn(5) {
		case 0: // open
			s.StartTime = &start
		case 1: // end only
			end := start.Add(time.Hour)
			s.EndTime = &end
		default:
			end := start.Add(time.Duration(rng.Intn(24)+1) * 15 * time.Minute)
			s.StartTime = &start
			s.EndTime = &end
		}
		s.Date = DayKey(s.Anchor(), time.UTC)
		sessions[i] = s
	}
	return sessions
}

func shuffled(rng *rand.Rand, sessions []domain.Session) []domain.Session {
	out := append([]domain.Session(nil), sessions...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestSummarize_SumInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		sessions := randomSessions(rng, rng.Intn(30)+1)
		summaries := Summarize(sessions)

		for _, sum := range summaries {
			var want float64
			tasks := map[int64]bool{}
			for _, s := range sessions {
				if s.Date == sum.Date && s.Worker == sum.Worker {
					want += s.WorkHours
					tasks[s.TaskID] = true
				}
			}
			assert.Equal(t, RoundHours(want), sum.TotalHours, "trial %d: %s/%s", trial, sum.Date, sum.Worker)
			assert.Equal(t, len(tasks), sum.TaskCount, "trial %d: %s/%s", trial, sum.Date, sum.Worker)
		}
	}
}

func TestDetect_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 100; trial++ {
		sessions := randomSessions(rng, rng.Intn(30)+1)
		first := Detect(sessions, now, DefaultRules())
		second := Detect(sessions, now, DefaultRules())
		assert.Equal(t, first, second, "trial %d", trial)
	}
}

func TestPipeline_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 200; trial++ {
		sessions := randomSessions(rng, rng.Intn(30)+1)
		mixed := shuffled(rng, sessions)

		assert.Equal(t, Summarize(sessions), Summarize(mixed), "trial %d: summaries", trial)
		assert.Equal(t, anomalyIDs(Detect(sessions, now, DefaultRules())),
			anomalyIDs(Detect(mixed, now, DefaultRules())), "trial %d: anomalies", trial)
	}
}

func TestAssemble_FilterConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	keywords := []string{"", "ali", "B", "xyz", "un"}
	days := []string{"", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}

	for trial := 0; trial < 200; trial++ {
		sessions := randomSessions(rng, rng.Intn(30)+1)
		filters := Filters{
			DateFrom:      days[rng.Intn(len(days))],
			DateTo:        days[rng.Intn(len(days))],
			WorkerKeyword: keywords[rng.Intn(len(keywords))],
		}

		report := Assemble(sessions, Summarize(sessions), Detect(sessions, now, DefaultRules()), filters, Order{})

		summaryWorkers := map[string]bool{}
		for _, s := range report.Summaries {
			summaryWorkers[s.Worker] = true
			assert.True(t, filters.Match(s.Date, s.Worker))
		}
		sessionWorkers := map[string]bool{}
		for _, s := range report.Sessions {
			sessionWorkers[s.Worker] = true
		}
		for _, a := range report.Anomalies {
			assert.True(t, sessionWorkers[a.Worker], "trial %d: anomaly worker %q has no sessions", trial, a.Worker)
		}
		totalWorkers := map[string]bool{}
		for _, wt := range report.WorkerTotals {
			totalWorkers[wt.Worker] = true
		}
		assert.Equal(t, sessionWorkers, summaryWorkers, "trial %d", trial)
		assert.Equal(t, sessionWorkers, totalWorkers, "trial %d", trial)
	}
}

func TestBuild_FilteredTotalsMatchSummaries(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		sessions := randomSessions(rng, rng.Intn(30)+1)
		report := Assemble(sessions, Summarize(sessions), nil, Filters{WorkerKeyword: "a"}, Order{})

		byWorker := map[string]float64{}
		for _, s := range report.Summaries {
			byWorker[s.Worker] += s.TotalHours
		}
		for _, wt := range report.WorkerTotals {
			assert.InDelta(t, byWorker[wt.Worker], wt.TotalHours, 0.001, "trial %d: %s", trial, wt.Worker)
		}
	}
}

func anomalyIDs(anomalies []domain.Anomaly) []string {
	ids := make([]string, len(anomalies))
	for i, a := range anomalies {
		ids[i] = a.ID
	}
	sort.Strings(ids)
	return ids
}

func TestSummarize_DefaultOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	summaries := Summarize(randomSessions(rng, 40))
	require.NotEmpty(t, summaries)

	for i := 1; i < len(summaries); i++ {
		prev, cur := summaries[i-1], summaries[i]
		if prev.Date == cur.Date {
			assert.Less(t, prev.Worker, cur.Worker)
		} else {
			assert.Greater(t, prev.Date, cur.Date)
		}
	}
}
