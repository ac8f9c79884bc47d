package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/attendance/internal/domain"
)

// Filters narrows a report. Empty fields do not filter.
type Filters struct {
	DateFrom      string `json:"date_from,omitempty"`
	DateTo        string `json:"date_to,omitempty"`
	WorkerKeyword string `json:"worker,omitempty"`
}

func (f Filters) IsZero() bool {
	return f.DateFrom == "" && f.DateTo == "" && strings.TrimSpace(f.WorkerKeyword) == ""
}

// Validate rejects date keys that are not YYYY-MM-DD and ranges that end
// before they start.
func (f Filters) Validate() error {
	if f.DateFrom != "" && !ValidDayKey(f.DateFrom) {
		return fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", f.DateFrom)
	}
	if f.DateTo != "" && !ValidDayKey(f.DateTo) {
		return fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", f.DateTo)
	}
	if f.DateFrom != "" && f.DateTo != "" && f.DateTo < f.DateFrom {
		return fmt.Errorf("to date %s cannot be before from date %s", f.DateTo, f.DateFrom)
	}
	return nil
}

// Match is the single predicate shared by summaries, anomalies and sessions.
// Date bounds are inclusive; the worker keyword is a case-insensitive
// substring.
func (f Filters) Match(date, worker string) bool {
	if f.DateFrom != "" && date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && date > f.DateTo {
		return false
	}
	kw := strings.ToLower(strings.TrimSpace(f.WorkerKeyword))
	if kw != "" && !strings.Contains(strings.ToLower(worker), kw) {
		return false
	}
	return true
}

type SortField string

const (
	SortByDate   SortField = "date"
	SortByWorker SortField = "worker"
	SortByHours  SortField = "hours"
	SortByTasks  SortField = "tasks"
)

// SortFields lists the accepted sort keys in display order.
var SortFields = []SortField{SortByDate, SortByWorker, SortByHours, SortByTasks}

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SortByDate, nil
	case SortByDate, SortByWorker, SortByHours, SortByTasks:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q (want date, worker, hours or tasks)", s)
	}
}

// Order selects the summary sort. The zero Order is newest day first, then
// worker name.
type Order struct {
	Field SortField `json:"field,omitempty"`
	Desc  bool      `json:"desc,omitempty"`
}

// SortSummaries sorts in place. Ties always fall back to date descending and
// worker ascending so the output is total.
func SortSummaries(summaries []domain.DailySummary, order Order) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if c := compareSummaryField(a, b, order); c != 0 {
			return c < 0
		}
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.Worker < b.Worker
	})
}

func compareSummaryField(a, b domain.DailySummary, order Order) int {
	var c int
	switch order.Field {
	case SortByWorker:
		c = strings.Compare(a.Worker, b.Worker)
	case SortByHours:
		c = compareFloat(a.TotalHours, b.TotalHours)
	case SortByTasks:
		c = a.TaskCount - b.TaskCount
	default:
		// Dates run newest first unless Desc flips them.
		c = strings.Compare(b.Date, a.Date)
	}
	if order.Desc {
		c = -c
	}
	return c
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortSessions orders the ledger newest day first, then worker, then start
// time, then task id.
func SortSessions(sessions []domain.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Worker != b.Worker {
			return a.Worker < b.Worker
		}
		if at, bt := a.Anchor(), b.Anchor(); !at.Equal(bt) {
			return at.Before(bt)
		}
		return a.TaskID < b.TaskID
	})
}

// FilterSessions returns the sessions matching f, in input order.
func FilterSessions(sessions []domain.Session, f Filters) []domain.Session {
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Match(s.Date, s.Worker) {
			out = append(out, s)
		}
	}
	return out
}

type Report struct {
	Summaries    []domain.DailySummary `json:"summaries"`
	Anomalies    []domain.Anomaly      `json:"anomalies"`
	Sessions     []domain.Session      `json:"sessions"`
	WorkerTotals []domain.WorkerTotal  `json:"worker_totals"`
	// Skipped counts raw entries Build dropped for lacking a usable timestamp.
	Skipped int `json:"skipped_entries"`
}

// Assemble applies one filter predicate to summaries, anomalies and sessions
// and orders each list. Inputs are not modified.
func Assemble(sessions []domain.Session, summaries []domain.DailySummary, anomalies []domain.Anomaly, filters Filters, order Order) Report {
	r := Report{
		Summaries:    make([]domain.DailySummary, 0, len(summaries)),
		Anomalies:    make([]domain.Anomaly, 0, len(anomalies)),
		Sessions:     FilterSessions(sessions, filters),
		WorkerTotals: []domain.WorkerTotal{},
	}
	for _, s := range summaries {
		if filters.Match(s.Date, s.Worker) {
			r.Summaries = append(r.Summaries, s)
		}
	}
	for _, a := range anomalies {
		if filters.Match(a.Date, a.Worker) {
			r.Anomalies = append(r.Anomalies, a)
		}
	}

	SortSummaries(r.Summaries, order)
	SortAnomalies(r.Anomalies)
	SortSessions(r.Sessions)
	if totals := TotalsByWorker(r.Sessions); len(totals) > 0 {
		r.WorkerTotals = totals
	}
	return r
}

type BuildOptions struct {
	Now      time.Time
	Location *time.Location
	Rules    Rules
	Filters  Filters
	Order    Order
}

// Build runs the whole pipeline on raw tasks. Filtering happens before
// aggregation and detection so every list covers the same sessions.
func Build(tasks []domain.Task, opts BuildOptions) Report {
	all := Normalize(tasks, opts.Location)
	sessions := FilterSessions(all, opts.Filters)
	summaries := Summarize(sessions)
	anomalies := Detect(sessions, opts.Now, opts.Rules)
	r := Assemble(sessions, summaries, anomalies, opts.Filters, opts.Order)
	r.Skipped = CountEntries(tasks) - len(all)
	return r
}
