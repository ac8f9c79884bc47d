package attendance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/google/uuid"
)

// Rules holds the anomaly thresholds. Zero fields fall back to DefaultRules.
type Rules struct {
	// MissingEndAfter is how long a session may stay open before it is flagged.
	MissingEndAfter time.Duration
	// OvertimeHours is the longest single session that is not flagged.
	OvertimeHours float64
}

func DefaultRules() Rules {
	return Rules{
		MissingEndAfter: 12 * time.Hour,
		OvertimeHours:   10,
	}
}

func (r Rules) withDefaults() Rules {
	def := DefaultRules()
	if r.MissingEndAfter <= 0 {
		r.MissingEndAfter = def.MissingEndAfter
	}
	if r.OvertimeHours <= 0 {
		r.OvertimeHours = def.OvertimeHours
	}
	return r
}

// anomalyNamespace seeds the name-based anomaly IDs.
var anomalyNamespace = uuid.MustParse("6f1c2a4e-3b7d-4c59-9e0a-8d2f5b6c7a10")

// Detect applies the missing-end, overtime and overlap rules to sessions.
// It is a pure function of its arguments: the same sessions and now always
// give the same anomalies in the same order, whatever the input order.
func Detect(sessions []domain.Session, now time.Time, rules Rules) []domain.Anomaly {
	rules = rules.withDefaults()

	var anomalies []domain.Anomaly
	for _, s := range sessions {
		if a, ok := detectMissingEnd(s, now, rules); ok {
			anomalies = append(anomalies, a)
		}
		if a, ok := detectOvertime(s, rules); ok {
			anomalies = append(anomalies, a)
		}
	}
	anomalies = append(anomalies, detectOverlaps(sessions)...)

	SortAnomalies(anomalies)
	return anomalies
}

func detectMissingEnd(s domain.Session, now time.Time, rules Rules) (domain.Anomaly, bool) {
	if s.StartTime == nil || s.EndTime != nil {
		return domain.Anomaly{}, false
	}
	if now.Sub(*s.StartTime) <= rules.MissingEndAfter {
		return domain.Anomaly{}, false
	}
	detail := fmt.Sprintf("open for more than %s hours", formatNumber(rules.MissingEndAfter.Hours()))
	return newAnomaly(domain.AnomalyMissingEnd, s, detail), true
}

func detectOvertime(s domain.Session, rules Rules) (domain.Anomaly, bool) {
	if s.WorkHours <= rules.OvertimeHours {
		return domain.Anomaly{}, false
	}
	detail := fmt.Sprintf("logged %.2f hours in one session (limit %s)", s.WorkHours, formatNumber(rules.OvertimeHours))
	return newAnomaly(domain.AnomalyOvertime, s, detail), true
}

// detectOverlaps compares neighbours in each (worker, date) partition sorted
// by start. A session that starts exactly when the previous one ends does not
// overlap it. Sessions missing an end, or ending before they start, do not
// describe an interval and are left out.
func detectOverlaps(sessions []domain.Session) []domain.Anomaly {
	partitions := make(map[dayWorkerKey][]domain.Session)
	for _, s := range sessions {
		if !s.HasInterval() || s.EndTime.Before(*s.StartTime) {
			continue
		}
		key := dayWorkerKey{date: s.Date, worker: s.Worker}
		partitions[key] = append(partitions[key], s)
	}

	var anomalies []domain.Anomaly
	for _, group := range partitions {
		sort.Slice(group, func(i, j int) bool {
			return intervalLess(group[i], group[j])
		})
		for i := 1; i < len(group); i++ {
			prev, cur := group[i-1], group[i]
			if !cur.StartTime.Before(*prev.EndTime) {
				continue
			}
			detail := fmt.Sprintf("%q (from %s) overlaps %q (until %s)",
				cur.TaskTitle, cur.StartTime.Format("15:04"),
				prev.TaskTitle, prev.EndTime.Format("15:04"))
			anomalies = append(anomalies, newAnomaly(domain.AnomalyOverlap, cur, detail))
		}
	}
	return anomalies
}

func intervalLess(a, b domain.Session) bool {
	if !a.StartTime.Equal(*b.StartTime) {
		return a.StartTime.Before(*b.StartTime)
	}
	if !a.EndTime.Equal(*b.EndTime) {
		return a.EndTime.Before(*b.EndTime)
	}
	if a.TaskID != b.TaskID {
		return a.TaskID < b.TaskID
	}
	return a.TaskTitle < b.TaskTitle
}

func newAnomaly(kind domain.AnomalyType, s domain.Session, detail string) domain.Anomaly {
	return domain.Anomaly{
		ID:        AnomalyID(kind, s.TaskID, s.Worker, s.Anchor()),
		Type:      kind,
		Worker:    s.Worker,
		TaskID:    s.TaskID,
		TaskTitle: s.TaskTitle,
		Date:      s.Date,
		Detail:    detail,
	}
}

// AnomalyID derives a stable identifier from the anomaly type, the task,
// the worker and the anchoring timestamp.
func AnomalyID(kind domain.AnomalyType, taskID int64, worker string, anchor time.Time) string {
	name := strings.Join([]string{
		string(kind),
		strconv.FormatInt(taskID, 10),
		worker,
		anchor.UTC().Format(time.RFC3339Nano),
	}, "|")
	return uuid.NewSHA1(anomalyNamespace, []byte(name)).String()
}

// SortAnomalies orders anomalies newest day first, then by worker, type,
// task title and ID.
func SortAnomalies(anomalies []domain.Anomaly) {
	sort.Slice(anomalies, func(i, j int) bool {
		a, b := anomalies[i], anomalies[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Worker != b.Worker {
			return a.Worker < b.Worker
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.TaskTitle != b.TaskTitle {
			return a.TaskTitle < b.TaskTitle
		}
		return a.ID < b.ID
	})
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
