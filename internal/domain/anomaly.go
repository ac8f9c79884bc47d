package domain

type AnomalyType string

const (
	AnomalyMissingEnd AnomalyType = "missing-end"
	AnomalyOvertime   AnomalyType = "overtime"
	AnomalyOverlap    AnomalyType = "overlap"
)

// ValidAnomalyTypes is the closed set of anomaly type strings.
var ValidAnomalyTypes = map[string]bool{
	string(AnomalyMissingEnd): true,
	string(AnomalyOvertime):   true,
	string(AnomalyOverlap):    true,
}

type Anomaly struct {
	ID        string      `json:"id"`
	Type      AnomalyType `json:"type"`
	Worker    string      `json:"worker"`
	TaskID    int64       `json:"task_id"`
	TaskTitle string      `json:"task_title"`
	Date      string      `json:"date"`
	Detail    string      `json:"detail"`
}
