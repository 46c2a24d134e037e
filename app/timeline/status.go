package timeline

import (
	"math"
	"strings"

	"github.com/framboises/cockpit/app/models"
)

// Status is the preparation state shown on a vignette. The first three
// values can be persisted (base status); done and late only ever result
// from combining a base status with the current instant.
type Status string

const (
	StatusNone     Status = "none"
	StatusProgress Status = "progress"
	StatusReady    Status = "ready"
	StatusDone     Status = "done"
	StatusLate     Status = "late"
)

// statusRank orders statuses by severity for cluster aggregation; the
// worst member wins.
var statusRank = map[Status]int{
	StatusDone:     1,
	StatusReady:    2,
	StatusProgress: 3,
	StatusNone:     4,
	StatusLate:     5,
}

var statusLabels = map[Status]string{
	StatusNone:     "Non",
	StatusProgress: "En cours",
	StatusReady:    "Prête",
	StatusLate:     "En retard",
	StatusDone:     "Terminé",
}

// Label returns the French display label for a status.
func Label(s Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// BaseStatus resolves the persisted preparation state of an event. An
// explicit preparation_checked value wins; otherwise the status is
// inferred from checklist completion. ok is false when neither source
// gives a signal (no explicit field, zero tasks).
func BaseStatus(e models.TimetableEvent) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(e.Preparation)) {
	case "true":
		return StatusReady, true
	case "progress":
		return StatusProgress, true
	case "false", "no", "non", "pending":
		return StatusNone, true
	}
	return TodoCompletionStatus(ParseTodo(e.Todo))
}

// DisplayStatus derives the live status of an event against the current
// instant. eventDate and nowDate are ISO "YYYY-MM-DD" strings (their
// lexicographic order is chronological); nowMinute is the wall-clock
// minute of the current day.
//
// Events without any checklist flip straight to done once their due time
// has passed: there was nothing to prepare. Everything else turns done
// (when ready) or late (when not) after its reference time.
func DisplayStatus(e models.TimetableEvent, eventDate, nowDate string, nowMinute float64) Status {
	base, hasBase := BaseStatus(e)

	if len(ParseTodo(e.Todo)) == 0 {
		due := math.Inf(1)
		if IsValidClockString(e.End) {
			due = TimeToMinutes(e.End)
		} else if IsValidClockString(e.Start) {
			due = TimeToMinutes(e.Start)
		}
		if eventDate < nowDate || (eventDate == nowDate && nowMinute >= due) {
			return StatusDone
		}
	}

	if eventDate < nowDate {
		switch base {
		case StatusReady:
			return StatusDone
		case StatusProgress, StatusNone:
			return StatusLate
		default:
			return base
		}
	}

	if eventDate > nowDate {
		if !hasBase {
			return StatusNone
		}
		return base
	}

	ref := math.Inf(1)
	if IsValidClockString(e.Start) {
		ref = TimeToMinutes(e.Start)
	} else if IsValidClockString(e.End) {
		ref = TimeToMinutes(e.End)
	}
	if nowMinute >= ref {
		switch base {
		case StatusReady:
			return StatusDone
		case StatusProgress, StatusNone:
			return StatusLate
		default:
			return base
		}
	}
	if !hasBase {
		return StatusNone
	}
	return base
}

// ClusterDisplayStatus aggregates the display statuses of a cluster's
// members into the most severe one. ok is false for an empty cluster.
func ClusterDisplayStatus(c Cluster, dateISO, nowDate string, nowMinute float64) (Status, bool) {
	if len(c.Items) == 0 {
		return "", false
	}
	var worst Status
	rank := 0
	for _, item := range c.Items {
		s := DisplayStatus(item, dateISO, nowDate, nowMinute)
		if s == StatusLate {
			return StatusLate, true
		}
		if r := statusRank[s]; r > rank {
			rank = r
			worst = s
		}
	}
	return worst, true
}
