package timeline

import (
	"testing"

	"github.com/framboises/cockpit/app/models"
)

const (
	yesterday = "2026-06-12"
	today     = "2026-06-13"
	tomorrow  = "2026-06-14"
)

func TestBaseStatus(t *testing.T) {
	tests := []struct {
		name    string
		ev      models.TimetableEvent
		want    Status
		wantSet bool
	}{
		{"explicit true", models.TimetableEvent{Preparation: "true"}, StatusReady, true},
		{"explicit TRUE", models.TimetableEvent{Preparation: " TRUE "}, StatusReady, true},
		{"explicit progress", models.TimetableEvent{Preparation: "progress"}, StatusProgress, true},
		{"explicit false", models.TimetableEvent{Preparation: "false"}, StatusNone, true},
		{"explicit non", models.TimetableEvent{Preparation: "non"}, StatusNone, true},
		{"explicit pending", models.TimetableEvent{Preparation: "pending"}, StatusNone, true},
		{"todo all done", models.TimetableEvent{Todo: "- [x] A"}, StatusReady, true},
		{"todo partial", models.TimetableEvent{Todo: "- [x] A\n- [ ] B"}, StatusProgress, true},
		{"todo none done", models.TimetableEvent{Todo: "- [ ] A"}, StatusNone, true},
		{"unknown token falls back to todo", models.TimetableEvent{Preparation: "maybe", Todo: "- [x] A"}, StatusReady, true},
		{"unset", models.TimetableEvent{}, StatusNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BaseStatus(tt.ev)
			if ok != tt.wantSet || (ok && got != tt.want) {
				t.Errorf("BaseStatus = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantSet)
			}
		})
	}
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name      string
		ev        models.TimetableEvent
		eventDate string
		nowMinute float64
		want      Status
	}{
		{
			"progress before start stays progress",
			models.TimetableEvent{Start: "08:00", End: "TBC", Todo: "- [x] A\n- [ ] B"},
			today, 479, StatusProgress,
		},
		{
			"progress after start turns late",
			models.TimetableEvent{Start: "08:00", End: "TBC", Todo: "- [x] A\n- [ ] B"},
			today, 481, StatusLate,
		},
		{
			"ready before start passes through",
			models.TimetableEvent{Start: "10:00", Preparation: "true"},
			today, 500, StatusReady,
		},
		{
			"ready after start turns done",
			models.TimetableEvent{Start: "10:00", Preparation: "true", Todo: "- [ ] A"},
			today, 601, StatusDone,
		},
		{
			"no tasks past due is done regardless of base",
			models.TimetableEvent{Start: "08:00", End: "09:00"},
			today, 545, StatusDone,
		},
		{
			"no tasks before due keeps base",
			models.TimetableEvent{Start: "08:00", End: "09:00", Preparation: "progress"},
			today, 400, StatusProgress,
		},
		{
			"no tasks unset before due defaults none",
			models.TimetableEvent{Start: "12:00"},
			today, 400, StatusNone,
		},
		{
			"past date ready collapses to done",
			models.TimetableEvent{Start: "08:00", Preparation: "true", Todo: "- [ ] A"},
			yesterday, 0, StatusDone,
		},
		{
			"past date progress collapses to late",
			models.TimetableEvent{Start: "08:00", Todo: "- [x] A\n- [ ] B"},
			yesterday, 0, StatusLate,
		},
		{
			"past date no tasks is done",
			models.TimetableEvent{Start: "08:00"},
			yesterday, 0, StatusDone,
		},
		{
			"future date passes base through",
			models.TimetableEvent{Start: "08:00", Todo: "- [x] A\n- [ ] B"},
			tomorrow, 1200, StatusProgress,
		},
		{
			"future date unset defaults none",
			models.TimetableEvent{Start: "08:00", Todo: "- [ ] A"},
			tomorrow, 1200, StatusNone,
		},
		{
			"same day no valid time never flips",
			models.TimetableEvent{Start: "TBC", End: "", Todo: "- [ ] A"},
			today, 1439, StatusNone,
		},
		{
			"ref falls back to end when start unconfirmed",
			models.TimetableEvent{Start: "TBC", End: "09:00", Todo: "- [ ] A"},
			today, 545, StatusLate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayStatus(tt.ev, tt.eventDate, today, tt.nowMinute)
			if got != tt.want {
				t.Errorf("DisplayStatus = %v, want %v", got, tt.want)
			}
		})
	}
}

// A ready event scheduled today at T reads ready strictly before T and
// done from T on; advancing the clock never reverts it.
func TestDisplayStatusMonotonicUnderTimeAdvance(t *testing.T) {
	ev := models.TimetableEvent{Start: "14:00", Preparation: "true", Todo: "- [ ] x"}
	seenDone := false
	for minute := 830.0; minute <= 850; minute++ {
		got := DisplayStatus(ev, today, today, minute)
		switch {
		case minute < 840:
			if got != StatusReady {
				t.Fatalf("minute %v: got %v, want ready", minute, got)
			}
		default:
			if got != StatusDone {
				t.Fatalf("minute %v: got %v, want done", minute, got)
			}
			seenDone = true
		}
		if seenDone && got != StatusDone {
			t.Fatalf("status reverted at minute %v", minute)
		}
	}
}

// Any event dated strictly before today must read done or late.
func TestPastDateCollapse(t *testing.T) {
	events := []models.TimetableEvent{
		{Start: "08:00"},
		{Start: "08:00", Preparation: "true"},
		{Start: "08:00", Preparation: "progress", Todo: "- [ ] A"},
		{Todo: "- [x] A"},
		{Start: "TBC", Todo: "- [ ] A\n- [x] B"},
		{Preparation: "false", Todo: "- [ ] A"},
	}
	for i, ev := range events {
		got := DisplayStatus(ev, yesterday, today, 0)
		if got != StatusDone && got != StatusLate {
			t.Errorf("event %d: got %v, want done or late", i, got)
		}
	}
}

func TestClusterDisplayStatus(t *testing.T) {
	mk := func(prep, todo string) models.TimetableEvent {
		ev := models.TimetableEvent{Start: "18:00", Activity: "Ouverture Porte", Category: "Porte"}
		ev.Preparation = prep
		if todo != "" {
			ev.Todo = todo
		}
		return ev
	}

	t.Run("worst member wins", func(t *testing.T) {
		c := Cluster{Items: []models.TimetableEvent{
			mk("true", "- [ ] x"),
			mk("progress", "- [ ] x"),
		}}
		got, ok := ClusterDisplayStatus(c, today, today, 600)
		if !ok || got != StatusProgress {
			t.Errorf("got (%v, %v), want (progress, true)", got, ok)
		}
	})

	t.Run("late dominates", func(t *testing.T) {
		c := Cluster{Items: []models.TimetableEvent{
			mk("true", "- [ ] x"),
			mk("", "- [ ] x"), // past its start, unset base -> late
		}}
		got, ok := ClusterDisplayStatus(c, today, today, 1100)
		if !ok || got != StatusLate {
			t.Errorf("got (%v, %v), want (late, true)", got, ok)
		}
	})

	t.Run("empty cluster has no status", func(t *testing.T) {
		if _, ok := ClusterDisplayStatus(Cluster{}, today, today, 0); ok {
			t.Error("expected no status for empty cluster")
		}
	})
}

func TestLabels(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusNone, "Non"},
		{StatusProgress, "En cours"},
		{StatusReady, "Prête"},
		{StatusLate, "En retard"},
		{StatusDone, "Terminé"},
	}
	for _, tt := range tests {
		if got := Label(tt.s); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
