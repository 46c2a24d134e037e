package timeline

import (
	"math"
	"testing"

	"github.com/framboises/cockpit/app/models"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"08:05", 485},
		{"00:00", 0},
		{"23:59", 1439},
		{"07:00", 420},
		{"TBC", math.Inf(1)},
		{"tbc", math.Inf(1)},
		{" TBC ", math.Inf(1)},
		{"", math.Inf(1)},
		{"   ", math.Inf(1)},
		{"8h30", math.Inf(1)},
		{"ab:cd", math.Inf(1)},
	}
	for _, tt := range tests {
		if got := TimeToMinutes(tt.in); got != tt.want {
			t.Errorf("TimeToMinutes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidClockString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"TBC", false},
		{"tbc", false},
		{"", false},
		{"  ", false},
		{" 08:00 ", true},
	}
	for _, tt := range tests {
		if got := IsValidClockString(tt.in); got != tt.want {
			t.Errorf("IsValidClockString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassifyOpenClose(t *testing.T) {
	tests := []struct {
		name string
		ev   models.TimetableEvent
		want string
	}{
		{"french opening", models.TimetableEvent{Activity: "Ouverture Porte Nord"}, KindOpen},
		{"french closing", models.TimetableEvent{Activity: "Fermeture Parking Bleu"}, KindClose},
		{"accented closing", models.TimetableEvent{Activity: "Fermée au public", Category: "Porte"}, KindClose},
		{"english opening", models.TimetableEvent{Activity: "Gate opening"}, KindOpen},
		{"ambiguous", models.TimetableEvent{Activity: "Contrôle"}, ""},
		{"both families", models.TimetableEvent{Activity: "Ouverture et fermeture"}, ""},
		{"empty", models.TimetableEvent{}, ""},
		{"keyword in category", models.TimetableEvent{Category: "Ouverture"}, KindOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOpenClose(tt.ev); got != tt.want {
				t.Errorf("ClassifyOpenClose = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifySemanticType(t *testing.T) {
	tests := []struct {
		name string
		ev   models.TimetableEvent
		want string
	}{
		{"gate", models.TimetableEvent{Category: "Porte Nord", Activity: "Ouverture"}, TypeGates},
		{"parking", models.TimetableEvent{Activity: "Ouverture Parking Bleu Nord"}, TypeParkings},
		{"camping", models.TimetableEvent{Activity: "Fermeture Camping Houx"}, TypeCampings},
		{"reception area", models.TimetableEvent{Place: "Accueil"}, TypeCampings},
		{"none", models.TimetableEvent{Activity: "Briefing sécurité"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySemanticType(tt.ev); got != tt.want {
				t.Errorf("ClassifySemanticType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortMinute(t *testing.T) {
	tests := []struct {
		name string
		ev   models.TimetableEvent
		want float64
	}{
		{"open prefers start", models.TimetableEvent{Activity: "Ouverture Porte", Start: "07:00", End: "09:00"}, 420},
		{"open falls back to end", models.TimetableEvent{Activity: "Ouverture Porte", Start: "TBC", End: "09:00"}, 540},
		{"close prefers end", models.TimetableEvent{Activity: "Fermeture Porte", Start: "07:00", End: "22:00"}, 1320},
		{"close falls back to start", models.TimetableEvent{Activity: "Fermeture Porte", Start: "07:00", End: ""}, 420},
		{"neither prefers start", models.TimetableEvent{Activity: "Briefing", Start: "10:15", End: "11:00"}, 615},
		{"no time", models.TimetableEvent{Activity: "Briefing"}, math.Inf(1)},
		{"all TBC", models.TimetableEvent{Activity: "Ouverture Porte", Start: "TBC", End: "TBC"}, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SortMinute(tt.ev); got != tt.want {
				t.Errorf("SortMinute = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	if got := Normalize("Fermé à l'Accueil"); got != "ferme a l'accueil" {
		t.Errorf("Normalize = %q", got)
	}
}
