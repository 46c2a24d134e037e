// Package timeline implements the scheduling and status engine behind the
// cockpit timetable view: clock-string parsing, open/close keyword
// classification, checklist handling, live status derivation, clustering of
// related vignettes, chronological ordering, the simulated clock and the
// now-line placement math.
package timeline

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/framboises/cockpit/app/models"
)

// TBC is the placeholder used when a clock time is not confirmed yet.
// It sorts after every real time.
const TBC = "TBC"

// Open/close kinds returned by ClassifyOpenClose.
const (
	KindOpen  = "open"
	KindClose = "close"
)

// Semantic type labels returned by ClassifySemanticType.
const (
	TypeGates    = "portes"
	TypeParkings = "parkings"
	TypeCampings = "campings"
)

var (
	reOpen  = regexp.MustCompile(`\b(ouverture|ouvre|ouverts?|ouvertes?|open|opens|opening)\b`)
	reClose = regexp.MustCompile(`\b(fermeture|ferme|fermes|fermee?s?|close|closes|closed|closing)\b`)

	reParking = regexp.MustCompile(`\bparkings?\b`)
	reCamping = regexp.MustCompile(`\b(campings?|accueil|receptions?)\b`)
	reGate    = regexp.MustCompile(`\b(portes?|gates?|doors?)\b`)
)

// TimeToMinutes converts an "HH:MM" string to minutes since midnight.
// Empty strings, "TBC" and anything unparseable yield +Inf so that
// unscheduled records sort last. Times are local wall-clock, no timezone.
func TimeToMinutes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, TBC) {
		return math.Inf(1)
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return math.Inf(1)
	}
	h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 {
		return math.Inf(1)
	}
	return float64(h*60 + m)
}

// IsValidClockString reports whether s holds a confirmed clock time,
// i.e. it is non-empty and not the TBC placeholder.
func IsValidClockString(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, TBC)
}

// Normalize lowercases s and strips diacritics so French labels match the
// keyword sets regardless of accents ("Fermé" -> "ferme").
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// classifyBlob builds the normalized text mined by both classifiers.
func classifyBlob(e models.TimetableEvent) string {
	return Normalize(e.Activity + " " + e.Category + " " + e.Place)
}

// ClassifyOpenClose decides whether a record describes an opening or a
// closing, from keywords in its activity, category and place. Ambiguous
// text (no match, or both families matching) yields "" and the record is
// excluded from clustering and dedupe.
func ClassifyOpenClose(e models.TimetableEvent) string {
	blob := classifyBlob(e)
	open := reOpen.MatchString(blob)
	closed := reClose.MatchString(blob)
	switch {
	case open && !closed:
		return KindOpen
	case closed && !open:
		return KindClose
	default:
		return ""
	}
}

// ClassifySemanticType matches the parking, camping/reception-area and
// gate keyword families against the same normalized text. Returns one of
// the Type constants or "".
func ClassifySemanticType(e models.TimetableEvent) string {
	blob := classifyBlob(e)
	switch {
	case reParking.MatchString(blob):
		return TypeParkings
	case reCamping.MatchString(blob):
		return TypeCampings
	case reGate.MatchString(blob):
		return TypeGates
	default:
		return ""
	}
}

// SortMinute derives the minute used for chronological ordering. Closings
// sort by their end time when present, everything else by start, each
// falling back to the other field. +Inf when no valid time exists.
func SortMinute(e models.TimetableEvent) float64 {
	first, second := e.Start, e.End
	if ClassifyOpenClose(e) == KindClose {
		first, second = e.End, e.Start
	}
	if IsValidClockString(first) {
		if m := TimeToMinutes(first); !math.IsInf(m, 1) {
			return m
		}
	}
	if IsValidClockString(second) {
		return TimeToMinutes(second)
	}
	return math.Inf(1)
}
