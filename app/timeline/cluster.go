package timeline

import (
	"sort"
	"strings"
	"time"

	"github.com/framboises/cockpit/app/models"
)

// Cluster is an ephemeral render-time aggregate of two or more vignettes
// sharing a semantic type, an open/close kind and a clock time within one
// date. Never persisted, rebuilt on every fetch.
type Cluster struct {
	Type  string                  `json:"type"`
	Kind  string                  `json:"kind"`
	Time  string                  `json:"time"`
	Items []models.TimetableEvent `json:"items"`
}

// Dedupe modes for RemoveRedundantPairs.
const (
	DedupeAll      = "all"
	DedupeMidnight = "midnight"
)

// timeKey picks the clock time a record clusters under: closings by their
// end time, openings by their start, each falling back to the other,
// "TBC" when neither is confirmed.
func timeKey(e models.TimetableEvent, kind string) string {
	first, second := e.Start, e.End
	if kind == KindClose {
		first, second = e.End, e.Start
	}
	// Keyed trimmed so stray whitespace cannot split a group.
	if IsValidClockString(first) {
		return strings.TrimSpace(first)
	}
	if IsValidClockString(second) {
		return strings.TrimSpace(second)
	}
	return TBC
}

type clusterKey struct {
	Type string
	Kind string
	Time string
}

// BuildClusters splits one date's events into multi-member clusters and a
// remainder of plain items. Records whose type or open/close kind cannot
// be classified never cluster; groups of one are unwrapped back into the
// remainder, a singleton cluster conveys nothing.
func BuildClusters(events []models.TimetableEvent) (clusters []Cluster, rest []models.TimetableEvent) {
	groups := make(map[clusterKey][]models.TimetableEvent)
	var order []clusterKey

	for _, e := range events {
		typ := ClassifySemanticType(e)
		kind := ClassifyOpenClose(e)
		if typ == "" || kind == "" {
			rest = append(rest, e)
			continue
		}
		key := clusterKey{Type: typ, Kind: kind, Time: timeKey(e, kind)}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			rest = append(rest, members...)
			continue
		}
		clusters = append(clusters, Cluster{
			Type:  key.Type,
			Kind:  key.Kind,
			Time:  key.Time,
			Items: members,
		})
	}
	return clusters, rest
}

type pairKey struct {
	Type  string
	Place string
}

// RemoveRedundantPairs deletes open/close record pairs that cancel each
// other out, mutating byDate in place. The parametrage merge emits a
// closing at the boundary of each opening; for round-the-clock spans both
// land on the same instant and carry no information.
//
// Within one date, an opening and a closing of the same (type, place) that
// resolve to the same clock time (mode "all"), or specifically to "00:00"
// (mode "midnight"), are both removed. A second pass removes a close at
// 00:00 on date D paired with an open at 00:00 on D+1 for the same
// (type, place). Best effort: two genuinely distinct records sharing
// type, place and time are removed too.
func RemoveRedundantPairs(byDate map[string][]models.TimetableEvent, mode string) {
	if mode != DedupeAll {
		mode = DedupeMidnight
	}

	for date, events := range byDate {
		drop := make(map[int]bool)
		groups := make(map[pairKey]map[string][2][]int) // place group -> timeKey -> [open idxs, close idxs]
		for i, e := range events {
			typ := ClassifySemanticType(e)
			kind := ClassifyOpenClose(e)
			if typ == "" || kind == "" {
				continue
			}
			tk := timeKey(e, kind)
			if tk == TBC {
				continue
			}
			if mode == DedupeMidnight && tk != "00:00" {
				continue
			}
			pk := pairKey{Type: typ, Place: Normalize(e.Place)}
			if groups[pk] == nil {
				groups[pk] = make(map[string][2][]int)
			}
			sides := groups[pk][tk]
			if kind == KindOpen {
				sides[0] = append(sides[0], i)
			} else {
				sides[1] = append(sides[1], i)
			}
			groups[pk][tk] = sides
		}
		for _, byTime := range groups {
			for _, sides := range byTime {
				if len(sides[0]) > 0 && len(sides[1]) > 0 {
					for _, i := range sides[0] {
						drop[i] = true
					}
					for _, i := range sides[1] {
						drop[i] = true
					}
				}
			}
		}
		byDate[date] = without(events, drop)
	}

	removeCrossMidnightPairs(byDate)
}

// removeCrossMidnightPairs matches a close at 00:00 on date D against an
// open at 00:00 on D+1 for the same (type, place) and removes both sides.
// Only adjacent dates are examined.
func removeCrossMidnightPairs(byDate map[string][]models.TimetableEvent) {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		next := nextDay(date)
		if next == "" {
			continue
		}
		nextEvents, ok := byDate[next]
		if !ok {
			continue
		}
		events := byDate[date]

		closes := midnightSide(events, KindClose)
		opens := midnightSide(nextEvents, KindOpen)

		dropCur := make(map[int]bool)
		dropNext := make(map[int]bool)
		for pk, closeIdx := range closes {
			openIdx, ok := opens[pk]
			if !ok {
				continue
			}
			for _, i := range closeIdx {
				dropCur[i] = true
			}
			for _, i := range openIdx {
				dropNext[i] = true
			}
		}
		if len(dropCur) > 0 {
			byDate[date] = without(events, dropCur)
			byDate[next] = without(nextEvents, dropNext)
		}
	}
}

// midnightSide indexes events of the given kind whose time key is 00:00,
// by (type, normalized place).
func midnightSide(events []models.TimetableEvent, kind string) map[pairKey][]int {
	out := make(map[pairKey][]int)
	for i, e := range events {
		typ := ClassifySemanticType(e)
		if typ == "" || ClassifyOpenClose(e) != kind {
			continue
		}
		if timeKey(e, kind) != "00:00" {
			continue
		}
		pk := pairKey{Type: typ, Place: Normalize(e.Place)}
		out[pk] = append(out[pk], i)
	}
	return out
}

func without(events []models.TimetableEvent, drop map[int]bool) []models.TimetableEvent {
	if len(drop) == 0 {
		return events
	}
	kept := events[:0:0]
	for i, e := range events {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	return kept
}

func nextDay(dateISO string) string {
	d, err := time.Parse("2006-01-02", dateISO)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, 1).Format("2006-01-02")
}
