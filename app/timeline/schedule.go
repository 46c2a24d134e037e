package timeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/framboises/cockpit/app/models"
)

// Node is one entry of a date's rendered sequence: either a cluster or a
// single item, tagged with the minute it sorts under.
type Node struct {
	Cluster *Cluster               `json:"cluster,omitempty"`
	Item    *models.TimetableEvent `json:"item,omitempty"`
	Minute  float64                `json:"-"`
	Status  Status                 `json:"status,omitempty"`
	Label   string                 `json:"status_label,omitempty"`
}

// SortMinuteValue exports the node's minute for rendering; +Inf marshals
// poorly so the JSON carries "TBC" semantics through the time fields
// instead.
func (n Node) SortMinuteValue() float64 { return n.Minute }

// clusterMinute is the cluster's own time when confirmed, else the
// earliest member minute.
func clusterMinute(c Cluster) float64 {
	if IsValidClockString(c.Time) {
		if m := TimeToMinutes(c.Time); !math.IsInf(m, 1) {
			return m
		}
	}
	min := math.Inf(1)
	for _, item := range c.Items {
		if m := SortMinute(item); m < min {
			min = m
		}
	}
	return min
}

// sortLabel yields the deterministic tie-break key for a node.
func (n Node) sortLabel() string {
	if n.Cluster != nil {
		return fmt.Sprintf("%s|%s|%s", n.Cluster.Type, n.Cluster.Kind, n.Cluster.Time)
	}
	return strings.ToLower(strings.TrimSpace(n.Item.Activity + " " + n.Item.Place))
}

// BuildSchedule turns one date's raw events into the fully ordered render
// sequence: dedupe-survivors are clustered, clusters and plain items are
// merged and sorted chronologically. Ties put clusters before items, then
// fall back to label order, so identical input always yields identical
// output.
func BuildSchedule(events []models.TimetableEvent) []Node {
	clusters, rest := BuildClusters(events)

	nodes := make([]Node, 0, len(clusters)+len(rest))
	for i := range clusters {
		nodes = append(nodes, Node{Cluster: &clusters[i], Minute: clusterMinute(clusters[i])})
	}
	for i := range rest {
		item := rest[i]
		nodes = append(nodes, Node{Item: &item, Minute: SortMinute(item)})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Minute != b.Minute {
			// +Inf == +Inf, so TBC nodes fall through to the tie-breaks.
			return a.Minute < b.Minute
		}
		aCluster := a.Cluster != nil
		bCluster := b.Cluster != nil
		if aCluster != bCluster {
			return aCluster
		}
		return a.sortLabel() < b.sortLabel()
	})
	return nodes
}

// AnnotateStatuses fills in the display status of every node against the
// given instant, in place.
func AnnotateStatuses(nodes []Node, dateISO, nowDate string, nowMinute float64) {
	for i := range nodes {
		n := &nodes[i]
		if n.Cluster != nil {
			if s, ok := ClusterDisplayStatus(*n.Cluster, dateISO, nowDate, nowMinute); ok {
				n.Status = s
				n.Label = Label(s)
			}
			continue
		}
		s := DisplayStatus(*n.Item, dateISO, nowDate, nowMinute)
		n.Status = s
		n.Label = Label(s)
	}
}
