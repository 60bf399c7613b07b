package artifact

import (
	"fmt"
	"sort"
)

// Label names the segment of one cluster id.
type Label struct {
	Cluster int32
	Segment string
}

// ClusterMapping maps cluster ids to segment labels.
type ClusterMapping struct {
	Labels []Label
}

func NewClusterMapping(m map[int]string) *ClusterMapping {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cm := &ClusterMapping{Labels: make([]Label, 0, len(ids))}
	for _, id := range ids {
		cm.Labels = append(cm.Labels, Label{Cluster: int32(id), Segment: m[id]})
	}
	return cm
}

func (m *ClusterMapping) Segment(id int) (string, bool) {
	for _, l := range m.Labels {
		if int(l.Cluster) == id {
			return l.Segment, true
		}
	}
	return "", false
}

// Segments lists the distinct labels in cluster order.
func (m *ClusterMapping) Segments() []string {
	seen := make(map[string]struct{}, len(m.Labels))
	out := make([]string, 0, len(m.Labels))
	for _, l := range m.Labels {
		if _, ok := seen[l.Segment]; ok {
			continue
		}
		seen[l.Segment] = struct{}{}
		out = append(out, l.Segment)
	}
	return out
}

func (m *ClusterMapping) validate() error {
	seen := make(map[int32]struct{}, len(m.Labels))
	for _, l := range m.Labels {
		if _, ok := seen[l.Cluster]; ok {
			return fmt.Errorf("cluster %d mapped twice", l.Cluster)
		}
		seen[l.Cluster] = struct{}{}
		if l.Segment == "" {
			return fmt.Errorf("cluster %d has an empty label", l.Cluster)
		}
	}
	return nil
}

// Recommendation is the advisory text for one segment.
type Recommendation struct {
	Segment string
	Text    string
}

type Recommendations struct {
	Entries []Recommendation
}

func (r *Recommendations) For(segment string) (string, bool) {
	for _, e := range r.Entries {
		if e.Segment == segment {
			return e.Text, true
		}
	}
	return "", false
}
