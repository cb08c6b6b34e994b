package overlap

import "github.com/agentstation/timeaxis/pkg/catalog"

// Cut truncates File so that its coverage ends at At, where Next begins.
type Cut struct {
	File catalog.File `json:"file" yaml:"file"`
	Next catalog.File `json:"next" yaml:"next"`
	At   float64      `json:"at" yaml:"at"`
}

// Segment is a maximal chain of overlap records in which each record's
// later file is the next record's earlier file.
type Segment struct {
	Records []Record `json:"records" yaml:"records"`
	Start   float64  `json:"start" yaml:"start"`
	End     float64  `json:"end" yaml:"end"`
}

// Cuts returns one truncation per record, in file order.
func (s Segment) Cuts() []Cut {
	cuts := make([]Cut, len(s.Records))
	for i, r := range s.Records {
		cuts[i] = Cut{File: r.Earlier, Next: r.Later, At: r.LaterFirst}
	}
	return cuts
}

// Assemble groups ordered records into segments. Gap records are not
// repairable by truncation and are skipped. A chain breaks whenever the
// next overlap does not start from the file the previous one ended on.
func Assemble(records []Record) []Segment {
	var (
		segments []Segment
		current  *Segment
	)
	for _, r := range records {
		if r.Kind != KindOverlap {
			continue
		}
		if current != nil && chains(current.Records[len(current.Records)-1], r) {
			current.Records = append(current.Records, r)
			current.End = r.LaterFirst
			continue
		}
		segments = append(segments, Segment{Records: []Record{r}, Start: r.LaterFirst, End: r.LaterFirst})
		current = &segments[len(segments)-1]
	}
	return segments
}

// Cuts flattens the cuts of every segment.
func Cuts(segments []Segment) []Cut {
	var cuts []Cut
	for _, s := range segments {
		cuts = append(cuts, s.Cuts()...)
	}
	return cuts
}

func chains(prev, next Record) bool {
	return prev.Later.Path == next.Earlier.Path
}
