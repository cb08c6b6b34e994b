package timeaxis

import (
	"sync"

	"github.com/agentstation/timeaxis/pkg/deoverlap"
	"github.com/agentstation/timeaxis/pkg/overlap"
	"github.com/agentstation/timeaxis/pkg/report"
)

// Hook function types for engine events
type (
	// IssueHook is called for every issue of a validation report, in order
	IssueHook func(issue report.Issue)

	// SegmentHook is called for every assembled overlap segment
	SegmentHook func(index int, segment overlap.Segment)

	// TruncatedHook is called for every truncated file a repair writes
	TruncatedHook func(t deoverlap.Truncation)
)

// hooks manages event callbacks
type hooks struct {
	mu          sync.RWMutex
	onIssue     []IssueHook
	onSegment   []SegmentHook
	onTruncated []TruncatedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnIssue registers a callback for validation issues
func (h *hooks) OnIssue(fn IssueHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onIssue = append(h.onIssue, fn)
}

// OnSegment registers a callback for overlap segments
func (h *hooks) OnSegment(fn SegmentHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSegment = append(h.onSegment, fn)
}

// OnTruncated registers a callback for truncated files
func (h *hooks) OnTruncated(fn TruncatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTruncated = append(h.onTruncated, fn)
}

func (h *hooks) triggerIssues(rep *report.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, issue := range rep.Issues {
		for _, hook := range h.onIssue {
			hook(issue)
		}
	}
}

func (h *hooks) triggerSegments(segments []overlap.Segment) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i, s := range segments {
		for _, hook := range h.onSegment {
			hook(i, s)
		}
	}
}

func (h *hooks) triggerTruncated(res *deoverlap.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, t := range res.Truncated {
		for _, hook := range h.onTruncated {
			hook(t)
		}
	}
}
