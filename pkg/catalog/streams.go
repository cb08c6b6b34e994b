package catalog

// Streams is an insertion-ordered set of stream prefixes.
type Streams struct {
	order []string
	index map[string]int
}

// NewStreams returns an empty set.
func NewStreams() *Streams {
	return &Streams{index: make(map[string]int)}
}

// Add records prefix and reports whether it was new.
func (s *Streams) Add(prefix string) bool {
	if _, ok := s.index[prefix]; ok {
		return false
	}
	s.index[prefix] = len(s.order)
	s.order = append(s.order, prefix)
	return true
}

// Index returns the first-seen position of prefix, or -1.
func (s *Streams) Index(prefix string) int {
	if i, ok := s.index[prefix]; ok {
		return i
	}
	return -1
}

// List returns the prefixes in first-seen order.
func (s *Streams) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct streams.
func (s *Streams) Len() int {
	return len(s.order)
}
