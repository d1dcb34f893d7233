package provision

import "fmt"

// ADRing cycles through availability-domain candidates round-robin,
// giving each domain a chance across repeated attempts. The sequence
// is bounded and restartable, unlike an open-ended iterator.
type ADRing struct {
	names []string
	next  int
}

// NewADRing builds a ring over names. At least one candidate is
// required.
func NewADRing(names []string) (*ADRing, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no availability domain candidates")
	}
	ring := &ADRing{names: make([]string, len(names))}
	copy(ring.names, names)
	return ring, nil
}

// Next returns the current candidate and advances, wrapping back to
// the first candidate after the last.
func (r *ADRing) Next() string {
	name := r.names[r.next]
	r.next = (r.next + 1) % len(r.names)
	return name
}

// Reset restarts the cycle at the first candidate.
func (r *ADRing) Reset() { r.next = 0 }

// Len returns the number of candidates.
func (r *ADRing) Len() int { return len(r.names) }

// Names returns a copy of the candidate list in ring order.
func (r *ADRing) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
