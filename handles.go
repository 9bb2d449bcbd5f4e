package krasue

import "fmt"

// Handle is a stable identifier for a sprite within a SpriteBatch. Handles are
// assigned in increasing order starting at 0 and are never reused.
type Handle int

// HandleTable maps handles to positions in a dense array and back. The forward
// map only holds live handles; the reverse slice is indexed by position.
type HandleTable struct {
	next      Handle
	positions map[Handle]int
	owners    []Handle
}

// NewHandleTable returns an empty table whose first assigned handle is 0.
func NewHandleTable() *HandleTable {
	return &HandleTable{positions: make(map[Handle]int)}
}

// Assign allocates a handle that has never been returned before.
func (t *HandleTable) Assign() Handle {
	h := t.next
	t.next++
	return h
}

// Bind records that h currently lives at pos. The reverse mapping grows as
// needed, so binding at Len() appends.
func (t *HandleTable) Bind(h Handle, pos int) {
	t.positions[h] = pos
	for len(t.owners) <= pos {
		t.owners = append(t.owners, -1)
	}
	t.owners[pos] = h
}

// Unbind removes the forward mapping for h. The position it occupied keeps its
// stale owner until it is rebound or truncated away.
func (t *HandleTable) Unbind(h Handle) {
	delete(t.positions, h)
}

// Lookup returns the current position of h.
func (t *HandleTable) Lookup(h Handle) (int, error) {
	pos, ok := t.positions[h]
	if !ok {
		return 0, fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}
	return pos, nil
}

// Owner returns the handle bound at pos, or -1 if pos is out of range.
func (t *HandleTable) Owner(pos int) Handle {
	if pos < 0 || pos >= len(t.owners) {
		return -1
	}
	return t.owners[pos]
}

// Truncate shrinks the reverse mapping to n positions.
func (t *HandleTable) Truncate(n int) {
	if n < len(t.owners) {
		t.owners = t.owners[:n]
	}
}

// Len returns the number of live handles.
func (t *HandleTable) Len() int {
	return len(t.positions)
}
