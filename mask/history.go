package mask

// HistorySize is the number of snapshots retained by a History
const HistorySize = 10

// History is a bounded stack of mask snapshots used for undo. Pushing onto a
// full history silently discards the oldest snapshot. The zero value is an
// empty history ready to use.
type History struct {
	snapshots [HistorySize]*Mask
	head      int // oldest snapshot
	n         int
}

// Len returns the number of snapshots available to Pop
func (h *History) Len() int {
	return h.n
}

// Push stores m as the most recent snapshot. The history takes ownership of
// m, so the caller must not modify it afterwards.
func (h *History) Push(m *Mask) {
	if h.n == HistorySize {
		h.snapshots[h.head] = m
		h.head = (h.head + 1) % HistorySize
		return
	}
	h.snapshots[(h.head+h.n)%HistorySize] = m
	h.n++
}

// Pop removes and returns the most recent snapshot. It returns false if there
// is nothing to undo.
func (h *History) Pop() (*Mask, bool) {
	if h.n == 0 {
		return nil, false
	}
	h.n--
	i := (h.head + h.n) % HistorySize
	m := h.snapshots[i]
	h.snapshots[i] = nil
	return m, true
}

// Clear discards every snapshot
func (h *History) Clear() {
	*h = History{}
}
