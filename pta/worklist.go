package pta

// workEntry is one (pointer, delta points-to set) pair. Multiple
// entries for the same pointer accumulate monotonically as they are
// absorbed into the pointer's own points-to set in the main loop.
type workEntry struct {
	ptr   *Pointer
	delta PointsToSet
}

// worklist is a FIFO queue, polled in insertion order. Across
// pointers any order yields the same fixed point, since meet is
// commutative/associative and every transfer is monotone; FIFO-by-
// pointer is simply a deterministic choice.
type worklist struct {
	entries []workEntry
}

func (w *worklist) push(ptr *Pointer, delta PointsToSet) {
	if delta.IsEmpty() {
		return
	}
	w.entries = append(w.entries, workEntry{ptr, delta})
}

func (w *worklist) empty() bool { return len(w.entries) == 0 }

func (w *worklist) pop() workEntry {
	e := w.entries[0]
	w.entries = w.entries[1:]
	return e
}
