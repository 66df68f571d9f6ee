package editor

// edit replaces the runes [Pos, Pos+len(Deleted)) with Inserted.
type edit struct {
	Pos      int
	Deleted  []rune
	Inserted []rune
}

// transaction is what one undo or redo step reverts or reapplies.
type transaction struct {
	edits        []edit
	cursorBefore int
	cursorAfter  int
}

// History keeps stacks of past/future transactions for undo/redo.
type History struct {
	past   []transaction
	future []transaction

	// open is set while typed runes may still join the last transaction
	open bool
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

func (h *History) reset() {
	h.past = nil
	h.future = nil
	h.open = false
}

// close stops typing from coalescing into the last transaction.
func (h *History) close() { h.open = false }

func (h *History) record(tx transaction, coalesce bool) {
	h.future = nil
	if coalesce && h.open && len(h.past) > 0 {
		last := &h.past[len(h.past)-1]
		if len(last.edits) == 1 && len(tx.edits) == 1 {
			prev, next := &last.edits[0], tx.edits[0]
			if len(prev.Deleted) == 0 && len(next.Deleted) == 0 && prev.Pos+len(prev.Inserted) == next.Pos {
				prev.Inserted = append(prev.Inserted, next.Inserted...)
				last.cursorAfter = tx.cursorAfter
				return
			}
		}
	}
	h.past = append(h.past, tx)
	h.open = coalesce
}

func (h *History) popUndo() (transaction, bool) {
	if !h.CanUndo() {
		return transaction{}, false
	}
	tx := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, tx)
	h.open = false
	return tx, true
}

func (h *History) popRedo() (transaction, bool) {
	if !h.CanRedo() {
		return transaction{}, false
	}
	tx := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, tx)
	h.open = false
	return tx, true
}
