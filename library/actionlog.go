package library

// ActionLog implements linear undo/redo over committed transactions with two
// LIFO stacks. A new commit clears the redo stack, so history never branches.
//
// Undo and redo are two-phase: the engine peeks at the top action, validates
// and applies the inverse (or forward) effect, and only then commits the move
// between stacks. A failed undo or redo therefore leaves both stacks exactly
// as they were.
type ActionLog struct {
	history []Action
	redo    []Action
}

// Record pushes a newly committed action and discards any redo candidates.
func (l *ActionLog) Record(a Action) {
	l.history = append(l.history, a)
	l.redo = l.redo[:0]
}

// PeekUndo returns the most recent committed action without removing it.
func (l *ActionLog) PeekUndo() (Action, bool) {
	if len(l.history) == 0 {
		return Action{}, false
	}
	return l.history[len(l.history)-1], true
}

// CommitUndo moves the top of history onto the redo stack. Call only after
// the undone effect has been applied.
func (l *ActionLog) CommitUndo() {
	a := l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]
	l.redo = append(l.redo, a)
}

// PeekRedo returns the most recently undone action without removing it.
func (l *ActionLog) PeekRedo() (Action, bool) {
	if len(l.redo) == 0 {
		return Action{}, false
	}
	return l.redo[len(l.redo)-1], true
}

// CommitRedo moves the top of the redo stack back onto history.
func (l *ActionLog) CommitRedo() {
	a := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.history = append(l.history, a)
}

// CanUndo reports whether any committed action remains to undo.
func (l *ActionLog) CanUndo() bool { return len(l.history) > 0 }

// CanRedo reports whether any undone action remains to redo.
func (l *ActionLog) CanRedo() bool { return len(l.redo) > 0 }
