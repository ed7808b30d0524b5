package control

import (
	"errors"
	"fmt"
)

// Queue collects commands between ticks. It is owned by the frame loop and
// not safe for concurrent use.
type Queue struct {
	pending []Command
}

// Push appends a command. Nil commands are ignored.
func (q *Queue) Push(cmd Command) {
	if cmd == nil {
		return
	}
	q.pending = append(q.pending, cmd)
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Clear discards pending commands.
func (q *Queue) Clear() {
	clear(q.pending)
	q.pending = q.pending[:0]
}

// Drain applies pending commands to s in FIFO order and empties the queue.
// A failing command is skipped; its error is joined into the result and the
// remaining commands still apply.
func (q *Queue) Drain(s *Settings) (applied int, err error) {
	var errs []error
	for i, cmd := range q.pending {
		if cerr := cmd.Apply(s); cerr != nil {
			errs = append(errs, fmt.Errorf("command %d (%T): %w", i, cmd, cerr))
			continue
		}
		applied++
	}
	clear(q.pending)
	q.pending = q.pending[:0]
	return applied, errors.Join(errs...)
}
