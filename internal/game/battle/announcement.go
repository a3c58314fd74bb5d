package battle

// Queue is a FIFO of announcement lines plus the line currently on display.
// Lines are revealed one per timer interval by the Machine.
type Queue struct {
	lines   []string
	display string
}

// Push appends lines in order, skipping empty strings.
func (q *Queue) Push(lines ...string) {
	for _, l := range lines {
		if l != "" {
			q.lines = append(q.lines, l)
		}
	}
}

// Reveal pops the oldest line into the display.
//
// Postcondition: returns false and leaves the display unchanged when empty.
func (q *Queue) Reveal() bool {
	if len(q.lines) == 0 {
		return false
	}
	q.display = q.lines[0]
	q.lines = q.lines[1:]
	return true
}

// Len returns the number of lines waiting to be revealed.
func (q *Queue) Len() int { return len(q.lines) }

// Display returns the most recently revealed line.
func (q *Queue) Display() string { return q.display }

// Pending returns a copy of the waiting lines, oldest first.
func (q *Queue) Pending() []string {
	return append([]string(nil), q.lines...)
}

// Reset clears both the waiting lines and the display.
func (q *Queue) Reset() {
	q.lines = nil
	q.display = ""
}
