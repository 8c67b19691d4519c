// Package program holds the line buffer every dialect writes into.
//
// A Buffer moves Idle → Building on Start and back to Idle on Flush. Lines
// may be added in any state; their order always equals call order. Start and
// Finish need not nest strictly: dialects that emit one file per program may
// flush while a program is still open.
package program

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a Buffer.
type State int

const (
	// Idle means no program has been started since the last flush.
	Idle State = iota
	// Building means at least one program was started since the last flush.
	Building
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Building:
		return "building"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Buffer accumulates program lines and a diagnostic log.
// Not safe for concurrent use; each backend instance owns its own Buffer.
type Buffer struct {
	lines    []string
	log      strings.Builder
	state    State
	programs int
	open     int
	saved    []string
}

// Start opens a program and returns the number of programs started in this
// buffer, counting from 1.
func (b *Buffer) Start(name string) int {
	b.state = Building
	b.programs++
	b.open++
	return b.programs
}

// Finish closes the innermost open program.
// An unmatched Finish is recorded in the log, never rejected.
func (b *Buffer) Finish(name string) {
	if b.open == 0 {
		b.AddLog(fmt.Sprintf("ProgFinish(%q) without a matching ProgStart", name))
		return
	}
	b.open--
}

// AddLine appends a program line.
func (b *Buffer) AddLine(line string) {
	b.lines = append(b.lines, line)
}

// AddLog appends a diagnostic message. The log is not program text.
func (b *Buffer) AddLog(msg string) {
	b.log.WriteString(msg)
	b.log.WriteByte('\n')
}

// Lines returns a copy of the pending lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of pending lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Log returns the accumulated diagnostic log for the whole session.
func (b *Buffer) Log() string {
	return b.log.String()
}

// Programs returns how many programs were started since the last flush.
func (b *Buffer) Programs() int {
	return b.programs
}

// Open returns how many started programs have not been finished.
func (b *Buffer) Open() int {
	return b.open
}

// State returns the current lifecycle state.
func (b *Buffer) State() State {
	return b.state
}

// Flush returns the pending lines and resets the buffer to Idle.
// The diagnostic log and the saved-file list survive a flush.
func (b *Buffer) Flush() []string {
	lines := b.lines
	b.lines = nil
	b.programs = 0
	b.open = 0
	b.state = Idle
	return lines
}

// MarkSaved records a file written from this buffer.
func (b *Buffer) MarkSaved(path string) {
	b.saved = append(b.saved, path)
}

// SavedFiles returns every file saved during the session, in save order.
func (b *Buffer) SavedFiles() []string {
	out := make([]string, len(b.saved))
	copy(out, b.saved)
	return out
}
