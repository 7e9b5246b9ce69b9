package transcript

import (
	"strings"
	"sync"
	"time"
)

const (
	userPrefix = "You: "
	botPrefix  = "CodmetricBot: "
)

// Filename is the name a transcript saved at t is stored under.
func Filename(t time.Time) string {
	return "chatlog_" + t.Format("20060102_150405") + ".txt"
}

// Log is the visible part of a conversation. Safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	lines []string
}

// User records a message typed by the user.
func (l *Log) User(msg string) {
	l.append(userPrefix + msg)
}

// Bot records a reply, followed by a blank separator line.
func (l *Log) Bot(reply string) {
	l.append(botPrefix+reply, "")
}

func (l *Log) append(lines ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, lines...)
}

// Clear forgets everything recorded so far.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

// Restore replaces the recorded lines, e.g. with a conversation loaded from a store.
func (l *Log) Restore(lines []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append([]string(nil), lines...)
}

// Lines returns a copy of the recorded lines.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Content renders the transcript as saved to disk, without trailing whitespace.
func (l *Log) Content() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.TrimSpace(strings.Join(l.lines, "\n"))
}
