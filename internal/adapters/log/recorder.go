// Package log provides logger adapters that are not part of the public
// pkg/log surface.
package log

import (
	"sync"

	"github.com/bft-labs/telebus/internal/ports"
)

// Level is the severity of a recorded entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is one recorded log call.
type Entry struct {
	Level  Level
	Msg    string
	Fields []ports.Field
}

// Field returns the value of the first field named key.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder implements ports.Logger by keeping every entry in memory. It is
// safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Debug(msg string, fields ...ports.Field) { r.add(LevelDebug, msg, fields) }
func (r *Recorder) Info(msg string, fields ...ports.Field)  { r.add(LevelInfo, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...ports.Field)  { r.add(LevelWarn, msg, fields) }
func (r *Recorder) Error(msg string, fields ...ports.Field) { r.add(LevelError, msg, fields) }

func (r *Recorder) add(level Level, msg string, fields []ports.Field) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: append([]ports.Field(nil), fields...)})
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Find returns the entries at level with message msg.
func (r *Recorder) Find(level Level, msg string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops every entry.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
