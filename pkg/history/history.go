package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/defaults"
	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
)

// TimeLayout is the wire format of point timestamps. It sorts
// lexicographically, so retention pruning compares strings directly.
const TimeLayout = "2006-01-02 15:04:05"

// Point is one collection cycle's connection counts keyed by alias.
type Point struct {
	Time        string         `json:"time"`
	Connections map[string]int `json:"connections"`
}

// Store is the persisted wire shape.
type Store struct {
	Data  []Point  `json:"data"`
	Names []string `json:"vps_names"`
}

// EmptyStore returns a fully shaped Store with no points.
func EmptyStore() Store {
	return Store{Data: []Point{}, Names: []string{}}
}

// Option configures a File.
type Option func(*File)

// WithRetention overrides the pruning window.
func WithRetention(d time.Duration) Option {
	return func(f *File) {
		if d > 0 {
			f.retention = d
		}
	}
}

// File is a Store persisted at a fixed path.
type File struct {
	path      string
	retention time.Duration
}

// NewFile creates a history file handle at path.
func NewFile(path string, opts ...Option) *File {
	f := &File{
		path:      path,
		retention: defaults.HistoryRetention,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load reads the persisted store. A missing or corrupt file degrades
// to an empty store; history is best-effort and must never take the
// collector down.
func (f *File) Load() Store {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read history file", "path", f.path, "error", err)
		}
		return EmptyStore()
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("history file corrupt, starting fresh", "path", f.path, "error", err)
		return EmptyStore()
	}
	if s.Data == nil {
		s.Data = []Point{}
	}
	if s.Names == nil {
		s.Names = []string{}
	}
	return s
}

// Append records one cycle: it reloads the store, prunes points older
// than the retention cutoff, appends the new point and persists the
// result. The names list is replaced wholesale so it always reflects
// the current fleet.
func (f *File) Append(now time.Time, connections map[string]int, names []string) error {
	s := f.Load()
	s.Data = prune(s.Data, now.Add(-f.retention))
	s.Data = append(s.Data, Point{
		Time:        now.Format(TimeLayout),
		Connections: connections,
	})
	s.Names = names
	if s.Names == nil {
		s.Names = []string{}
	}
	return f.save(s)
}

// prune drops points strictly older than cutoff. A point exactly at
// the cutoff is retained.
func prune(points []Point, cutoff time.Time) []Point {
	boundary := cutoff.Format(TimeLayout)
	kept := points[:0]
	for _, p := range points {
		if p.Time >= boundary {
			kept = append(kept, p)
		}
	}
	return kept
}

func (f *File) save(s Store) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, "failed to encode history", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodePersistence,
			fmt.Sprintf("failed to write history file %s", f.path), err)
	}
	return nil
}
