package telemetry

import (
	"fmt"
	"sync"
)

// API is how components report logs and counts, injected so tests can assert
// on what a component reported.
type API interface {
	// ReportBroken reports a component that failed in a way that should be fixed.
	//
	// The id names the component, not the line that failed inside it. ex. if
	// reading the scorecard of a player fails, the id is `scrape-detail` (scoped
	// to `leaderboard`) and the error, player name and option go into params.
	//
	// ids are lowercase, dashes join a method to its component.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that did not fail the operation but may
	// be worth a look, ids follow ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug is ignored unless running verbosely.
	ReportDebug(msg string, params ...any)

	// ReportCount reports a point in time count, counts are not summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id and message with a namespace. Scoping a
// ScopedAPI again nests the namespaces (ex. `runner.leaderboard`).
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	if scoped, ok := inner.(ScopedAPI); ok {
		return ScopedAPI{namespace: scoped.namespace + "." + namespace, inner: scoped.inner}
	}
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}

type Level int

const (
	LevelDebug Level = iota
	LevelWarning
	LevelBroken
	LevelCount
)

type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Level: LevelBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Level: LevelWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Level: LevelDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Level: LevelCount, ID: id, Count: count})
}

// IDs returns the ids reported at level, in order.
func (r *Recorder) IDs(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, report := range r.reports {
		if report.Level == level {
			ids = append(ids, report.ID)
		}
	}
	return ids
}
