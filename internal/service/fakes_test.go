package service

import (
	"context"
	"sync"

	"askgov-sg/pkg/events"
	"askgov-sg/pkg/search"
	"askgov-sg/pkg/store"
)

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, module, message, details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.add("debug", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.add("info", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.add("warn", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.add("error", module, message, details)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) snapshot() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]logEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

type fakeSearcher struct {
	results []search.SearchResult
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]search.SearchResult, error) {
	f.calls++
	return f.results, f.err
}

type fakeComposer struct {
	reply string
	err   error
	calls int
	qctx  store.QueryContext
}

func (f *fakeComposer) Compose(ctx context.Context, query string, results []search.SearchResult, qctx store.QueryContext) (string, error) {
	f.calls++
	f.qctx = qctx
	return f.reply, f.err
}

type passthroughRenderer struct{}

func (passthroughRenderer) HTML(source string) (string, error) {
	return "<p>" + source + "</p>", nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.Event) {
	p.published = append(p.published, evt)
}
