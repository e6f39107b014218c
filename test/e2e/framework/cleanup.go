package framework

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// CleanupFunc deletes one entity created by a scenario.
type CleanupFunc func(ctx context.Context) error

type cleanupEntry struct {
	name string
	fn   CleanupFunc
}

// CleanupList records deletions and runs them in reverse creation order.
type CleanupList struct {
	mu      sync.Mutex
	entries []cleanupEntry
}

// Add records fn under name, e.g. "project 42".
func (l *CleanupList) Add(name string, fn CleanupFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, cleanupEntry{name: name, fn: fn})
}

func (l *CleanupList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Run deletes everything recorded, newest first, and empties the list. A
// not-found answer means the scenario already deleted the entity and is not an error.
func (l *CleanupList) Run(ctx context.Context) error {
	l.mu.Lock()
	entries := l.entries
	l.entries = nil
	l.mu.Unlock()

	var errs []error

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]

		err := e.fn(ctx)
		switch {
		case err == nil:
			klog.V(2).Infof("Cleaned up %s", e.name)
		case IsNotFound(err):
			klog.V(2).Infof("Skipped cleanup of %s: already gone", e.name)
		default:
			errs = append(errs, fmt.Errorf("failed to clean up %s: %w", e.name, err))
		}
	}

	return errors.Join(errs...)
}

// RunIgnoreErrors is Run for AfterEach/AfterAll blocks that must not fail.
func (l *CleanupList) RunIgnoreErrors(ctx context.Context) {
	if err := l.Run(ctx); err != nil {
		klog.Warningf("Cleanup finished with errors: %v", err)
	}
}
