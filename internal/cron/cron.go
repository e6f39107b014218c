package cron

import (
	"context"
	"sync"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ProbeFunc reports whether the watched target is healthy.
type ProbeFunc func(ctx context.Context) bool

// WatchHealth runs probe every interval and calls onChange on the first observation and on
// every transition after it. The scheduler stops when ctx is cancelled.
func WatchHealth(ctx context.Context, interval time.Duration, probe ProbeFunc, onChange func(healthy bool)) error {
	if interval <= 0 {
		return errors.Errorf("invalid health watch interval %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrapf(err, "failed to init cron scheduler")
	}

	var (
		mu   sync.Mutex
		last *bool
	)

	_, err = s.NewJob(gocron.DurationJob(interval), gocron.NewTask(func() {
		klog.V(4).Infof("Start to probe target health")

		healthy := probe(ctx)

		mu.Lock()
		changed := last == nil || *last != healthy
		last = &healthy
		mu.Unlock()

		if changed {
			onChange(healthy)
		}
	}), gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()))
	if err != nil {
		return errors.Wrapf(err, "failed to add health probe cron job")
	}

	s.Start()

	go func() {
		<-ctx.Done()

		if err := s.Shutdown(); err != nil {
			klog.Errorf("Failed to shutdown cron scheduler: %v", err)
		}
	}()

	return nil
}
