// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/store"
	"github.com/homekeepapp/go-home-keeper/models"
)

// SchedulerConfig carries the scheduler's timing knobs.
type SchedulerConfig struct {
	HomeID string

	// Interval is the periodic full-sync trigger cadence while enabled.
	Interval time.Duration

	// DebounceWindow is the minimum gap between started executions for the
	// same entity type; enqueue requests inside the window are dropped.
	DebounceWindow time.Duration

	// RetryBase scales the backoff after a failed task: the n-th retry waits
	// RetryBase * n before the next drain attempt.
	RetryBase time.Duration

	// MaxRetries bounds automatic retries per task; afterwards the task is
	// dropped and an error event is emitted.
	MaxRetries int

	// DisableTimeout bounds how long Disable waits for an in-flight task.
	DisableTimeout time.Duration
}

// Scheduler is the engine's façade: triggers enqueue sync tasks, a single
// worker drains them strictly one at a time, and listeners observe the
// outcome through the event bus.
//
// Enqueue gate order (applied in sequence, first match drops the request):
// disabled switch, in-flight exclusivity, queued-duplicate dedup, debounce.
// Tasks are never executed concurrently with each other; a full task for a
// type is mutually exclusive with a pull/push task for the same type.
// Syncer runs one sync pass for an entity type. Implemented by Protocol.
type Syncer interface {
	Sync(ctx context.Context, entityType models.EntityType, op models.SyncOperation) (*models.SyncDelta, error)
}

// Sweeper prunes expired tombstones after successful pulls. Implemented by
// Cleaner.
type Sweeper interface {
	CleanupIfDue(ctx context.Context, entityType models.EntityType) error
}

type Scheduler struct {
	protocol Syncer
	cleaner  Sweeper
	state    store.StateStore
	bus      *Bus
	cfg      SchedulerConfig

	log *logger.Logger
	now func() time.Time

	mu       sync.Mutex
	queue    []*models.SyncTask
	inFlight map[string]*models.SyncTask
	lastRun  map[models.EntityType]time.Time
	enabled  bool
	stopTick chan struct{}

	// runMu serializes task execution between the worker goroutine and the
	// blocking full sync performed by Enable.
	runMu sync.Mutex

	wake chan struct{}
	done chan struct{}
}

// NewScheduler builds the scheduler and starts its worker goroutine. The
// worker idles until sync is enabled and a task arrives; Close stops it.
func NewScheduler(
	protocol Syncer,
	cleaner Sweeper,
	state store.StateStore,
	bus *Bus,
	cfg SchedulerConfig,
	log *logger.Logger,
) *Scheduler {
	s := &Scheduler{
		protocol: protocol,
		cleaner:  cleaner,
		state:    state,
		bus:      bus,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		inFlight: make(map[string]*models.SyncTask),
		lastRun:  make(map[models.EntityType]time.Time),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go s.worker()
	return s
}

// AddListener registers fn for sync events; the returned function
// unsubscribes it.
func (s *Scheduler) AddListener(fn func(models.SyncEvent)) func() {
	return s.bus.AddListener(fn)
}

// WatchStore subscribes the scheduler to entity store change notifications:
// every local write to a collection of the scheduler's home schedules a push
// for the matching entity type. Engine-internal writes do not fire (the
// protocol and cleaner persist under the store's suppression guard), so only
// mutations made outside the sync pass end up here. The returned function
// unsubscribes.
func (s *Scheduler) WatchStore(entities store.EntityStore, reg *registry.Registry) func() {
	return entities.OnChange(func(fileKey, homeID string) {
		if homeID != s.cfg.HomeID {
			return
		}
		for _, adapter := range reg.All() {
			if adapter.FileKey() == fileKey {
				s.Enqueue(adapter.Type(), models.OpPush, models.PriorityNormal)
				return
			}
		}
	})
}

// Enqueue requests a sync task. It is safe to call from any goroutine and
// never blocks; requests dropped by a gate are dropped silently.
func (s *Scheduler) Enqueue(entityType models.EntityType, op models.SyncOperation, priority models.TaskPriority) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}

	now := s.now()
	key := taskKey(entityType, op)

	// in-flight: an exact duplicate is dropped, and a running full blocks
	// pull/push for the type (and vice versa)
	for _, running := range s.inFlight {
		if running.EntityType != entityType {
			continue
		}
		if running.Operation == op ||
			running.Operation == models.OpFull ||
			op == models.OpFull {
			return
		}
	}

	// queued duplicate: dropped, unless a high request upgrades a queued
	// non-high one in place. The upgrade keeps the queued task alive (with its
	// retry bookkeeping) even when the request itself lands inside the
	// debounce window.
	for i, queued := range s.queue {
		if queued.Key() != key {
			continue
		}
		if priority == models.PriorityHigh && queued.Priority < models.PriorityHigh {
			queued.Priority = models.PriorityHigh
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			s.queue = append([]*models.SyncTask{queued}, s.queue...)
			s.signal()
		}
		return
	}

	// debounce against the last started execution for the type
	if last, ok := s.lastRun[entityType]; ok && now.Sub(last) < s.cfg.DebounceWindow {
		return
	}

	task := &models.SyncTask{
		EntityType: entityType,
		Operation:  op,
		Priority:   priority,
		HomeID:     s.cfg.HomeID,
		EnqueuedAt: now,
		MaxRetries: s.cfg.MaxRetries,
	}
	if priority == models.PriorityHigh {
		s.queue = append([]*models.SyncTask{task}, s.queue...)
	} else {
		s.queue = append(s.queue, task)
	}
	s.signal()
}

// Enable durably flips sync on, performs one blocking full sync across every
// entity type, and starts the periodic trigger. Enabling an already enabled
// scheduler is a no-op.
func (s *Scheduler) Enable(ctx context.Context) error {
	if err := s.state.SetEnabled(ctx, true); err != nil {
		return fmt.Errorf("persist enabled flag: %w", err)
	}

	s.mu.Lock()
	if s.enabled {
		s.mu.Unlock()
		return nil
	}
	s.enabled = true
	s.mu.Unlock()

	for _, entityType := range models.AllEntityTypes() {
		s.runTask(&models.SyncTask{
			EntityType: entityType,
			Operation:  models.OpFull,
			Priority:   models.PriorityNormal,
			HomeID:     s.cfg.HomeID,
			EnqueuedAt: s.now(),
			MaxRetries: s.cfg.MaxRetries,
		})
	}

	s.mu.Lock()
	s.stopTick = make(chan struct{})
	stop := s.stopTick
	s.mu.Unlock()
	go s.periodic(stop)

	s.log.Info().Str("func", "Scheduler.Enable").Msg("sync enabled")
	return nil
}

// Disable durably flips sync off, cancels the periodic trigger, drops every
// queued task, and waits for an in-flight task up to the configured timeout.
// The wait is best effort: Disable returns nil whether or not the task
// finished in time.
func (s *Scheduler) Disable(ctx context.Context) error {
	if err := s.state.SetEnabled(ctx, false); err != nil {
		return fmt.Errorf("persist disabled flag: %w", err)
	}

	s.mu.Lock()
	s.enabled = false
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
	s.queue = nil
	s.mu.Unlock()

	deadline := time.After(s.cfg.DisableTimeout)
	for {
		s.mu.Lock()
		idle := len(s.inFlight) == 0
		s.mu.Unlock()
		if idle {
			break
		}
		select {
		case <-deadline:
			s.log.Warn().
				Str("func", "Scheduler.Disable").
				Msg("in-flight task still running past disable timeout")
			return nil
		case <-time.After(10 * time.Millisecond):
		}
	}

	s.log.Info().Str("func", "Scheduler.Disable").Msg("sync disabled")
	return nil
}

// Resume re-enables sync when the persisted switch was left on by a previous
// run. Called once at startup.
func (s *Scheduler) Resume(ctx context.Context) error {
	enabled, err := s.state.Enabled(ctx)
	if err != nil {
		return fmt.Errorf("read enabled flag: %w", err)
	}
	if !enabled {
		return nil
	}
	return s.Enable(ctx)
}

// Enabled reports whether the sync switch is currently on.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Close stops the worker goroutine. The scheduler must not be used after
// Close.
func (s *Scheduler) Close() {
	close(s.done)
}

// periodic enqueues a low-priority full sync for every entity type on each
// tick until the stop channel closes. Debounce and dedup gates keep the
// periodic trigger from piling work on top of user-initiated syncs.
func (s *Scheduler) periodic(stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.done:
			return
		case <-ticker.C:
			for _, entityType := range models.AllEntityTypes() {
				s.Enqueue(entityType, models.OpFull, models.PriorityLow)
			}
		}
	}
}

func (s *Scheduler) worker() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			task := s.nextTask()
			if task == nil {
				break
			}
			s.runTask(task)
		}
	}
}

// nextTask pops the head of the queue, sleeping until its backoff gate
// expires. The head blocks the rest of the queue on purpose: a retry delay is
// a delay of the whole drain, not just of one task.
func (s *Scheduler) nextTask() *models.SyncTask {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return nil
		}
		head := s.queue[0]
		wait := head.NotBefore.Sub(s.now())
		if wait <= 0 {
			s.queue = s.queue[1:]
			// claim the task before releasing the lock so a concurrent
			// Enqueue cannot slip a duplicate past both dedup gates while
			// the task sits in neither the queue nor inFlight
			s.inFlight[head.Key()] = head
			s.mu.Unlock()
			return head
		}
		s.mu.Unlock()

		select {
		case <-s.done:
			return nil
		case <-time.After(wait):
		}
	}
}

func (s *Scheduler) runTask(task *models.SyncTask) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	s.inFlight[task.Key()] = task
	s.lastRun[task.EntityType] = s.now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, task.Key())
		s.mu.Unlock()
	}()

	ctx := s.log.WithContext(context.Background())
	delta, err := s.protocol.Sync(ctx, task.EntityType, task.Operation)
	if err != nil {
		s.retryOrDrop(task, err)
		return
	}

	pulled := task.Operation == models.OpPull || task.Operation == models.OpFull
	pushed := task.Operation == models.OpPush ||
		(task.Operation == models.OpFull && len(delta.Confirmed) > 0)

	if pulled {
		s.bus.Notify(models.SyncEvent{
			Type:       models.SyncEventPull,
			EntityType: task.EntityType,
			Changes:    delta,
		})
	}
	if pushed {
		s.bus.Notify(models.SyncEvent{
			Type:       models.SyncEventPush,
			EntityType: task.EntityType,
			Changes:    delta,
		})
	}

	if pulled {
		if err = s.cleaner.CleanupIfDue(ctx, task.EntityType); err != nil {
			s.log.Err(err).
				Str("func", "Scheduler.runTask").
				Str("entity_type", string(task.EntityType)).
				Msg("tombstone cleanup failed")
		}
	}
}

// retryOrDrop re-queues a failed task at the front with a linear-growth
// backoff gate, or drops it with an error event once retries are exhausted.
// A dropped task is never retried automatically; its entities stay pending
// until a future trigger syncs the type again.
func (s *Scheduler) retryOrDrop(task *models.SyncTask, cause error) {
	if task.RetryCount >= task.MaxRetries {
		s.log.Err(cause).
			Str("func", "Scheduler.retryOrDrop").
			Str("task", task.Key()).
			Int("retries", task.RetryCount).
			Msg("task dropped after exhausting retries")
		s.bus.Notify(models.SyncEvent{
			Type:       models.SyncEventError,
			EntityType: task.EntityType,
			Err:        cause,
		})
		return
	}

	task.RetryCount++
	task.NotBefore = s.now().Add(s.cfg.RetryBase * time.Duration(task.RetryCount))

	s.mu.Lock()
	if s.enabled {
		s.queue = append([]*models.SyncTask{task}, s.queue...)
		s.signal()
	}
	s.mu.Unlock()
}

// signal wakes the worker; callers hold s.mu.
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func taskKey(entityType models.EntityType, op models.SyncOperation) string {
	return fmt.Sprintf("%s:%s", entityType, op)
}
