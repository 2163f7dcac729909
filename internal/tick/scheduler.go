// Package tick implements TickScheduler (spec.md §4.11): a periodic loop
// that fans out registered effects to connected players. Grounded on
// original_source/src/game/game_tick.py for the scheduling/metrics/
// error-trapping semantics (snapshot connected ids, fan out per effect per
// user, aggregated error trapping, 50-tick metrics log) and on the
// teacher's core/system.Runner for the Go-idiomatic Phase()/Update(dt)
// system shape, adapted here to per-effect self-timed intervals instead of
// one fixed phase order.
package tick

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pyao-go/server/internal/sender"
)

// Effect is the common shape every registered effect implements.
type Effect interface {
	Name() string
	Interval() time.Duration
}

// PlayerEffect runs once per connected user id, every time its interval
// elapses (spec.md's "per-player" effect kind).
type PlayerEffect interface {
	Effect
	ApplyToPlayer(ctx context.Context, userID int64, sndr sender.MessageSender) error
}

// GlobalEffect runs exactly once per firing regardless of player count
// (spec.md's "global-once-per-tick" effect kind — movement, NPC AI, NPC
// poison, pet follow, morph/summon expiry).
type GlobalEffect interface {
	Effect
	ApplyGlobal(ctx context.Context) error
}

// ConnectedIDs is the narrow slice of *spatial.Index the scheduler needs to
// snapshot who is online and reach their sender.
type ConnectedIDs interface {
	AllConnectedUserIDs() []int64
	SenderFor(userID int64) (sender.MessageSender, bool)
}

type effectMetrics struct {
	totalTime time.Duration
	count     int64
	maxTime   time.Duration
	errors    int64
}

// Scheduler is the TickScheduler.
type Scheduler struct {
	interval time.Duration
	index    ConnectedIDs
	log      *zap.Logger
	effects  []Effect

	mu       sync.Mutex
	lastRun  map[string]time.Time
	metrics  map[string]*effectMetrics
	ticks    int64
	totalDur time.Duration
	maxDur   time.Duration
}

// NewScheduler builds a Scheduler running at interval (default 0.5s per
// spec.md §4.11 when interval <= 0).
func NewScheduler(interval time.Duration, index ConnectedIDs, log *zap.Logger, effects ...Effect) *Scheduler {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Scheduler{
		interval: interval,
		index:    index,
		log:      log,
		effects:  effects,
		lastRun:  make(map[string]time.Time),
		metrics:  make(map[string]*effectMetrics),
	}
}

// Run blocks, firing the scheduler loop until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("tick scheduler started", zap.Duration("interval", s.interval), zap.Int("effects", len(s.effects)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.runOnce(ctx, now)
		}
	}
}

func (s *Scheduler) dueEffects(now time.Time) []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []Effect
	for _, e := range s.effects {
		last, ok := s.lastRun[e.Name()]
		if !ok || now.Sub(last) >= e.Interval() {
			s.lastRun[e.Name()] = now
			due = append(due, e)
		}
	}
	return due
}

func (s *Scheduler) runOnce(ctx context.Context, now time.Time) {
	due := s.dueEffects(now)
	if len(due) == 0 {
		return
	}

	start := time.Now()
	userIDs := s.index.AllConnectedUserIDs()

	var g errgroup.Group
	for _, eff := range due {
		s.dispatch(&g, ctx, eff, userIDs)
	}
	// g.Wait is not used for cancellation (no derived context): a failing
	// task never stops its siblings. Errors are trapped and counted inside
	// dispatch, so Wait only blocks for completion.
	_ = g.Wait()

	elapsed := time.Since(start)
	s.recordTick(elapsed)

	s.mu.Lock()
	ticks := s.ticks
	s.mu.Unlock()
	if ticks%50 == 0 {
		s.logMetrics()
	}
}

func (s *Scheduler) dispatch(g *errgroup.Group, ctx context.Context, eff Effect, userIDs []int64) {
	switch e := eff.(type) {
	case GlobalEffect:
		g.Go(func() error {
			start := time.Now()
			defer func() {
				if rec := recover(); rec != nil {
					s.recordEffect(e.Name(), time.Since(start), fmt.Errorf("effect panic: %v", rec))
				}
			}()
			err := e.ApplyGlobal(ctx)
			s.recordEffect(e.Name(), time.Since(start), err)
			return nil
		})
	case PlayerEffect:
		for _, uid := range userIDs {
			uid := uid
			sndr, ok := s.index.SenderFor(uid)
			if !ok {
				continue
			}
			g.Go(func() error {
				start := time.Now()
				defer func() {
					if rec := recover(); rec != nil {
						s.recordEffect(e.Name(), time.Since(start), fmt.Errorf("effect panic: %v", rec))
					}
				}()
				err := e.ApplyToPlayer(ctx, uid, sndr)
				s.recordEffect(e.Name(), time.Since(start), err)
				return nil
			})
		}
	default:
		s.log.Warn("effect implements neither PlayerEffect nor GlobalEffect", zap.String("effect", eff.Name()))
	}
}

func (s *Scheduler) recordEffect(name string, dur time.Duration, err error) {
	s.mu.Lock()
	m, ok := s.metrics[name]
	if !ok {
		m = &effectMetrics{}
		s.metrics[name] = m
	}
	m.totalTime += dur
	m.count++
	if dur > m.maxTime {
		m.maxTime = dur
	}
	if err != nil {
		m.errors++
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("effect application failed", zap.String("effect", name), zap.Error(err))
	}
}

func (s *Scheduler) recordTick(dur time.Duration) {
	s.mu.Lock()
	s.ticks++
	s.totalDur += dur
	if dur > s.maxDur {
		s.maxDur = dur
	}
	s.mu.Unlock()
}

func (s *Scheduler) logMetrics() {
	s.mu.Lock()
	ticks := s.ticks
	avg := time.Duration(0)
	if ticks > 0 {
		avg = s.totalDur / time.Duration(ticks)
	}
	maxDur := s.maxDur
	fields := []zap.Field{
		zap.Int64("ticks", ticks),
		zap.Duration("avg_tick", avg),
		zap.Duration("max_tick", maxDur),
	}
	for name, m := range s.metrics {
		count := m.count
		if count == 0 {
			continue
		}
		fields = append(fields,
			zap.String("effect_"+name+"_avg", (m.totalTime / time.Duration(count)).String()),
			zap.Int64("effect_"+name+"_errors", m.errors),
		)
	}
	s.mu.Unlock()
	s.log.Info("tick scheduler metrics", fields...)
}
