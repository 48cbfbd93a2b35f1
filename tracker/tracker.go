/*
Package tracker orchestrates engine sessions over the exercise collection.

PURPOSE:
  The tracker owns the in-memory collection (the unit of persistence)
  and is the only layer that touches the store. Every operation follows
  the same pipeline:

    rollover (lazy, idempotent) -> ledger mutation -> cache
    invalidation -> achievement evaluation -> save

  Rollover-first is enforced here, at the top of every entry point that
  reads or writes counters, so call sites can't forget it. Cache
  invalidation has exactly one call site per mutation primitive.

FAILURE MODEL:
  Store load failures yield an empty collection. Save failures are
  logged and swallowed: in-memory state stays authoritative for the
  rest of the session but won't survive a restart. User-input errors
  (blank name, non-positive target) are rejected at this boundary with
  the exercise package sentinels; nothing deeper re-validates.

CONCURRENCY:
  Operations are synchronous and run to completion; a mutex serializes
  them because the HTTP layer is concurrent. Every exercise returned to
  a caller is a deep copy taken under the lock: no live pointer into
  the collection escapes, so callers may read their result while other
  requests mutate. There is no cross-process locking - two instances
  sharing a store are last-write-wins.

SEE ALSO:
  - quickaction.go: URL-triggered one-shot actions
  - importexport.go: JSON array boundary with normalization
*/
package tracker

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/warp/quota-engine/achievements"
	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/ledger"
	"github.com/warp/quota-engine/metrics"
	"github.com/warp/quota-engine/store"
)

// Tracker is the engine facade consumed by the API layer.
type Tracker struct {
	mu      sync.Mutex
	store   store.Store
	metrics *metrics.Engine
	now     func() ledger.Day
	log     *log.Entry

	list []*exercise.Exercise
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the day source. Tests freeze it.
func WithClock(now func() ledger.Day) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger overrides the side-channel logger.
func WithLogger(entry *log.Entry) Option {
	return func(t *Tracker) { t.log = entry }
}

func New(st store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   st,
		metrics: metrics.NewEngine(),
		now:     ledger.Today,
		log:     log.WithField("component", "tracker"),
		list:    []*exercise.Exercise{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load populates the collection from the store, normalizing every
// record and catching each exercise up to today (the original client
// does the same on page load). Never fails: missing or corrupt data
// starts an empty collection.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.store.Load(ctx)
	if err != nil {
		t.log.WithError(err).Warn("load failed, starting with empty collection")
		list = []*exercise.Exercise{}
	}

	today := t.now()
	changed := false
	for _, e := range list {
		e.Normalize(today)
		if t.applyRollover(e, today) {
			changed = true
		}
	}
	t.list = list
	if changed {
		t.persist(ctx)
	}
	return nil
}

// applyRollover pairs the pure rollover with cache invalidation; this
// is the single site where the two meet.
func (t *Tracker) applyRollover(e *exercise.Exercise, today ledger.Day) bool {
	if !exercise.ApplyRollover(e, today) {
		return false
	}
	t.metrics.Invalidate(e.ID, today)
	return true
}

// persist saves the collection, logging (not returning) failures.
func (t *Tracker) persist(ctx context.Context) {
	if err := t.store.Save(ctx, t.list); err != nil {
		t.log.WithError(err).Error("save failed; in-memory state remains authoritative this session")
	}
}

func (t *Tracker) find(id string) *exercise.Exercise {
	for _, e := range t.list {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// =============================================================================
// READ SESSIONS
// =============================================================================

// List returns a deep copy of every exercise, rolled over to today.
func (t *Tracker) List(ctx context.Context) []*exercise.Exercise {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now()
	changed := false
	for _, e := range t.list {
		if t.applyRollover(e, today) {
			changed = true
		}
	}
	if changed {
		t.persist(ctx)
	}

	out := make([]*exercise.Exercise, len(t.list))
	for i, e := range t.list {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a deep copy of one exercise, rolled over to today.
func (t *Tracker) Get(ctx context.Context, id string) (*exercise.Exercise, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.getRolledOver(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

func (t *Tracker) getRolledOver(ctx context.Context, id string) (*exercise.Exercise, error) {
	e := t.find(id)
	if e == nil {
		return nil, exercise.ErrNotFound
	}
	if t.applyRollover(e, t.now()) {
		t.persist(ctx)
	}
	return e, nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// CreateParams carries validated-at-the-boundary creation input.
// Zero-valued optional fields take their defaults.
type CreateParams struct {
	Name                string
	DailyTarget         int
	DecrementStep       int     // 0 = default (10)
	CompletionThreshold float64 // 0 = default (1.0), else clamped [0.5, 1.0]
	WeeklyGoal          int     // 0 = derived from dailyTarget*7
	QuickSteps          []int
}

// Create adds a new exercise with today's quota already planned.
func (t *Tracker) Create(ctx context.Context, p CreateParams) (*exercise.Exercise, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, exercise.ErrEmptyName
	}
	if p.DailyTarget < 1 {
		return nil, exercise.ErrInvalidTarget
	}
	if p.DecrementStep < 0 {
		return nil, exercise.ErrInvalidStep
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := exercise.New(strings.TrimSpace(p.Name), p.DailyTarget, t.now())
	if p.DecrementStep > 0 {
		e.DecrementStep = p.DecrementStep
	}
	if p.CompletionThreshold != 0 {
		e.CompletionThreshold = p.CompletionThreshold
	}
	if p.WeeklyGoal > 0 {
		e.WeeklyGoal = p.WeeklyGoal
	}
	if len(p.QuickSteps) > 0 {
		e.QuickSteps = p.QuickSteps
	}
	e.Normalize(t.now())

	t.list = append(t.list, e)
	t.persist(ctx)
	return e.Clone(), nil
}

// UpdateParams carries edit input; nil fields are left untouched.
// Remaining is deliberately not editable: it only moves through
// rollover, logging and add-target.
type UpdateParams struct {
	Name                *string
	DailyTarget         *int
	DecrementStep       *int
	CompletionThreshold *float64
	WeeklyGoal          *int
	QuickSteps          []int
}

// Update edits an exercise in place. A threshold change redefines what
// "completed" means, so it invalidates the streak cache.
func (t *Tracker) Update(ctx context.Context, id string, p UpdateParams) (*exercise.Exercise, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.getRolledOver(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, exercise.ErrEmptyName
		}
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.DailyTarget != nil {
		if *p.DailyTarget < 1 {
			return nil, exercise.ErrInvalidTarget
		}
		e.DailyTarget = *p.DailyTarget
	}
	if p.DecrementStep != nil {
		if *p.DecrementStep < 1 {
			return nil, exercise.ErrInvalidStep
		}
		e.DecrementStep = *p.DecrementStep
	}
	if p.CompletionThreshold != nil {
		e.CompletionThreshold = *p.CompletionThreshold
		e.Normalize(t.now()) // clamp
		t.metrics.Invalidate(e.ID, t.now())
	}
	if p.WeeklyGoal != nil {
		e.WeeklyGoal = *p.WeeklyGoal
	}
	if p.QuickSteps != nil {
		e.QuickSteps = p.QuickSteps
	}
	e.Normalize(t.now())

	t.persist(ctx)
	return e.Clone(), nil
}

// Delete removes an exercise and its cached metrics.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range t.list {
		if e.ID == id {
			t.list = append(t.list[:i], t.list[i+1:]...)
			t.metrics.Invalidate(id, t.now())
			t.persist(ctx)
			return nil
		}
	}
	return exercise.ErrNotFound
}

// =============================================================================
// LOGGING SURFACE
// =============================================================================

// LogDone records amount repetitions against today: remaining floors
// at zero, the ledger only goes up, and new badges are evaluated.
func (t *Tracker) LogDone(ctx context.Context, id string, amount int) (*exercise.Exercise, error) {
	if amount < 1 {
		return nil, exercise.ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.find(id)
	if e == nil {
		return nil, exercise.ErrNotFound
	}
	t.logDoneLocked(ctx, e, amount)
	return e.Clone(), nil
}

func (t *Tracker) logDoneLocked(ctx context.Context, e *exercise.Exercise, amount int) {
	today := t.now()
	t.applyRollover(e, today)

	e.Remaining -= amount
	if e.Remaining < 0 {
		e.Remaining = 0
	}
	e.History.AddDone(today, amount)
	t.metrics.Invalidate(e.ID, today)

	if achievements.Evaluate(e, t.metrics.Snapshot(e, today)) {
		t.log.WithFields(log.Fields{"exercise": e.Name, "badges": e.Badges}).Info("new achievement earned")
	}
	t.persist(ctx)
}

// AddTarget adds one more daily quota to today: both remaining and
// today's planned grow by dailyTarget.
func (t *Tracker) AddTarget(ctx context.Context, id string) (*exercise.Exercise, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.find(id)
	if e == nil {
		return nil, exercise.ErrNotFound
	}
	t.addTargetLocked(ctx, e, 1)
	return e.Clone(), nil
}

func (t *Tracker) addTargetLocked(ctx context.Context, e *exercise.Exercise, times int) {
	if times < 1 {
		times = 1
	}
	today := t.now()
	t.applyRollover(e, today)

	inc := e.DailyTarget * times
	if inc < 1 {
		inc = 1
	}
	e.Remaining += inc
	e.History.AddPlanned(today, inc)
	t.metrics.Invalidate(e.ID, today)
	t.persist(ctx)
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// Stats is the full derived-metrics view for one exercise.
type Stats struct {
	Exercise       *exercise.Exercise
	CurrentStreak  int
	LongestStreak  int
	LifetimeDone   int
	BestDay        ledger.Day
	BestValue      int
	WeeklyDone     int
	WeeklyGoal     int
	WeeklyFraction decimal.Decimal
	CompletedToday bool
}

// Stats computes every derived metric for the exercise as of today.
func (t *Tracker) Stats(ctx context.Context, id string) (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.getRolledOver(ctx, id)
	if err != nil {
		return Stats{}, err
	}

	today := t.now()
	bestDay, bestValue := t.metrics.PersonalBest(e)
	weeklyDone, weeklyGoal, fraction := t.metrics.WeeklyProgress(e, today)
	return Stats{
		Exercise:       e.Clone(),
		CurrentStreak:  t.metrics.CurrentStreak(e, today),
		LongestStreak:  t.metrics.LongestStreak(e),
		LifetimeDone:   t.metrics.LifetimeDone(e),
		BestDay:        bestDay,
		BestValue:      bestValue,
		WeeklyDone:     weeklyDone,
		WeeklyGoal:     weeklyGoal,
		WeeklyFraction: fraction,
		CompletedToday: t.metrics.IsCompleted(e, today),
	}, nil
}

// DayRow is one line of the history view.
type DayRow struct {
	Day       ledger.Day
	Planned   int
	Done      int
	Completed bool
}

// RangeTotals summarizes a trailing window.
type RangeTotals struct {
	Planned int
	Done    int
}

// HistoryView backs the history panel: recent rows plus the 7- and
// 30-day summaries the original app showed above them.
type HistoryView struct {
	Rows  []DayRow
	Week  RangeTotals
	Month RangeTotals
}

// History returns the last n days of ledger rows, oldest first.
func (t *Tracker) History(ctx context.Context, id string, n int) (HistoryView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.getRolledOver(ctx, id)
	if err != nil {
		return HistoryView{}, err
	}

	today := t.now()
	days := ledger.RecentDays(today, n)
	rows := make([]DayRow, len(days))
	for i, day := range days {
		entry := e.History.Get(day)
		rows[i] = DayRow{
			Day:       day,
			Planned:   entry.Planned,
			Done:      entry.Done,
			Completed: t.metrics.IsCompleted(e, day),
		}
	}

	weekPlanned, weekDone := t.metrics.RangeSummary(e, today, 7)
	monthPlanned, monthDone := t.metrics.RangeSummary(e, today, 30)
	return HistoryView{
		Rows:  rows,
		Week:  RangeTotals{Planned: weekPlanned, Done: weekDone},
		Month: RangeTotals{Planned: monthPlanned, Done: monthDone},
	}, nil
}
