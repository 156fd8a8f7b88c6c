package insights

import (
	"fmt"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	engineCacheSize = 64
	engineCacheTTL  = 10 * time.Minute
)

// Engine serves insights for a live store. Month metrics and budget
// summaries are memoised per store revision, so a change to the store
// always yields fresh results.
type Engine struct {
	store   *store.Store
	now     func() time.Time
	metrics *cache.LRUCache[MonthMetrics]
	budgets *cache.LRUCache[BudgetSummary]
}

type EngineOption func(*Engine)

// WithClock replaces time.Now for "current month" and "today".
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(s *store.Store, opts ...EngineOption) *Engine {
	e := &Engine{store: s, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.metrics = cache.NewLRUCacheWithClock[MonthMetrics](engineCacheSize, engineCacheTTL, e.now)
	e.budgets = cache.NewLRUCacheWithClock[BudgetSummary](engineCacheSize, engineCacheTTL, e.now)
	return e
}

// Caches exposes the memo caches for periodic cleanup.
func (e *Engine) Caches() []cache.Cleaner {
	return []cache.Cleaner{e.metrics, e.budgets}
}

// CurrentMonth is the month containing the engine's now.
func (e *Engine) CurrentMonth() core.YearMonth {
	return core.MonthOf(e.now())
}

func (e *Engine) Today() core.Date {
	return core.DateOf(e.now())
}

func cacheKey(rev uint64, month core.YearMonth) string {
	return fmt.Sprintf("%d:%s", rev, month)
}

func (e *Engine) MonthMetrics(month core.YearMonth) MonthMetrics {
	d, rev := e.store.View()
	return e.metrics.GetOrCompute(cacheKey(rev, month), func() MonthMetrics { return Metrics(d, month) })
}

func (e *Engine) BudgetSummary(month core.YearMonth) BudgetSummary {
	d, rev := e.store.View()
	return e.budgets.GetOrCompute(cacheKey(rev, month), func() BudgetSummary { return SummarizeBudgets(d, month) })
}

func (e *Engine) Dashboard() Dashboard {
	return BuildDashboard(e.store.Snapshot())
}

func (e *Engine) Trend(n int) []core.MonthOverview {
	return TrendSeries(e.store.Snapshot(), n)
}

func (e *Engine) Suggestions() []Suggestion {
	return Suggestions(e.store.Snapshot(), e.CurrentMonth())
}

func (e *Engine) Upcoming() []UpcomingItem {
	return Upcoming(e.store.Snapshot(), e.Today(), DefaultUpcomingDays)
}
