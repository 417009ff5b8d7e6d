package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"newswatch/internal/domain"
	"newswatch/internal/infrastructure/scheduler"
	"newswatch/internal/ports"
)

// ManagerDeps wires the scrape engine and store into the schedule manager.
type ManagerDeps struct {
	Engine *Engine
	Store  ports.Store
	Logger *slog.Logger
}

// Manager owns one recurring timer per site and is the only entry point the
// surrounding API layer calls: create/delete/update schedules, run-all, and
// single manual runs.
type Manager struct {
	engine *Engine
	store  ports.Store
	logger *slog.Logger

	mu      sync.Mutex
	entries map[int64]*scheduleState
}

type scheduleState struct {
	timer *scheduler.Timer
	entry domain.ScheduleEntry
}

// SiteResult is one entry of a run-all sweep.
type SiteResult struct {
	SiteID  int64
	Summary domain.RunSummary
	Err     error
}

// NewManager builds an empty schedule manager.
func NewManager(deps ManagerDeps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		engine:  deps.Engine,
		store:   deps.Store,
		logger:  logger,
		entries: map[int64]*scheduleState{},
	}
}

// CreateSchedule installs a recurring scrape timer for the site. An existing
// timer for the same site is cancelled first, so repeated calls replace
// rather than duplicate; the one-entry-per-site invariant holds.
func (m *Manager) CreateSchedule(ctx context.Context, siteID int64, interval time.Duration) error {
	if interval <= 0 {
		interval = domain.DefaultScrapeInterval
	}

	next := time.Now().UTC().Add(interval)
	entry := domain.ScheduleEntry{
		SiteID:   siteID,
		Interval: interval,
		Active:   true,
		NextRun:  &next,
	}

	m.mu.Lock()
	if st, ok := m.entries[siteID]; ok {
		st.timer.Stop()
	}
	timer := scheduler.NewTimer(interval)
	m.entries[siteID] = &scheduleState{timer: timer, entry: entry}
	// Start under the lock (Start only spawns a goroutine) so a concurrent
	// delete cannot land between registration and start and leave an orphan
	// ticker behind.
	timer.Start(ctx, func(time.Time) {
		m.tick(ctx, siteID)
	})
	m.mu.Unlock()

	if err := m.store.SaveSchedule(ctx, entry); err != nil {
		m.logger.Warn("schedule not persisted", "site_id", siteID, "error", err)
	}
	m.logger.Info("schedule installed", "site_id", siteID, "interval", interval)
	return nil
}

// DeleteSchedule cancels the site's timer and removes its entry; a missing
// schedule is a no-op.
func (m *Manager) DeleteSchedule(ctx context.Context, siteID int64) {
	m.mu.Lock()
	st, ok := m.entries[siteID]
	if ok {
		st.timer.Stop()
		delete(m.entries, siteID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	if err := m.store.DeleteSchedule(ctx, siteID); err != nil {
		m.logger.Warn("schedule row not deleted", "site_id", siteID, "error", err)
	}
	m.logger.Info("schedule removed", "site_id", siteID)
}

// UpdateSchedule changes interval and/or active flag. Deactivating stops the
// timer; activating or changing the interval tears the timer down and
// reinstalls it, never patching a live timer in place.
func (m *Manager) UpdateSchedule(ctx context.Context, siteID int64, interval *time.Duration, active *bool) error {
	m.mu.Lock()
	st, ok := m.entries[siteID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("no schedule for site %d", siteID)
	}

	if interval != nil && *interval > 0 {
		st.entry.Interval = *interval
	}
	if active != nil {
		st.entry.Active = *active
	}
	entry := st.entry
	st.timer.Stop()

	if entry.Active {
		timer := scheduler.NewTimer(entry.Interval)
		next := time.Now().UTC().Add(entry.Interval)
		st.entry.NextRun = &next
		st.timer = timer
		entry = st.entry
		// Same as CreateSchedule: start before unlocking so delete cannot
		// race the reinstall.
		timer.Start(ctx, func(time.Time) {
			m.tick(ctx, siteID)
		})
		m.mu.Unlock()
	} else {
		st.entry.NextRun = nil
		entry = st.entry
		m.mu.Unlock()
	}

	if err := m.store.SaveSchedule(ctx, entry); err != nil {
		m.logger.Warn("schedule not persisted", "site_id", siteID, "error", err)
	}
	return nil
}

// RunOnce triggers a manual scrape for one site.
func (m *Manager) RunOnce(ctx context.Context, siteID int64) (domain.RunSummary, error) {
	site, err := m.store.GetSite(ctx, siteID)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("load site %d: %w", siteID, err)
	}
	return m.engine.RunOnce(ctx, site), nil
}

// RunAllNow synchronously runs every active schedule, one site after
// another, and returns the per-site results in site-id order.
func (m *Manager) RunAllNow(ctx context.Context) []SiteResult {
	m.mu.Lock()
	ids := make([]int64, 0, len(m.entries))
	for id, st := range m.entries {
		if st.entry.Active {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := make([]SiteResult, 0, len(ids))
	for _, id := range ids {
		summary, err := m.RunOnce(ctx, id)
		results = append(results, SiteResult{SiteID: id, Summary: summary, Err: err})
	}
	return results
}

// Entries returns a snapshot of all schedule entries.
func (m *Manager) Entries() []domain.ScheduleEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]domain.ScheduleEntry, 0, len(m.entries))
	for _, st := range m.entries {
		entries = append(entries, st.entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SiteID < entries[j].SiteID })
	return entries
}

// Stop cancels every timer. In-flight runs are not interrupted.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.entries {
		st.timer.Stop()
	}
}

// tick runs one scheduled scrape and records run statistics regardless of
// outcome. A panicking run is caught here so the timer survives, and still
// counts as an unsuccessful run.
func (m *Manager) tick(ctx context.Context, siteID int64) {
	var summary domain.RunSummary
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("scheduled scrape panicked", "site_id", siteID, "panic", r)
		}
		m.recordTick(ctx, siteID, summary.Success)
	}()

	site, err := m.store.GetSite(ctx, siteID)
	if err != nil {
		m.logger.Error("scheduled scrape failed", "site_id", siteID, "error", err)
		return
	}
	summary = m.engine.RunOnce(ctx, site)
}

// recordTick advances the entry's run statistics and persists them.
func (m *Manager) recordTick(ctx context.Context, siteID int64, success bool) {
	m.mu.Lock()
	st, ok := m.entries[siteID]
	if !ok {
		// Schedule was removed while the run was in flight.
		m.mu.Unlock()
		return
	}
	now := time.Now().UTC()
	next := now.Add(st.entry.Interval)
	st.entry.LastRun = &now
	st.entry.NextRun = &next
	st.entry.TotalRuns++
	if success {
		st.entry.SuccessfulRuns++
	}
	entry := st.entry
	m.mu.Unlock()

	if err := m.store.SaveSchedule(ctx, entry); err != nil {
		m.logger.Warn("schedule stats not persisted", "site_id", siteID, "error", err)
	}
}
