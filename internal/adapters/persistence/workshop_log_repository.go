package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// NoticeEntry is a persisted workshop notice
type NoticeEntry struct {
	ID         int
	WorkshopID string
	Timestamp  time.Time
	Level      string
	Kind       workshop.NoticeKind
	Job        workshop.JobRef
	Message    string
}

// GormWorkshopLogRepository stores workshop notices.
// A throttled job repeats the same notice every tick, so identical notices
// are written at most once per dedup window.
type GormWorkshopLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: workshopID|kind|job|message
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormWorkshopLogRepository creates a new notice log.
// If clock is nil, uses RealClock
func NewGormWorkshopLogRepository(db *gorm.DB, clock shared.Clock) *GormWorkshopLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormWorkshopLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// WithDedupWindow overrides the default 60s window. Non-positive windows
// disable deduplication.
func (r *GormWorkshopLogRepository) WithDedupWindow(window time.Duration) *GormWorkshopLogRepository {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()
	r.dedupWindow = window
	return r
}

// Log writes a notice unless an identical one was written within the window
func (r *GormWorkshopLogRepository) Log(ctx context.Context, workshopID string, notice workshop.Notice) error {
	now := r.clock.Now()
	cacheKey := workshopID + "|" + string(notice.Kind) + "|" + string(notice.Job) + "|" + notice.Message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	entry := &WorkshopNoticeModel{
		WorkshopID: workshopID,
		Timestamp:  now,
		Level:      notice.Kind.Level(),
		Kind:       string(notice.Kind),
		JobRef:     string(notice.Job),
		Message:    notice.Message,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Must be called while holding dedupMu
func (r *GormWorkshopLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves the newest notices of a workshop, optionally filtered by
// level and start time
func (r *GormWorkshopLogRepository) GetLogs(ctx context.Context, workshopID string, limit int, level *string, since *time.Time) ([]NoticeEntry, error) {
	var models []WorkshopNoticeModel

	query := r.db.WithContext(ctx).Where("workshop_id = ?", workshopID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}
	query = query.Order("timestamp DESC").Order("id DESC").Limit(limit)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]NoticeEntry, len(models))
	for i, model := range models {
		entries[i] = NoticeEntry{
			ID:         model.ID,
			WorkshopID: model.WorkshopID,
			Timestamp:  model.Timestamp,
			Level:      model.Level,
			Kind:       workshop.NoticeKind(model.Kind),
			Job:        workshop.JobRef(model.JobRef),
			Message:    model.Message,
		}
	}
	return entries, nil
}

// Recent implements the notice history port on top of GetLogs
func (r *GormWorkshopLogRepository) Recent(ctx context.Context, workshopID string, limit int, level string) ([]ports.NoticeRecord, error) {
	var levelFilter *string
	if level != "" {
		levelFilter = &level
	}
	entries, err := r.GetLogs(ctx, workshopID, limit, levelFilter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read notices of %s: %w", workshopID, err)
	}

	records := make([]ports.NoticeRecord, len(entries))
	for i, e := range entries {
		records[i] = ports.NoticeRecord{
			Timestamp: e.Timestamp,
			Level:     e.Level,
			Notice:    workshop.Notice{Kind: e.Kind, Job: e.Job, Message: e.Message},
		}
	}
	return records, nil
}
