package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

// GormJobProgressRepository persists composite job progress keyed by host id
type GormJobProgressRepository struct {
	db *gorm.DB
}

// NewGormJobProgressRepository creates a new job progress repository
func NewGormJobProgressRepository(db *gorm.DB) *GormJobProgressRepository {
	return &GormJobProgressRepository{db: db}
}

// Save upserts the progress of the job owned by hostID
func (r *GormJobProgressRepository) Save(ctx context.Context, hostID, jobName string, progress work.CompositeProgress) error {
	membersJSON, err := json.Marshal(progress.Members)
	if err != nil {
		return fmt.Errorf("failed to serialize progress of %s: %w", hostID, err)
	}

	model := &JobProgressModel{
		HostID:     hostID,
		JobName:    jobName,
		StageIndex: progress.StageIndex,
		Members:    string(membersJSON),
		UpdatedAt:  time.Now(),
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "host_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"job_name", "stage_index", "members", "updated_at"}),
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save progress of %s: %w", hostID, err)
	}
	return nil
}

// FindByHost returns the persisted progress, or nil when none exists
func (r *GormJobProgressRepository) FindByHost(ctx context.Context, hostID string) (*work.CompositeProgress, error) {
	var model JobProgressModel
	err := r.db.WithContext(ctx).Where("host_id = ?", hostID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find progress of %s: %w", hostID, err)
	}

	progress := &work.CompositeProgress{StageIndex: model.StageIndex}
	if model.Members != "" {
		if err := json.Unmarshal([]byte(model.Members), &progress.Members); err != nil {
			return nil, fmt.Errorf("failed to parse progress of %s: %w", hostID, err)
		}
	}
	return progress, nil
}

// Delete forgets the progress of a host, typically once its job completed
func (r *GormJobProgressRepository) Delete(ctx context.Context, hostID string) error {
	if err := r.db.WithContext(ctx).Where("host_id = ?", hostID).Delete(&JobProgressModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete progress of %s: %w", hostID, err)
	}
	return nil
}
