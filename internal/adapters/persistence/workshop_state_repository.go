package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// GormWorkshopStateRepository persists workshop scheduling state using GORM
type GormWorkshopStateRepository struct {
	db *gorm.DB
}

// NewGormWorkshopStateRepository creates a new workshop state repository
func NewGormWorkshopStateRepository(db *gorm.DB) *GormWorkshopStateRepository {
	return &GormWorkshopStateRepository{db: db}
}

// Save upserts the workshop row and replaces its queue entries in one transaction
func (r *GormWorkshopStateRepository) Save(ctx context.Context, snapshot workshop.Snapshot) error {
	model := &WorkshopModel{
		ID:              snapshot.ID,
		Name:            snapshot.Name,
		Working:         snapshot.Working,
		Workforce:       snapshot.Workforce,
		MaxWorkforce:    snapshot.MaxWorkforce,
		PosX:            snapshot.Position.X,
		PosY:            snapshot.Position.Y,
		PosZ:            snapshot.Position.Z,
		CurrentJob:      string(snapshot.Current),
		LastUpdate:      timePtr(snapshot.LastUpdate),
		EndTimeEstimate: timePtr(snapshot.EndTimeEstimate),
		UpdatedAt:       time.Now(),
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "working", "workforce", "max_workforce",
				"pos_x", "pos_y", "pos_z", "current_job",
				"last_update", "end_time_estimate", "updated_at",
			}),
		}).Create(model).Error; err != nil {
			return fmt.Errorf("failed to save workshop %s: %w", snapshot.ID, err)
		}

		if err := tx.Where("workshop_id = ?", snapshot.ID).Delete(&WorkshopQueueEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear queue of workshop %s: %w", snapshot.ID, err)
		}

		if len(snapshot.Queue) == 0 {
			return nil
		}

		entries := make([]WorkshopQueueEntryModel, len(snapshot.Queue))
		for i, ref := range snapshot.Queue {
			entries[i] = WorkshopQueueEntryModel{
				WorkshopID: snapshot.ID,
				Position:   i,
				JobRef:     string(ref),
			}
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to save queue of workshop %s: %w", snapshot.ID, err)
		}
		return nil
	})
}

// FindByID returns the persisted snapshot, or nil when the workshop was never saved
func (r *GormWorkshopStateRepository) FindByID(ctx context.Context, id string) (*workshop.Snapshot, error) {
	var model WorkshopModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workshop %s: %w", id, err)
	}

	queue, err := r.loadQueue(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := modelToSnapshot(model, queue)
	return &snapshot, nil
}

// FindAll returns every persisted snapshot ordered by id
func (r *GormWorkshopStateRepository) FindAll(ctx context.Context) ([]workshop.Snapshot, error) {
	var models []WorkshopModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list workshops: %w", err)
	}

	snapshots := make([]workshop.Snapshot, 0, len(models))
	for _, model := range models {
		queue, err := r.loadQueue(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, modelToSnapshot(model, queue))
	}
	return snapshots, nil
}

// Delete removes a workshop and its queue entries
func (r *GormWorkshopStateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workshop_id = ?", id).Delete(&WorkshopQueueEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete queue of workshop %s: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&WorkshopModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete workshop %s: %w", id, err)
		}
		return nil
	})
}

func (r *GormWorkshopStateRepository) loadQueue(ctx context.Context, workshopID string) ([]workshop.JobRef, error) {
	var entries []WorkshopQueueEntryModel
	err := r.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load queue of workshop %s: %w", workshopID, err)
	}

	queue := make([]workshop.JobRef, len(entries))
	for i, e := range entries {
		queue[i] = workshop.JobRef(e.JobRef)
	}
	return queue, nil
}

func modelToSnapshot(model WorkshopModel, queue []workshop.JobRef) workshop.Snapshot {
	s := workshop.Snapshot{
		ID:           model.ID,
		Name:         model.Name,
		Working:      model.Working,
		Workforce:    model.Workforce,
		MaxWorkforce: model.MaxWorkforce,
		Position:     shared.NewPosition(model.PosX, model.PosY, model.PosZ),
		Current:      workshop.JobRef(model.CurrentJob),
		Queue:        queue,
	}
	if model.LastUpdate != nil {
		s.LastUpdate = *model.LastUpdate
	}
	if model.EndTimeEstimate != nil {
		s.EndTimeEstimate = *model.EndTimeEstimate
	}
	return s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
