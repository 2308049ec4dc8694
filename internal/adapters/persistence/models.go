package persistence

import (
	"time"
)

// WorkshopModel represents the workshops table
type WorkshopModel struct {
	ID              string     `gorm:"column:id;primaryKey;not null"`
	Name            string     `gorm:"column:name"`
	Working         bool       `gorm:"column:working;default:false"`
	Workforce       float64    `gorm:"column:workforce;default:0"`
	MaxWorkforce    float64    `gorm:"column:max_workforce;default:0"`
	PosX            float64    `gorm:"column:pos_x"`
	PosY            float64    `gorm:"column:pos_y"`
	PosZ            float64    `gorm:"column:pos_z"`
	CurrentJob      string     `gorm:"column:current_job"`
	LastUpdate      *time.Time `gorm:"column:last_update"`
	EndTimeEstimate *time.Time `gorm:"column:end_time_estimate"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (WorkshopModel) TableName() string {
	return "workshops"
}

// WorkshopQueueEntryModel represents the workshop_queue_entries table
type WorkshopQueueEntryModel struct {
	WorkshopID string         `gorm:"column:workshop_id;primaryKey;not null"`
	Position   int            `gorm:"column:position;primaryKey;not null"`
	Workshop   *WorkshopModel `gorm:"foreignKey:WorkshopID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	JobRef     string         `gorm:"column:job_ref;not null"`
}

func (WorkshopQueueEntryModel) TableName() string {
	return "workshop_queue_entries"
}

// JobProgressModel represents the job_progress table
type JobProgressModel struct {
	HostID     string    `gorm:"column:host_id;primaryKey;not null"`
	JobName    string    `gorm:"column:job_name"`
	StageIndex int       `gorm:"column:stage_index;default:0"`
	Members    string    `gorm:"column:members;type:text"` // JSON as text
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (JobProgressModel) TableName() string {
	return "job_progress"
}

// WorkshopNoticeModel represents the workshop_notices table
type WorkshopNoticeModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	WorkshopID string    `gorm:"column:workshop_id;not null;index"`
	Timestamp  time.Time `gorm:"column:timestamp;not null"`
	Level      string    `gorm:"column:level;not null;default:'INFO'"`
	Kind       string    `gorm:"column:kind;not null"`
	JobRef     string    `gorm:"column:job_ref"`
	Message    string    `gorm:"column:message;type:text;not null"`
}

func (WorkshopNoticeModel) TableName() string {
	return "workshop_notices"
}
