package store

import (
	"time"

	"github.com/repkit/appreg/pkg/fingerprint"
)

// Status is the lifecycle position of an application. The progression
// new → analyzed → packaged → pending_deployment → deployed is a convention
// driven by CLI commands; the store does not reject out-of-order transitions,
// but it does reject values outside this set.
type Status string

const (
	StatusNew               Status = "new"
	StatusAnalyzed          Status = "analyzed"
	StatusPackaged          Status = "packaged"
	StatusPendingDeployment Status = "pending_deployment"
	StatusDeployed          Status = "deployed"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusAnalyzed, StatusPackaged, StatusPendingDeployment, StatusDeployed:
		return true
	}
	return false
}

// Statuses lists all valid status values in lifecycle order.
func Statuses() []Status {
	return []Status{StatusNew, StatusAnalyzed, StatusPackaged, StatusPendingDeployment, StatusDeployed}
}

// Application is the GORM model for one tracked application directory.
// Version starts at 1 on discovery and only ever increases, and only
// alongside a ContentHash change. ContentHash stays empty until the first
// analysis or packaging pass.
type Application struct {
	ID           uint               `gorm:"primaryKey"`
	Name         string             `gorm:"column:name;uniqueIndex:idx_application_name;not null"`
	Path         string             `gorm:"column:path;not null"`
	Status       Status             `gorm:"column:status;not null;default:new"`
	Version      int                `gorm:"column:version;not null;default:1"`
	ContentHash  fingerprint.Digest `gorm:"column:content_hash;type:text"`
	ArtifactPath string             `gorm:"column:artifact_path"`
	CreatedAt    time.Time          `gorm:"column:created_at"`
	UpdatedAt    time.Time          `gorm:"column:updated_at"`
}

func (Application) TableName() string { return "applications" }

// Note is a free-form, append-only annotation on an application.
type Note struct {
	ID            uint      `gorm:"primaryKey"`
	ApplicationID uint      `gorm:"column:application_id;index:idx_note_app;not null"`
	Text          string    `gorm:"column:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (Note) TableName() string { return "notes" }

// Discrepancy is an append-only record of one failed structural check at a
// point in time. It is a log entry, not live state; re-analysis appends new
// rows rather than reconciling old ones.
type Discrepancy struct {
	ID            uint      `gorm:"primaryKey"`
	ApplicationID uint      `gorm:"column:application_id;index:idx_discrepancy_app;not null"`
	Kind          string    `gorm:"column:kind;not null"`
	Detail        string    `gorm:"column:detail"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (Discrepancy) TableName() string { return "discrepancies" }

// DeploymentStep is one entry in an application's ordered deployment
// checklist. Append-only; Position fixes the display order.
type DeploymentStep struct {
	ID            uint      `gorm:"primaryKey"`
	ApplicationID uint      `gorm:"column:application_id;index:idx_step_app;not null"`
	Position      int       `gorm:"column:position;not null"`
	Text          string    `gorm:"column:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (DeploymentStep) TableName() string { return "deployment_steps" }
