package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus tracks a project through planning
type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "draft"
	ProjectStatusPlanning ProjectStatus = "planning"
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusClosed   ProjectStatus = "closed"
)

// Project is the aggregate root for one exhibition logistics project
type Project struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID string             `bson:"projectId"`

	Name             string `bson:"name"`
	OrganizerCity    string `bson:"organizerCity"`
	OrganizerCountry string `bson:"organizerCountry"`

	StartDate *time.Time `bson:"startDate,omitempty"`
	EndDate   *time.Time `bson:"endDate,omitempty"`

	Status ProjectStatus `bson:"status"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewProject creates a new project in draft status
func NewProject(projectID, name, organizerCity, organizerCountry string) *Project {
	now := time.Now()
	return &Project{
		ProjectID:        projectID,
		Name:             name,
		OrganizerCity:    organizerCity,
		OrganizerCountry: organizerCountry,
		Status:           ProjectStatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// TightenEndDate moves the project end date to the deadline only when the end
// date is unset or later; a stricter existing deadline is never relaxed
func (p *Project) TightenEndDate(deadline time.Time) bool {
	if p.EndDate == nil || p.EndDate.After(deadline) {
		d := deadline
		p.EndDate = &d
		p.UpdatedAt = time.Now()
		return true
	}
	return false
}
