package domain

import "context"

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, projectID string) (*Project, error)
	FindAll(ctx context.Context, limit int) ([]*Project, error)
	Delete(ctx context.Context, projectID string) error
}

// ArtworkRepository defines the interface for artwork persistence
type ArtworkRepository interface {
	Save(ctx context.Context, artwork *Artwork) error
	SaveAll(ctx context.Context, artworks []*Artwork) error
	FindByID(ctx context.Context, artworkID string) (*Artwork, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*Artwork, error)
	FindByFlowID(ctx context.Context, flowID string) ([]*Artwork, error)
	Delete(ctx context.Context, artworkID string) error
}

// FlowRepository defines the interface for logistics flow persistence
type FlowRepository interface {
	Save(ctx context.Context, flow *LogisticsFlow) error
	SaveAll(ctx context.Context, flows []*LogisticsFlow) error
	FindByID(ctx context.Context, flowID string) (*LogisticsFlow, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*LogisticsFlow, error)
	DeleteByProjectID(ctx context.Context, projectID string) error
}

// QuoteLineRepository defines the interface for quote line persistence
type QuoteLineRepository interface {
	Save(ctx context.Context, line *QuoteLine) error
	SaveAll(ctx context.Context, lines []*QuoteLine) error
	FindByID(ctx context.Context, lineID string) (*QuoteLine, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*QuoteLine, error)
	FindByFlowID(ctx context.Context, flowID string) ([]*QuoteLine, error)
	DeleteByProjectID(ctx context.Context, projectID string) error
}

// ConstraintsRepository defines the interface for constraints matrix
// persistence, one matrix per project
type ConstraintsRepository interface {
	Save(ctx context.Context, matrix *ConstraintsMatrix) error
	FindByProjectID(ctx context.Context, projectID string) (*ConstraintsMatrix, error)
}

// Route is the result of an external route resolution
type Route struct {
	DistanceKm    float64 `json:"distanceKm"`
	DurationHours float64 `json:"durationHours"`
}

// RouteResolver defines the external routing collaborator
type RouteResolver interface {
	Resolve(ctx context.Context, originCity, originCountry, destCity, destCountry string) (*Route, error)
}

// StaffingRecommendation is the result of the external team-recommendation
// collaborator
type StaffingRecommendation struct {
	Members             []TeamMember `json:"members"`
	MissionDurationDays float64      `json:"missionDurationDays"`
	Rationale           string       `json:"rationale,omitempty"`
}

// StaffingPlanner defines the external team-recommendation collaborator
type StaffingPlanner interface {
	Recommend(ctx context.Context, artworkCount int, totalVolumeM3, distanceKm float64, destCountryCode string) (*StaffingRecommendation, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
