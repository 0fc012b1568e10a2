package application

import (
	"encoding/json"
	"time"

	"github.com/expoflow-platform/logistics-service/internal/domain"
)

// CreateProjectCommand creates a new exhibition project
type CreateProjectCommand struct {
	ProjectID        string `json:"projectId"`
	Name             string `json:"name" binding:"required"`
	OrganizerCity    string `json:"organizerCity"`
	OrganizerCountry string `json:"organizerCountry"`
}

// ArtworkInput is one artwork record of a bulk import
type ArtworkInput struct {
	ArtworkID         string          `json:"artworkId"`
	Title             string          `json:"title" binding:"required"`
	Artist            string          `json:"artist"`
	HeightCm          float64         `json:"heightCm" binding:"gte=0"`
	WidthCm           float64         `json:"widthCm" binding:"gte=0"`
	DepthCm           float64         `json:"depthCm" binding:"gte=0"`
	WeightKg          float64         `json:"weightKg" binding:"gte=0"`
	Typology          domain.Typology `json:"typology" binding:"required,typology"`
	Fragility         int             `json:"fragility" binding:"required,min=1,max=5"`
	FragileFrame      bool            `json:"fragileFrame"`
	InsuranceValue    float64         `json:"insuranceValue" binding:"gte=0"`
	LenderCity        string          `json:"lenderCity"`
	LenderCountry     string          `json:"lenderCountry"`
	DestinationCity   string          `json:"destinationCity"`
	SecondDestination string          `json:"secondDestination"`
	ImposedCarrier    string          `json:"imposedCarrier"`
	RequiresCustoms   bool            `json:"requiresCustoms"`
	RequiresCourier   bool            `json:"requiresCourier"`
}

// ImportArtworksCommand bulk-imports artworks into a project
type ImportArtworksCommand struct {
	ProjectID string         `json:"projectId"`
	Artworks  []ArtworkInput `json:"artworks" binding:"required,min=1,dive"`
}

// UpdateArtworkCommand replaces an artwork's physical attributes, triggering
// crate and cost recomputation
type UpdateArtworkCommand struct {
	ArtworkID    string          `json:"artworkId"`
	HeightCm     float64         `json:"heightCm" binding:"gte=0"`
	WidthCm      float64         `json:"widthCm" binding:"gte=0"`
	DepthCm      float64         `json:"depthCm" binding:"gte=0"`
	WeightKg     float64         `json:"weightKg" binding:"gte=0"`
	Typology     domain.Typology `json:"typology" binding:"required,typology"`
	Fragility    int             `json:"fragility" binding:"required,min=1,max=5"`
	FragileFrame bool            `json:"fragileFrame"`
}

// GenerateFlowsCommand triggers a flow generation run for a project
type GenerateFlowsCommand struct {
	ProjectID string `json:"projectId"`
}

// SaveConstraintsCommand stores a schema-validated constraints matrix
type SaveConstraintsCommand struct {
	ProjectID string          `json:"projectId"`
	Matrix    json.RawMessage `json:"matrix"`
}

// ApplyConstraintsCommand runs the rule engine and applies its actions
type ApplyConstraintsCommand struct {
	ProjectID string `json:"projectId"`
}

// GetProjectQuery fetches one project
type GetProjectQuery struct {
	ProjectID string
}

// ConstraintsInput is the structured constraints matrix as received from the
// extraction collaborator
type ConstraintsInput struct {
	Access   domain.AccessConstraints   `json:"access"`
	Security domain.SecurityConstraints `json:"security"`
	Packing  domain.PackingConstraints  `json:"packing"`
	Schedule domain.ScheduleConstraints `json:"schedule"`
}

// ToMatrix converts the input into the domain aggregate
func (c ConstraintsInput) ToMatrix(projectID string) *domain.ConstraintsMatrix {
	now := time.Now()
	return &domain.ConstraintsMatrix{
		ProjectID: projectID,
		Access:    c.Access,
		Security:  c.Security,
		Packing:   c.Packing,
		Schedule:  c.Schedule,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
