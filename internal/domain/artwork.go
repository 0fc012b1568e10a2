package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrInvalidDimensions = errors.New("artwork dimensions must not be negative")
	ErrInvalidWeight     = errors.New("artwork weight must not be negative")
	ErrInvalidFragility  = errors.New("artwork fragility must be between 1 and 5")
	ErrInvalidTypology   = errors.New("invalid artwork typology")
	ErrArtworkNotFound   = errors.New("artwork not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrFlowNotFound      = errors.New("flow not found")
	ErrQuoteLineNotFound = errors.New("quote line not found")
)

// Typology classifies an artwork for packing and handling purposes
type Typology string

const (
	TypologyPainting     Typology = "painting"
	TypologySculpture    Typology = "sculpture"
	TypologyObject       Typology = "object"
	TypologyInstallation Typology = "installation"
)

// ValidTypology reports whether t is a known typology
func ValidTypology(t Typology) bool {
	switch t {
	case TypologyPainting, TypologySculpture, TypologyObject, TypologyInstallation:
		return true
	}
	return false
}

// Artwork is the aggregate root for a lent exhibition piece
type Artwork struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ArtworkID      string             `bson:"artworkId"`
	ProjectID      string             `bson:"projectId"`
	Title          string             `bson:"title"`
	Artist         string             `bson:"artist,omitempty"`
	HeightCm       float64            `bson:"heightCm"`
	WidthCm        float64            `bson:"widthCm"`
	DepthCm        float64            `bson:"depthCm"`
	WeightKg       float64            `bson:"weightKg"`
	Typology       Typology           `bson:"typology"`
	Fragility      int                `bson:"fragility"`
	FragileFrame   bool               `bson:"fragileFrame"`
	InsuranceValue float64            `bson:"insuranceValue,omitempty"`

	// Lender location and optional tour waypoints
	LenderCity        string `bson:"lenderCity"`
	LenderCountry     string `bson:"lenderCountry"`
	DestinationCity   string `bson:"destinationCity,omitempty"`
	SecondDestination string `bson:"secondDestination,omitempty"`

	// Operator flags that escalate flow status
	ImposedCarrier  string `bson:"imposedCarrier,omitempty"`
	RequiresCustoms bool   `bson:"requiresCustoms"`
	RequiresCourier bool   `bson:"requiresCourier"`

	// Derived packing data, recomputed whenever physical attributes change
	CrateSpec *CrateSpecification `bson:"crateSpec,omitempty"`
	CrateCost *CostBreakdown      `bson:"crateCost,omitempty"`

	FlowID string `bson:"flowId,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewArtwork creates a new Artwork aggregate after boundary validation
func NewArtwork(artworkID, projectID, title string, heightCm, widthCm, depthCm, weightKg float64, typology Typology, fragility int) (*Artwork, error) {
	if heightCm < 0 || widthCm < 0 || depthCm < 0 {
		return nil, ErrInvalidDimensions
	}
	if weightKg < 0 {
		return nil, ErrInvalidWeight
	}
	if fragility < 1 || fragility > 5 {
		return nil, ErrInvalidFragility
	}
	if !ValidTypology(typology) {
		return nil, ErrInvalidTypology
	}

	now := time.Now()
	return &Artwork{
		ArtworkID: artworkID,
		ProjectID: projectID,
		Title:     title,
		HeightCm:  heightCm,
		WidthCm:   widthCm,
		DepthCm:   depthCm,
		WeightKg:  weightKg,
		Typology:  typology,
		Fragility: fragility,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MaxDimensionCm returns the largest of the three dimensions
func (a *Artwork) MaxDimensionCm() float64 {
	max := a.HeightCm
	if a.WidthCm > max {
		max = a.WidthCm
	}
	if a.DepthCm > max {
		max = a.DepthCm
	}
	return max
}

// FrontSurfaceM2 returns the height x width surface in square meters
func (a *Artwork) FrontSurfaceM2() float64 {
	return (a.HeightCm / 100) * (a.WidthCm / 100)
}

// RawVolumeM3 returns the uncrated artwork volume in cubic meters
func (a *Artwork) RawVolumeM3() float64 {
	return (a.HeightCm / 100) * (a.WidthCm / 100) * (a.DepthCm / 100)
}

// UpdatePhysical replaces the physical attributes and clears the derived
// packing data so it gets recomputed
func (a *Artwork) UpdatePhysical(heightCm, widthCm, depthCm, weightKg float64, typology Typology, fragility int, fragileFrame bool) error {
	if heightCm < 0 || widthCm < 0 || depthCm < 0 {
		return ErrInvalidDimensions
	}
	if weightKg < 0 {
		return ErrInvalidWeight
	}
	if fragility < 1 || fragility > 5 {
		return ErrInvalidFragility
	}
	if !ValidTypology(typology) {
		return ErrInvalidTypology
	}

	a.HeightCm = heightCm
	a.WidthCm = widthCm
	a.DepthCm = depthCm
	a.WeightKg = weightKg
	a.Typology = typology
	a.Fragility = fragility
	a.FragileFrame = fragileFrame
	a.CrateSpec = nil
	a.CrateCost = nil
	a.UpdatedAt = time.Now()
	return nil
}

// AssignCrate attaches a freshly computed crate specification and cost
func (a *Artwork) AssignCrate(spec *CrateSpecification, cost *CostBreakdown) {
	a.CrateSpec = spec
	a.CrateCost = cost
	a.UpdatedAt = time.Now()
}

// AssignFlow records the flow this artwork travels with
func (a *Artwork) AssignFlow(flowID string) {
	a.FlowID = flowID
	a.UpdatedAt = time.Now()
}
