package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlowType classifies a shipment segment by geography and vehicle
type FlowType string

const (
	FlowTypeDomesticRoad   FlowType = "domestic_road"
	FlowTypeEURoad         FlowType = "eu_road"
	FlowTypeAirFreight     FlowType = "air_freight"
	FlowTypeDedicatedTruck FlowType = "dedicated_truck"
	FlowTypeArtShuttle     FlowType = "art_shuttle"
)

// FlowStatus tracks a flow through quoting and validation
type FlowStatus string

const (
	FlowStatusDraft        FlowStatus = "draft"
	FlowStatusPendingAgent FlowStatus = "pending_agent"
	FlowStatusQuoted       FlowStatus = "quoted"
	FlowStatusValidated    FlowStatus = "validated"
)

// TeamMember is one recommended staffing slot on a flow
type TeamMember struct {
	Role    string  `bson:"role" json:"role"`
	Name    string  `bson:"name,omitempty" json:"name,omitempty"`
	DayRate float64 `bson:"dayRate" json:"dayRate"`
	Days    float64 `bson:"days" json:"days"`
}

// TimelineStep is one scheduled step of a flow
type TimelineStep struct {
	Label    string     `bson:"label" json:"label"`
	Location string     `bson:"location" json:"location"`
	Date     *time.Time `bson:"date,omitempty" json:"date,omitempty"`
}

// TeamCostBreakdown prices a flow's staffing mission
type TeamCostBreakdown struct {
	PerDiemTotal float64 `bson:"perDiemTotal" json:"perDiemTotal"`
	HotelTotal   float64 `bson:"hotelTotal" json:"hotelTotal"`
	DayRateTotal float64 `bson:"dayRateTotal" json:"dayRateTotal"`
	Total        float64 `bson:"total" json:"total"`
}

// LogisticsFlow is the aggregate root for one priced shipment segment between
// two cities. Created by the flow generator (one per distinct origin and
// destination pair) or manually by an operator.
type LogisticsFlow struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	FlowID string             `bson:"flowId"`

	ProjectID string `bson:"projectId"`

	OriginCity    string  `bson:"originCity"`
	OriginCountry string  `bson:"originCountry"`
	OriginGeo     GeoInfo `bson:"originGeo"`
	DestCity      string  `bson:"destCity"`
	DestCountry   string  `bson:"destCountry"`
	DestGeo       GeoInfo `bson:"destGeo"`

	Type   FlowType   `bson:"type"`
	Status FlowStatus `bson:"status"`

	Carrier         string `bson:"carrier,omitempty"`
	CarrierImposed  bool   `bson:"carrierImposed"`
	IsReturn        bool   `bson:"isReturn"`
	RequiresCustoms bool   `bson:"requiresCustoms"`

	ArtworkIDs []string `bson:"artworkIds"`

	DistanceKm    float64            `bson:"distanceKm,omitempty"`
	DurationHours float64            `bson:"durationHours,omitempty"`
	Transport     *TransportEstimate `bson:"transport,omitempty"`
	Team          []TeamMember       `bson:"team,omitempty"`
	TeamCost      *TeamCostBreakdown `bson:"teamCost,omitempty"`
	MissionDays   float64            `bson:"missionDays,omitempty"`
	Timeline      []TimelineStep     `bson:"timeline,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewLogisticsFlow creates a new flow segment in draft status
func NewLogisticsFlow(flowID, projectID, originCity, originCountry, destCity, destCountry string, flowType FlowType) *LogisticsFlow {
	now := time.Now()
	return &LogisticsFlow{
		FlowID:        flowID,
		ProjectID:     projectID,
		OriginCity:    originCity,
		OriginCountry: originCountry,
		DestCity:      destCity,
		DestCountry:   destCountry,
		Type:          flowType,
		Status:        FlowStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Key returns the deduplication key for this segment. Keys are exact string
// matches on city names; near-duplicate spellings create separate flows.
func (f *LogisticsFlow) Key() string {
	return FlowKey(f.OriginCity, f.DestCity)
}

// FlowKey builds the exact-match segment key for an origin and destination
func FlowKey(originCity, destCity string) string {
	return originCity + "|" + destCity
}

// AddArtwork appends an artwork to the flow's manifest
func (f *LogisticsFlow) AddArtwork(artworkID string) {
	for _, id := range f.ArtworkIDs {
		if id == artworkID {
			return
		}
	}
	f.ArtworkIDs = append(f.ArtworkIDs, artworkID)
	f.UpdatedAt = time.Now()
}

// Escalate moves the flow to pending-agent status when an operator flag
// requires an agent quote
func (f *LogisticsFlow) Escalate() {
	if f.Status == FlowStatusDraft {
		f.Status = FlowStatusPendingAgent
		f.UpdatedAt = time.Now()
	}
}

// SetRoute records the resolved route distance and duration
func (f *LogisticsFlow) SetRoute(distanceKm, durationHours float64) {
	f.DistanceKm = distanceKm
	f.DurationHours = durationHours
	f.UpdatedAt = time.Now()
}

// ConvertType changes the flow type, used by constraint propagation
func (f *LogisticsFlow) ConvertType(newType FlowType) {
	f.Type = newType
	f.UpdatedAt = time.Now()
}
