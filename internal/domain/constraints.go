package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConstraintsMatrix holds the structured tender requirements (CCTP) for one
// project. Four independent sub-records; read-only input to the rule engine,
// stored once per project.
type ConstraintsMatrix struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID string             `bson:"projectId"`

	Access   AccessConstraints   `bson:"access"`
	Security SecurityConstraints `bson:"security"`
	Packing  PackingConstraints  `bson:"packing"`
	Schedule ScheduleConstraints `bson:"schedule"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// AccessConstraints covers venue access limitations
type AccessConstraints struct {
	MaxHeightM       *float64 `bson:"maxHeightM,omitempty" json:"maxHeightM,omitempty"`
	TailLiftRequired bool     `bson:"tailLiftRequired" json:"tailLiftRequired"`
	ElevatorHeightCm *float64 `bson:"elevatorHeightCm,omitempty" json:"elevatorHeightCm,omitempty"`
	ElevatorWidthCm  *float64 `bson:"elevatorWidthCm,omitempty" json:"elevatorWidthCm,omitempty"`
	ElevatorDepthCm  *float64 `bson:"elevatorDepthCm,omitempty" json:"elevatorDepthCm,omitempty"`
	Rationale        string   `bson:"rationale,omitempty" json:"rationale,omitempty"`
}

// HasElevator reports whether elevator dimensions were extracted
func (a AccessConstraints) HasElevator() bool {
	return a.ElevatorHeightCm != nil || a.ElevatorWidthCm != nil || a.ElevatorDepthCm != nil
}

// SecurityConstraints covers convoy and supervision requirements
type SecurityConstraints struct {
	ArmoredTruckRequired bool   `bson:"armoredTruckRequired" json:"armoredTruckRequired"`
	PoliceEscortRequired bool   `bson:"policeEscortRequired" json:"policeEscortRequired"`
	CourierSupervision   bool   `bson:"courierSupervision" json:"courierSupervision"`
	TarmacAccessRequired bool   `bson:"tarmacAccessRequired" json:"tarmacAccessRequired"`
	Rationale            string `bson:"rationale,omitempty" json:"rationale,omitempty"`
}

// PackingConstraints covers crate certification and materials requirements
type PackingConstraints struct {
	NIMP15Required       bool     `bson:"nimp15Required" json:"nimp15Required"`
	AcclimatizationHours *float64 `bson:"acclimatizationHours,omitempty" json:"acclimatizationHours,omitempty"`
	ForbiddenMaterials   []string `bson:"forbiddenMaterials,omitempty" json:"forbiddenMaterials,omitempty"`
	Rationale            string   `bson:"rationale,omitempty" json:"rationale,omitempty"`
}

// ScheduleConstraints covers working-hours and deadline requirements
type ScheduleConstraints struct {
	NightWorkRequired  bool       `bson:"nightWorkRequired" json:"nightWorkRequired"`
	SundayWorkRequired bool       `bson:"sundayWorkRequired" json:"sundayWorkRequired"`
	HardDeadline       *time.Time `bson:"hardDeadline,omitempty" json:"hardDeadline,omitempty"`
	Rationale          string     `bson:"rationale,omitempty" json:"rationale,omitempty"`
}
