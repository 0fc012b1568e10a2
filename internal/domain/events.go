package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// FlowsGeneratedEvent is published when a generation run completes
type FlowsGeneratedEvent struct {
	ProjectID    string    `json:"projectId"`
	FlowCount    int       `json:"flowCount"`
	QuoteLines   int       `json:"quoteLines"`
	ArtworkCount int       `json:"artworkCount"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

func (e *FlowsGeneratedEvent) EventType() string     { return "logistics.planning.flows-generated" }
func (e *FlowsGeneratedEvent) OccurredAt() time.Time { return e.GeneratedAt }

// CrateComputedEvent is published when an artwork's crate specification is
// recomputed
type CrateComputedEvent struct {
	ProjectID    string    `json:"projectId"`
	ArtworkID    string    `json:"artworkId"`
	CrateType    CrateType `json:"crateType"`
	VolumeM3     float64   `json:"volumeM3"`
	SellingPrice float64   `json:"sellingPrice"`
	ComputedAt   time.Time `json:"computedAt"`
}

func (e *CrateComputedEvent) EventType() string     { return "logistics.packing.crate-computed" }
func (e *CrateComputedEvent) OccurredAt() time.Time { return e.ComputedAt }

// ConstraintsAppliedEvent is published after rule actions were applied
type ConstraintsAppliedEvent struct {
	ProjectID   string    `json:"projectId"`
	ActionCount int       `json:"actionCount"`
	AlertCount  int       `json:"alertCount"`
	AppliedAt   time.Time `json:"appliedAt"`
}

func (e *ConstraintsAppliedEvent) EventType() string     { return "logistics.planning.constraints-applied" }
func (e *ConstraintsAppliedEvent) OccurredAt() time.Time { return e.AppliedAt }

// ConstraintAlertEvent is published per alert for downstream notification
type ConstraintAlertEvent struct {
	ProjectID   string        `json:"projectId"`
	Constraint  string        `json:"constraint"`
	Severity    AlertSeverity `json:"severity"`
	Description string        `json:"description"`
	RaisedAt    time.Time     `json:"raisedAt"`
}

func (e *ConstraintAlertEvent) EventType() string     { return "logistics.alerts.constraint-alert" }
func (e *ConstraintAlertEvent) OccurredAt() time.Time { return e.RaisedAt }
