package domain

import "time"

// ActionType is the discriminator of a business rule action
type ActionType string

const (
	ActionAlert           ActionType = "alert"
	ActionAddQuoteLine    ActionType = "add_quote_line"
	ActionUpdateQuoteLine ActionType = "update_quote_line"
	ActionUpdateFlow      ActionType = "update_flow"
	ActionUpdateProject   ActionType = "update_project"
)

// AlertSeverity grades rule-engine alerts for display
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Constraint tags identify which tender requirement produced an action.
// Quote lines record applied tags so re-running the engine is safe.
const (
	ConstraintHeightLimit        = "access.height_limit"
	ConstraintTailLift           = "access.tail_lift"
	ConstraintElevator           = "access.elevator"
	ConstraintArmoredTruck       = "security.armored_truck"
	ConstraintPoliceEscort       = "security.police_escort"
	ConstraintCourierSupervision = "security.courier_supervision"
	ConstraintTarmacAccess       = "security.tarmac_access"
	ConstraintNIMP15             = "packing.nimp15"
	ConstraintAcclimatization    = "packing.acclimatization"
	ConstraintNeutralMaterials   = "packing.neutral_materials"
	ConstraintForbiddenMaterials = "packing.forbidden_materials"
	ConstraintNightWork          = "schedule.night_work"
	ConstraintSundayWork         = "schedule.sunday_work"
	ConstraintHardDeadline       = "schedule.hard_deadline"
)

// QuoteLineUpdate carries the new prices for an existing quote line
type QuoteLineUpdate struct {
	LineID     string  `json:"lineId"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// FlowUpdate carries a flow type conversion
type FlowUpdate struct {
	FlowID  string   `json:"flowId"`
	NewType FlowType `json:"newType"`
}

// ProjectUpdate carries a project end-date change
type ProjectUpdate struct {
	EndDate *time.Time `json:"endDate,omitempty"`
}

// RuleAction is one mutation produced by the constraint propagation engine.
// Actions are ephemeral: the engine produces them, the caller applies them.
// Exactly one payload field is set, matching Type.
type RuleAction struct {
	Type        ActionType    `json:"type"`
	Constraint  string        `json:"constraint"`
	Severity    AlertSeverity `json:"severity,omitempty"`
	Description string        `json:"description"`

	QuoteLine       *QuoteLine       `json:"quoteLine,omitempty"`
	QuoteLineUpdate *QuoteLineUpdate `json:"quoteLineUpdate,omitempty"`
	FlowUpdate      *FlowUpdate      `json:"flowUpdate,omitempty"`
	ProjectUpdate   *ProjectUpdate   `json:"projectUpdate,omitempty"`
}

// NewAlert builds an alert action
func NewAlert(constraint string, severity AlertSeverity, description string) RuleAction {
	return RuleAction{
		Type:        ActionAlert,
		Constraint:  constraint,
		Severity:    severity,
		Description: description,
	}
}
