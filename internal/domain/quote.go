package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuoteCategory classifies a quote line
type QuoteCategory string

const (
	CategoryPacking   QuoteCategory = "packing"
	CategoryTransport QuoteCategory = "transport"
	CategoryHandling  QuoteCategory = "handling"
	CategoryCourier   QuoteCategory = "courier"
	CategoryCustoms   QuoteCategory = "customs"
	CategoryInsurance QuoteCategory = "insurance"
	CategorySecurity  QuoteCategory = "security"
)

// QuoteSource records where a line's price came from
type QuoteSource string

const (
	SourceCalculation QuoteSource = "calculation"
	SourceEstimation  QuoteSource = "estimation"
	SourceAgent       QuoteSource = "agent"
	SourceManual      QuoteSource = "manual"
)

// QuoteLine is an itemized cost entry tied to a project and optionally a
// flow. Total equals quantity x unit price at creation for calculated and
// estimated lines; a rule-engine surcharge updates both consistently and
// records its constraint tag in AppliedConstraints.
type QuoteLine struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	LineID string             `bson:"lineId"`

	ProjectID string `bson:"projectId"`
	FlowID    string `bson:"flowId,omitempty"`
	ArtworkID string `bson:"artworkId,omitempty"`

	Category    QuoteCategory `bson:"category"`
	Description string        `bson:"description"`
	Quantity    float64       `bson:"quantity"`
	UnitPrice   float64       `bson:"unitPrice"`
	TotalPrice  float64       `bson:"totalPrice"`
	Currency    string        `bson:"currency"`
	Source      QuoteSource   `bson:"source"`

	AppliedConstraints []string `bson:"appliedConstraints,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewQuoteLine creates a quote line with total derived from quantity and
// unit price
func NewQuoteLine(lineID, projectID string, category QuoteCategory, description string, quantity, unitPrice float64, currency string, source QuoteSource) *QuoteLine {
	now := time.Now()
	return &QuoteLine{
		LineID:      lineID,
		ProjectID:   projectID,
		Category:    category,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  quantity * unitPrice,
		Currency:    currency,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasConstraint reports whether a constraint surcharge was already applied
func (q *QuoteLine) HasConstraint(tag string) bool {
	for _, t := range q.AppliedConstraints {
		if t == tag {
			return true
		}
	}
	return false
}

// ApplyMultiplier scales unit and total price together and records the
// constraint tag so re-runs never double-apply
func (q *QuoteLine) ApplyMultiplier(factor float64, constraintTag string) {
	if q.HasConstraint(constraintTag) {
		return
	}
	q.UnitPrice *= factor
	q.TotalPrice *= factor
	q.AppliedConstraints = append(q.AppliedConstraints, constraintTag)
	q.UpdatedAt = time.Now()
}

// MarkConstraint records a constraint tag without touching prices, used for
// lines created by a constraint rule
func (q *QuoteLine) MarkConstraint(constraintTag string) {
	if !q.HasConstraint(constraintTag) {
		q.AppliedConstraints = append(q.AppliedConstraints, constraintTag)
	}
}
