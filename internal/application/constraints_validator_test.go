package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintsValidator(t *testing.T) {
	validator, err := NewConstraintsValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid full matrix",
			raw: `{
				"access": {"maxHeightM": 3.5, "tailLiftRequired": true, "rationale": "low portico"},
				"security": {"armoredTruckRequired": true},
				"packing": {"nimp15Required": true, "forbiddenMaterials": ["polyurethane"]},
				"schedule": {"nightWorkRequired": true, "hardDeadline": "2026-06-01T00:00:00Z"}
			}`,
		},
		{
			name: "empty matrix is valid",
			raw:  `{}`,
		},
		{
			name:    "negative height rejected",
			raw:     `{"access": {"maxHeightM": -2}}`,
			wantErr: true,
		},
		{
			name:    "unknown field rejected",
			raw:     `{"access": {"helicopterPad": true}}`,
			wantErr: true,
		},
		{
			name:    "wrong type rejected",
			raw:     `{"security": {"armoredTruckRequired": "yes"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     `{{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
