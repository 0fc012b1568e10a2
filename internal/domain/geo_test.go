package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoResolver_Resolve(t *testing.T) {
	resolver := NewGeoResolver("FR")

	tests := []struct {
		name        string
		city        string
		country     string
		wantCode    string
		wantEU      bool
		wantRegion  string
	}{
		{
			name:     "city table match",
			city:     "Paris",
			country:  "",
			wantCode: "FR",
			wantEU:   true,
		},
		{
			name:       "US east coast city",
			city:       "New York",
			country:    "",
			wantCode:   "US",
			wantRegion: "east_coast",
		},
		{
			name:       "US west coast city",
			city:       "Los Angeles",
			country:    "United States",
			wantCode:   "US",
			wantRegion: "west_coast",
		},
		{
			name:     "country table match",
			city:     "Unknown Town",
			country:  "Germany",
			wantCode: "DE",
			wantEU:   true,
		},
		{
			name:     "bare two letter code",
			city:     "",
			country:  "jp",
			wantCode: "JP",
		},
		{
			name:     "korea substring heuristic",
			city:     "Gwangju",
			country:  "Republic of Korea",
			wantCode: "KR",
		},
		{
			name:     "unresolvable input falls back to default",
			city:     "Atlantis",
			country:  "Middle Earth 123",
			wantCode: "FR",
			wantEU:   true,
		},
		{
			name:     "case insensitive city",
			city:     "LONDON",
			country:  "",
			wantCode: "GB",
			wantEU:   false,
		},
		{
			name:     "swiss city is not EU",
			city:     "Geneva",
			country:  "Switzerland",
			wantCode: "CH",
			wantEU:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := resolver.Resolve(tt.city, tt.country)
			assert.Equal(t, tt.wantCode, info.CountryCode)
			assert.Equal(t, tt.wantEU, info.EUMember)
			assert.Equal(t, tt.wantRegion, info.SubRegion)
			assert.NotEmpty(t, info.CountryName)
		})
	}
}

func TestGeoResolver_NeverFails(t *testing.T) {
	resolver := NewGeoResolver("FR")

	// Empty and garbage input must still yield a usable record
	for _, input := range []struct{ city, country string }{
		{"", ""},
		{"   ", "   "},
		{"!!!", "???"},
	} {
		info := resolver.Resolve(input.city, input.country)
		assert.Len(t, info.CountryCode, 2)
		assert.NotEmpty(t, info.CountryName)
	}
}
