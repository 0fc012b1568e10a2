package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tariffs holds every rate, threshold and dimension the engines take as input.
// Values are loaded from a YAML tariff file; engines never hard-code them.
type Tariffs struct {
	Currency  string           `yaml:"currency"`
	Organizer OrganizerTariffs `yaml:"organizer"`
	Packing   PackingTariffs   `yaml:"packing"`
	Costing   CostingTariffs   `yaml:"costing"`
	Transport TransportTariffs `yaml:"transport"`
	Handling  HandlingTariffs  `yaml:"handling"`
	Team      TeamTariffs      `yaml:"team"`
	Rules     RuleTariffs      `yaml:"rules"`
	Customs   CustomsTariffs   `yaml:"customs"`
}

// OrganizerTariffs identifies the organizing location used for defaults
type OrganizerTariffs struct {
	City        string `yaml:"city"`
	Country     string `yaml:"country"`
	CountryCode string `yaml:"countryCode"`
}

// PackingTariffs drives the crate decision tree and dimensioning
type PackingTariffs struct {
	MuseumWeightThresholdKg    float64 `yaml:"museumWeightThresholdKg"`
	MuseumDimensionThresholdCm float64 `yaml:"museumDimensionThresholdCm"`
	MuseumFragilityThreshold   int     `yaml:"museumFragilityThreshold"`
	FoamStandardMm             int     `yaml:"foamStandardMm"`
	FoamFragileMm              int     `yaml:"foamFragileMm"`
	FrameThicknessMm           int     `yaml:"frameThicknessMm"`
	WallGalleryMm              int     `yaml:"wallGalleryMm"`
	WallMuseumMm               int     `yaml:"wallMuseumMm"`
	PalletHeightMm             int     `yaml:"palletHeightMm"`
}

// CostingTariffs drives the crate cost model
type CostingTariffs struct {
	WoodPricePerM2      float64 `yaml:"woodPricePerM2"`
	FoamPricePerM2      float64 `yaml:"foamPricePerM2"`
	HardwareCost        float64 `yaml:"hardwareCost"`
	FramePricePerM      float64 `yaml:"framePricePerM"`
	LaborVolumeCutM3    float64 `yaml:"laborVolumeCutM3"`
	LaborHoursGallery   [2]float64 `yaml:"laborHoursGallery"` // [below cut, at or above cut]
	LaborHoursMuseum    [2]float64 `yaml:"laborHoursMuseum"`
	ShopHourlyRate      float64 `yaml:"shopHourlyRate"`
	OverheadCoefficient float64 `yaml:"overheadCoefficient"`
	MarginStandard      float64 `yaml:"marginStandard"`
	MarginMuseum        float64 `yaml:"marginMuseum"`
}

// TransportTariffs drives vehicle selection and transport pricing
type TransportTariffs struct {
	HeavyTruckThresholdM3 float64 `yaml:"heavyTruckThresholdM3"`
	LightTruckFlatRate    float64 `yaml:"lightTruckFlatRate"`
	HeavyTruckFlatRate    float64 `yaml:"heavyTruckFlatRate"`
	HeavyTruckPerKm       float64 `yaml:"heavyTruckPerKm"`
	SafetyVolumeFactor    float64 `yaml:"safetyVolumeFactor"`
	ReturnLegEstimate     float64 `yaml:"returnLegEstimate"`
}

// HandlingTariffs drives on-site packing labor pricing
type HandlingTariffs struct {
	PackerHourlyRate       float64 `yaml:"packerHourlyRate"`
	FragilityThreshold     int     `yaml:"fragilityThreshold"`
	FragilityTimeFactor    float64 `yaml:"fragilityTimeFactor"`
	HeavySculptureWeightKg float64 `yaml:"heavySculptureWeightKg"`
}

// TeamTariffs drives courier/technician mission pricing
type TeamTariffs struct {
	PerDiemByCountry map[string]float64 `yaml:"perDiemByCountry"`
	PerDiemDefault   float64            `yaml:"perDiemDefault"`
	HotelByCountry   map[string]float64 `yaml:"hotelByCountry"`
	HotelDefault     float64            `yaml:"hotelDefault"`
	RoleDayRates     map[string]float64 `yaml:"roleDayRates"`
	RoleDayDefault   float64            `yaml:"roleDayDefault"`
}

// RuleTariffs prices the constraint-propagation surcharges
type RuleTariffs struct {
	MaxVehicleHeightM        float64 `yaml:"maxVehicleHeightM"`
	TailLiftSurcharge        float64 `yaml:"tailLiftSurcharge"`
	CraneService             float64 `yaml:"craneService"`
	PoliceEscort             float64 `yaml:"policeEscort"`
	CourierSupervision       float64 `yaml:"courierSupervision"`
	TarmacAccess             float64 `yaml:"tarmacAccess"`
	NIMP15PerCrate           float64 `yaml:"nimp15PerCrate"`
	ClimateStoragePerDay     float64 `yaml:"climateStoragePerDay"`
	NeutralMaterialsPerCrate float64 `yaml:"neutralMaterialsPerCrate"`
	ArmoredMultiplier        float64 `yaml:"armoredMultiplier"`
	NightMultiplier          float64 `yaml:"nightMultiplier"`
	SundayMultiplier         float64 `yaml:"sundayMultiplier"`
}

// CustomsTariffs prices customs handling on air-freight flows
type CustomsTariffs struct {
	AirFreightFee float64 `yaml:"airFreightFee"`
}

// DefaultTariffs returns the built-in tariff table
func DefaultTariffs() *Tariffs {
	return &Tariffs{
		Currency: "EUR",
		Organizer: OrganizerTariffs{
			City:        "Paris",
			Country:     "France",
			CountryCode: "FR",
		},
		Packing: PackingTariffs{
			MuseumWeightThresholdKg:    80,
			MuseumDimensionThresholdCm: 200,
			MuseumFragilityThreshold:   4,
			FoamStandardMm:             50,
			FoamFragileMm:              80,
			FrameThicknessMm:           60,
			WallGalleryMm:              15,
			WallMuseumMm:               22,
			PalletHeightMm:             120,
		},
		Costing: CostingTariffs{
			WoodPricePerM2:      18,
			FoamPricePerM2:      12,
			HardwareCost:        25,
			FramePricePerM:      8,
			LaborVolumeCutM3:    1.0,
			LaborHoursGallery:   [2]float64{2.5, 4.0},
			LaborHoursMuseum:    [2]float64{5.0, 8.0},
			ShopHourlyRate:      45,
			OverheadCoefficient: 1.35,
			MarginStandard:      1.8,
			MarginMuseum:        2.2,
		},
		Transport: TransportTariffs{
			HeavyTruckThresholdM3: 12,
			LightTruckFlatRate:    450,
			HeavyTruckFlatRate:    800,
			HeavyTruckPerKm:       1.10,
			SafetyVolumeFactor:    1.5,
			ReturnLegEstimate:     350,
		},
		Handling: HandlingTariffs{
			PackerHourlyRate:       38,
			FragilityThreshold:     4,
			FragilityTimeFactor:    1.5,
			HeavySculptureWeightKg: 50,
		},
		Team: TeamTariffs{
			PerDiemByCountry: map[string]float64{
				"FR": 80, "DE": 85, "GB": 95, "CH": 120, "US": 110, "JP": 105, "AE": 100,
			},
			PerDiemDefault: 90,
			HotelByCountry: map[string]float64{
				"FR": 140, "DE": 130, "GB": 180, "CH": 220, "US": 200, "JP": 190, "AE": 170,
			},
			HotelDefault: 150,
			RoleDayRates: map[string]float64{
				"courier":    320,
				"technician": 280,
				"packer":     240,
				"driver":     220,
			},
			RoleDayDefault: 250,
		},
		Rules: RuleTariffs{
			MaxVehicleHeightM:        4.0,
			TailLiftSurcharge:        180,
			CraneService:             1200,
			PoliceEscort:             950,
			CourierSupervision:       600,
			TarmacAccess:             400,
			NIMP15PerCrate:           45,
			ClimateStoragePerDay:     220,
			NeutralMaterialsPerCrate: 35,
			ArmoredMultiplier:        3.0,
			NightMultiplier:          1.5,
			SundayMultiplier:         2.0,
		},
		Customs: CustomsTariffs{
			AirFreightFee: 850,
		},
	}
}

// LoadTariffs reads a YAML tariff file, overlaying values on the defaults.
// An empty path returns the defaults unchanged.
func LoadTariffs(path string) (*Tariffs, error) {
	tariffs := DefaultTariffs()
	if path == "" {
		return tariffs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tariff file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, tariffs); err != nil {
		return nil, fmt.Errorf("failed to parse tariff file %s: %w", path, err)
	}

	if err := tariffs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tariff file %s: %w", path, err)
	}

	return tariffs, nil
}

// Validate rejects tariff tables that would break engine invariants
func (t *Tariffs) Validate() error {
	if t.Costing.OverheadCoefficient < 1 {
		return fmt.Errorf("costing.overheadCoefficient must be >= 1, got %v", t.Costing.OverheadCoefficient)
	}
	if t.Costing.MarginStandard <= 0 || t.Costing.MarginMuseum <= 0 {
		return fmt.Errorf("costing margins must be positive")
	}
	if t.Transport.HeavyTruckThresholdM3 <= 0 {
		return fmt.Errorf("transport.heavyTruckThresholdM3 must be positive, got %v", t.Transport.HeavyTruckThresholdM3)
	}
	if t.Transport.SafetyVolumeFactor < 1 {
		return fmt.Errorf("transport.safetyVolumeFactor must be >= 1, got %v", t.Transport.SafetyVolumeFactor)
	}
	if t.Packing.FoamStandardMm < 0 || t.Packing.FoamFragileMm < 0 {
		return fmt.Errorf("packing foam thicknesses must not be negative")
	}
	return nil
}
