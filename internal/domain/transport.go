package domain

import (
	"github.com/expoflow-platform/logistics-service/internal/config"
)

// VehicleClass is the truck tier selected for a flow
type VehicleClass string

const (
	VehicleLightTruck VehicleClass = "light_truck"
	VehicleHeavyTruck VehicleClass = "heavy_truck"
)

// HandlingEstimate prices on-site packing labor for one artwork
type HandlingEstimate struct {
	Hours   float64 `bson:"hours" json:"hours"`
	Workers int     `bson:"workers" json:"workers"`
	Cost    float64 `bson:"cost" json:"cost"`
}

// TransportEstimate prices group transport for the artworks of one flow
type TransportEstimate struct {
	TotalVolumeM3 float64      `bson:"totalVolumeM3" json:"totalVolumeM3"`
	Vehicle       VehicleClass `bson:"vehicle" json:"vehicle"`
	FlatRate      float64      `bson:"flatRate" json:"flatRate"`
	DistanceKm    float64      `bson:"distanceKm" json:"distanceKm"`
	DistanceCost  float64      `bson:"distanceCost" json:"distanceCost"`
	TotalCost     float64      `bson:"totalCost" json:"totalCost"`
}

// TransportCalculator aggregates crate volumes, selects a vehicle class and
// prices transport and on-site packing labor
type TransportCalculator struct {
	transport config.TransportTariffs
	handling  config.HandlingTariffs
}

// NewTransportCalculator creates a transport calculator with the given tariffs
func NewTransportCalculator(transport config.TransportTariffs, handling config.HandlingTariffs) *TransportCalculator {
	return &TransportCalculator{transport: transport, handling: handling}
}

// EstimateHandling estimates on-site packing labor for one artwork.
// Hours depend on typology and surface/weight thresholds; high fragility
// multiplies time.
func (c *TransportCalculator) EstimateHandling(a *Artwork) HandlingEstimate {
	t := c.handling

	hours := 0.5
	workers := 2

	switch a.Typology {
	case TypologyPainting:
		if a.FrontSurfaceM2() < 1.0 {
			hours = 0.25
		} else {
			hours = 0.75
		}
	case TypologySculpture:
		hours = 1.0
		if a.WeightKg > t.HeavySculptureWeightKg {
			hours = 1.5
			workers = 3
		}
	case TypologyObject:
		hours = 0.5
	case TypologyInstallation:
		hours = 2.0
		workers = 3
	}

	if a.Fragility >= t.FragilityThreshold {
		hours *= t.FragilityTimeFactor
	}

	return HandlingEstimate{
		Hours:   hours,
		Workers: workers,
		Cost:    hours * float64(workers) * t.PackerHourlyRate,
	}
}

// BillableVolume returns the crate volume for an artwork, falling back to a
// safety-inflated raw-dimension estimate when no crate specification exists
// yet ("foisonnement")
func (c *TransportCalculator) BillableVolume(a *Artwork) float64 {
	if a.CrateSpec != nil {
		return a.CrateSpec.BillableVolumeM3
	}
	return a.RawVolumeM3() * c.transport.SafetyVolumeFactor
}

// EstimateTransport prices group transport for a set of artworks over the
// given route distance. Total volume below the heavy-truck threshold selects
// a flat-rate light truck; at or above it, a heavy truck with a per-km charge.
func (c *TransportCalculator) EstimateTransport(artworks []*Artwork, distanceKm float64) TransportEstimate {
	t := c.transport

	volume := 0.0
	for _, a := range artworks {
		volume += c.BillableVolume(a)
	}

	if volume < t.HeavyTruckThresholdM3 {
		return TransportEstimate{
			TotalVolumeM3: volume,
			Vehicle:       VehicleLightTruck,
			FlatRate:      t.LightTruckFlatRate,
			DistanceKm:    distanceKm,
			TotalCost:     t.LightTruckFlatRate,
		}
	}

	distanceCost := distanceKm * t.HeavyTruckPerKm
	return TransportEstimate{
		TotalVolumeM3: volume,
		Vehicle:       VehicleHeavyTruck,
		FlatRate:      t.HeavyTruckFlatRate,
		DistanceKm:    distanceKm,
		DistanceCost:  distanceCost,
		TotalCost:     t.HeavyTruckFlatRate + distanceCost,
	}
}
