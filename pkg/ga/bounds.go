package ga

import "math"

const (
	minPopulation     = 250
	maxPopulation     = 500
	minGenerations    = 50000
	minPlateauLimit   = 50000
	generationsFactor = 300
	plateauFactor     = 20
)

// Bounds are the search budget of a run
type Bounds struct {
	Population     int
	MaxGenerations int
	PlateauLimit   int
}

// AdaptiveBounds scales the search budget with the problem size, never going below the floors
func AdaptiveBounds(events, slots int) Bounds {
	return Bounds{
		Population:     min(max(5*events, minPopulation), maxPopulation),
		MaxGenerations: max(minGenerations, int(generationsFactor*float64(events)*math.Log(float64(slots)+1))),
		PlateauLimit:   max(minPlateauLimit, plateauFactor*events),
	}
}

// withOverrides replaces every bound set to a positive value in overrides
func (bounds Bounds) withOverrides(overrides Bounds) Bounds {
	if overrides.Population > 0 {
		bounds.Population = overrides.Population
	}
	if overrides.MaxGenerations > 0 {
		bounds.MaxGenerations = overrides.MaxGenerations
	}
	if overrides.PlateauLimit > 0 {
		bounds.PlateauLimit = overrides.PlateauLimit
	}
	return bounds
}
