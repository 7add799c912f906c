// Package scoring computes health scores for candidate routes and ranks them.
package scoring

import (
	"math"

	"github.com/healthroute/healthroute/internal/routing"
)

// Scoring weights. The score starts at 100 and loses points for pollution,
// heat above the comfort threshold, and travel time.
const (
	// PM25Weight is the penalty per microgram/m3 of average PM2.5.
	PM25Weight = 0.4

	// HeatPenaltyWeight is the penalty per degree Celsius above the threshold.
	HeatPenaltyWeight = 1.5

	// HeatThresholdCelsius is the temperature above which heat penalizes.
	HeatThresholdCelsius = 32.0

	// DurationWeight is the penalty per minute of travel time.
	DurationWeight = 0.2
)

// ScoredRoute is a candidate route with its environmental metrics and score.
type ScoredRoute struct {
	Route        routing.Route
	AvgPM25      float64
	TempCelsius  float64
	DurationMins float64
	DistanceKm   float64
	HealthScore  int
}

// Score computes the 0-100 health score for a route. Heat only penalizes
// above HeatThresholdCelsius; the raw value is clamped to [0, 100] before
// rounding.
func Score(avgPM25, tempCelsius, durationMins float64) int {
	heat := 0.0
	if tempCelsius > HeatThresholdCelsius {
		heat = (tempCelsius - HeatThresholdCelsius) * HeatPenaltyWeight
	}

	raw := 100 - avgPM25*PM25Weight - heat - durationMins*DurationWeight
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}
	return int(math.Round(raw))
}
