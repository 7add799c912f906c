package scoring

// Ranked holds the three headline picks from a set of scored candidates.
// All fields are populated whenever at least one candidate exists; with a
// single candidate the three picks are the same route, and with fewer than
// two distinct candidates the second-healthiest falls back to the healthiest.
type Ranked struct {
	Fastest          *ScoredRoute
	Healthiest       *ScoredRoute
	SecondHealthiest *ScoredRoute
}

// Rank picks the fastest and the two healthiest candidates. Ties keep the
// earlier candidate, preserving provider ordering.
func Rank(scored []ScoredRoute) Ranked {
	if len(scored) == 0 {
		return Ranked{}
	}

	fastest := &scored[0]
	for i := range scored {
		if scored[i].DurationMins < fastest.DurationMins {
			fastest = &scored[i]
		}
	}

	healthiest := &scored[0]
	for i := range scored {
		if scored[i].HealthScore > healthiest.HealthScore {
			healthiest = &scored[i]
		}
	}

	var second *ScoredRoute
	for i := range scored {
		if &scored[i] == healthiest {
			continue
		}
		if second == nil || scored[i].HealthScore > second.HealthScore {
			second = &scored[i]
		}
	}
	if second == nil {
		second = healthiest
	}

	return Ranked{
		Fastest:          fastest,
		Healthiest:       healthiest,
		SecondHealthiest: second,
	}
}
