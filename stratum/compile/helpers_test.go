package compile

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/geom"
)

func sampleBBox() geom.Polygon {
	return geom.FromBound(orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}})
}

func during(y0, m0, d0, y1, m1, d1 int) filter.TemporalPredicate {
	start := time.Date(y0, time.Month(m0), d0, 0, 0, 0, 0, time.UTC)
	end := time.Date(y1, time.Month(m1), d1, 0, 0, 0, 0, time.UTC)
	return filter.TemporalPredicate{
		Op: filter.TemporalDuring,
		When: filter.Instant{
			Interval: geom.Interval{Start: start, End: end},
			IsRange:  true,
		},
	}
}
