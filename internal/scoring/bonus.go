package scoring

import (
	"fmt"
	"time"
)

// DefaultBonusScale is the maximum additive bonus awarded to the earliest
// contributor when no scale is configured.
const DefaultBonusScale = 0.5

// decay maps a position x in [0,1] across the observed time range (0 =
// earliest, 1 = latest) to a bonus fraction in [0,1]. Both curves are
// monotonically decreasing and reach exactly 0 at the latest marker, so a
// strictly earlier contributor never receives a smaller bonus.
func decay(curve BonusCurve, x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	switch curve {
	case CurveQuadratic:
		return (1 - x) * (1 - x)
	default: // CurveLinear
		return 1 - x
	}
}

// earlyBonuses computes the additive early-contributor bonus for each record,
// in input order. With the bonus disabled every entry is 0. Contributors
// without a temporal marker receive 0 and are reported in the warnings.
// When all markers coincide the whole field is "earliest" and every marked
// contributor receives the full scale.
func earlyBonuses(contributors []ContributorRecord, cfg BonusConfig) ([]float64, []string) {
	bonuses := make([]float64, len(contributors))
	if !cfg.Enabled {
		return bonuses, nil
	}

	scale := cfg.Scale
	if scale == 0 {
		scale = DefaultBonusScale
	}

	var earliest, latest time.Time
	marked := 0
	for _, c := range contributors {
		if c.FirstContribution == nil {
			continue
		}
		t := *c.FirstContribution
		if marked == 0 || t.Before(earliest) {
			earliest = t
		}
		if marked == 0 || t.After(latest) {
			latest = t
		}
		marked++
	}

	var warnings []string
	if marked == 0 {
		warnings = append(warnings, "bonus enabled but no contributor carries a temporal marker")
		return bonuses, warnings
	}

	span := latest.Sub(earliest)
	for i, c := range contributors {
		if c.FirstContribution == nil {
			warnings = append(warnings,
				fmt.Sprintf("contributor %q has no temporal marker, bonus omitted", c.ID))
			continue
		}
		x := 0.0
		if span > 0 {
			x = float64(c.FirstContribution.Sub(earliest)) / float64(span)
		}
		bonuses[i] = scale * decay(cfg.Curve, x)
	}
	return bonuses, warnings
}
