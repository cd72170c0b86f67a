package jumptrace

import (
	"fmt"
	"strings"
)

// BuildJumpNotes turns an analysis into a plain-text jump summary.
func BuildJumpNotes(a *JumpAnalysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	if len(a.Segments) > 0 {
		first := a.Segments[0]
		last := a.Segments[len(a.Segments)-1]
		fmt.Fprintf(
			&b,
			"Jump: %s | %s total | %.0f m to %.0f m MSL\n",
			first.StartTime.Format("2006-01-02 15:04:05"),
			formatSeconds(last.EndTime.Sub(first.StartTime).Seconds()),
			first.StartAltitude,
			last.EndAltitude,
		)
	}
	if a.Fallback {
		b.WriteString("No phase transitions detected; whole recording treated as one phase.\n")
	}

	b.WriteString("\nPhases\n")
	for _, seg := range a.Segments {
		fmt.Fprintf(
			&b,
			"- %-10s | %8s | %6.0f m -> %6.0f m | samples %d..%d\n",
			seg.Phase,
			formatSeconds(seg.Duration().Seconds()),
			seg.StartAltitude,
			seg.EndAltitude,
			seg.StartIndex,
			seg.EndIndex-1,
		)
	}

	if m := a.Metrics; m != nil {
		if ff := m.Freefall; ff != nil {
			fmt.Fprintf(
				&b,
				"\nFreefall: %.1f avg / %.1f max m/s vertical | %.1f m/s horizontal | %s | track %.0f deg\n",
				ff.AvgVerticalSpeedMps,
				ff.MaxVerticalSpeedMps,
				ff.AvgHorizontalSpeedMps,
				formatSeconds(ff.TimeSec),
				ff.TrackAngleDeg,
			)
		}
		if c := m.Canopy; c != nil {
			fmt.Fprintf(
				&b,
				"Canopy: deployed at %.0f m | %.1f m/s descent | %.1f m/s max horizontal | %s\n",
				c.DeploymentAltitudeM,
				c.AvgDescentRateMps,
				c.MaxHorizontalSpeedMps,
				formatSeconds(c.TotalTimeSec),
			)
			if c.GlideRatio != nil {
				fmt.Fprintf(&b, "Glide ratio: %.2f\n", *c.GlideRatio)
			}
		}
		if l := m.Landing; l != nil {
			fmt.Fprintf(
				&b,
				"Landing: %.1f m/s approach | %.1f m/s touchdown vertical\n",
				l.FinalApproachSpeedMps,
				l.TouchdownVerticalSpeedMps,
			)
		}
	}

	for _, w := range a.Warnings {
		fmt.Fprintf(&b, "Note: %s\n", w)
	}

	return b.String()
}

func formatSeconds(seconds float64) string {
	s := int(seconds + 0.5)
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}
