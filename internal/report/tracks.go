package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-solarkit/internal/astro"
)

// SparklineWidth is the fixed width of the altitude sparkline.
const SparklineWidth = 48

// sparklineBlocks are the block characters for the sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// WriteTracks writes rise, transit and set for each track followed by an
// altitude sparkline. Below-horizon cells are blank.
func WriteTracks(w io.Writer, tracks []astro.Track) {
	for i, tr := range tracks {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s  %s → %s UTC\n",
			strings.ToUpper(tr.Body.String()),
			tr.Start.Format("2006-01-02 15:04"),
			tr.End.Format("2006-01-02 15:04"))

		switch {
		case tr.AlwaysUp:
			fmt.Fprintln(w, "  above the horizon all window")
		case tr.NeverUp:
			fmt.Fprintln(w, "  below the horizon all window")
		default:
			fmt.Fprintf(w, "  rise    %s\n", clockOrDash(tr.Rise))
			fmt.Fprintf(w, "  set     %s\n", clockOrDash(tr.Set))
		}
		fmt.Fprintf(w, "  transit %s  max alt %.2f°\n", clockOrDash(tr.Transit), tr.MaxAltitudeDeg)
		fmt.Fprintf(w, "  %s\n", Sparkline(tr, SparklineWidth))
	}
}

// Sparkline renders a track's altitude resampled to width cells.
func Sparkline(tr astro.Track, width int) string {
	return AltitudeSparkline(resampleAltitude(tr.Samples, width))
}

// AltitudeSparkline renders one cell per altitude.
func AltitudeSparkline(alts []float64) string {
	var sb strings.Builder
	for _, alt := range alts {
		if alt <= astro.HorizonAltitude {
			sb.WriteRune(' ')
			continue
		}
		idx := int(alt / 90 * 7)
		if idx > 7 {
			idx = 7
		}
		sb.WriteRune(sparklineBlocks[idx])
	}
	return sb.String()
}

// resampleAltitude picks width evenly spaced samples.
func resampleAltitude(samples []astro.TrackSample, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	out := make([]float64, width)
	for i := range out {
		idx := 0
		if width > 1 {
			idx = i * (len(samples) - 1) / (width - 1)
		}
		out[i] = samples[idx].Position.AltitudeDeg
	}
	return out
}

func clockOrDash(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.UTC().Format("15:04")
}
