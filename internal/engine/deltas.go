package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/bronze/internal/models"
)

// mitigate applies Imperial Bureaucracy: stability losses shrink by 25%,
// rounded toward zero, so -10 becomes -7.
func mitigate(l *models.Ledger, d models.Delta) models.Delta {
	if l.Technologies.ImperialBureaucracy && d.Stability < 0 {
		d.Stability = d.Stability * 3 / 4
	}
	return d
}

// apply adds d to the ledger and clamps it. It returns the delta actually
// added before clamping, and its rendering.
func (e *Engine) apply(l *models.Ledger, d models.Delta) (models.Delta, string) {
	d = mitigate(l, d)
	l.Resources.Grain += d.Grain
	l.Resources.Timber += d.Timber
	l.Resources.Bronze += d.Bronze
	l.Metrics.Military += d.Military
	l.Metrics.Stability += d.Stability
	l.Metrics.Prestige += d.Prestige
	l.Metrics.Collapse += d.Collapse
	l.Clamp()
	return d, FormatDelta(d)
}

// FormatDelta renders the non-zero parts of d, e.g. "+15 Grain, -8 Timber".
func FormatDelta(d models.Delta) string {
	var parts []string
	add := func(v int, name string) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%+d %s", v, name))
		}
	}
	add(d.Grain, "Grain")
	add(d.Timber, "Timber")
	add(d.Bronze, "Bronze")
	add(d.Military, "Military")
	add(d.Stability, "Stability")
	add(d.Prestige, "Prestige")
	add(d.Collapse, "Collapse")
	if len(parts) == 0 {
		return "no effect"
	}
	return strings.Join(parts, ", ")
}
