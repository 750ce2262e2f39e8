// Package chronicle turns archived turn summaries into prose for the player.
package chronicle

import (
	"context"
	"fmt"
	"strings"

	"github.com/tatianab/bronze/internal/models"
)

// Chronicler narrates a closed turn. Reset forgets everything narrated so far,
// for when a different game takes over.
type Chronicler interface {
	Narrate(ctx context.Context, s models.TurnSummary) (string, error)
	Reset()
}

// Plain narrates without a model, listing the summary's lines.
type Plain struct{}

func (Plain) Reset() {}

func (Plain) Narrate(_ context.Context, s models.TurnSummary) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d.", s.Turn)
	if len(s.Actions) > 0 {
		names := make([]string, len(s.Actions))
		for i, a := range s.Actions {
			names[i] = a.Name
		}
		fmt.Fprintf(&b, " The court ordered: %s.", strings.Join(names, ", "))
	}
	if len(s.Events) > 0 {
		fmt.Fprintf(&b, " %s.", strings.Join(s.Events, ". "))
	} else {
		b.WriteString(" A quiet season.")
	}
	if len(s.Income) > 0 {
		fmt.Fprintf(&b, " Income: %s.", strings.Join(s.Income, "; "))
	}
	if len(s.Drift) > 0 {
		fmt.Fprintf(&b, " Drift: %s.", strings.Join(s.Drift, ", "))
	}
	return b.String(), nil
}
