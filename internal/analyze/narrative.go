package analyze

import (
	"fmt"
	"strings"

	"github.com/votelens/votelens/internal/model"
)

// ComposeNarrative builds the deterministic plain-text summary of an
// analysis. It restates only what was mapped, never inventing positions.
func ComposeNarrative(analysis *model.Analysis) string {
	var sb strings.Builder

	mapped := 0
	unclear := 0
	for _, m := range analysis.MappedPriorities {
		if m.Fallback {
			unclear++
		} else {
			mapped++
		}
	}

	sb.WriteString(fmt.Sprintf("Based on your submitted priorities, %d of %d mapped to policy areas.",
		mapped, len(analysis.MappedPriorities)))
	if unclear > 0 {
		sb.WriteString(fmt.Sprintf(" %d could not be matched and may need rephrasing.", unclear))
	}
	sb.WriteString("\n")

	for _, m := range analysis.MappedPriorities {
		if m.Fallback {
			sb.WriteString(fmt.Sprintf("\n- %q needs clarification before it can be matched to a policy area.", m.Priority))
			continue
		}
		top := m.Matches[0]
		sb.WriteString(fmt.Sprintf("\n- %q maps to %s: %s", m.Priority, top.StandardTerm, top.PlainEnglish))
		if len(m.Matches) > 1 {
			var others []string
			for _, alt := range m.Matches[1:] {
				if alt.Score > 0 {
					others = append(others, alt.StandardTerm)
				}
			}
			if len(others) > 0 {
				sb.WriteString(fmt.Sprintf(" (also related: %s)", strings.Join(others, ", ")))
			}
		}
	}

	if len(analysis.ConflictingPriorities) > 0 {
		sb.WriteString("\n\nSome of your priorities are in tension:")
		for _, c := range analysis.ConflictingPriorities {
			sb.WriteString(fmt.Sprintf("\n- %s", c.Description))
		}
		sb.WriteString("\nYou may want to consider which matters more to you.")
	}

	return sb.String()
}
