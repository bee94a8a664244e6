// README: Spoken route summary: distance, duration, stops and the best
// rated restaurant, all numbers rendered as words.
package assistant

import (
	"fmt"
	"math"
	"strings"

	"tastetrip/internal/spanish"
)

func (s *Session) routeSummary() string {
	if !s.state.HasRoute() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ruta de %s a %s", s.state.Origin.Name, s.state.Destination.Name)
	if names := s.state.WaypointNames(); len(names) > 0 {
		b.WriteString(" pasando por " + joinNatural(names))
	}

	km := int(math.Round(s.state.Route.DistanceMeters / 1000))
	fmt.Fprintf(&b, ": %s, %s.",
		countSpoken(km, "kilómetro", "kilómetros"),
		durationSpoken(s.state.Route.DurationSeconds))

	switch {
	case len(s.visible) == 0:
		b.WriteString(" No veo restaurantes recomendables en el camino.")
	default:
		best := s.visible[0]
		for _, p := range s.visible[1:] {
			if p.Rating > best.Rating {
				best = p
			}
		}
		fmt.Fprintf(&b, " Hay %s en el camino; el mejor valorado es %s.",
			countSpoken(len(s.visible), "restaurante", "restaurantes"), best.Name)
	}
	return b.String()
}

// durationSpoken renders seconds as "cinco horas y veinte minutos".
func durationSpoken(seconds float64) string {
	total := int(math.Round(seconds / 60))
	h := total / 60
	m := total % 60

	switch {
	case h == 0:
		return countSpoken(m, "minuto", "minutos")
	case m == 0:
		return countSpoken(h, "hora", "horas")
	default:
		return countSpoken(h, "hora", "horas") + " y " + countSpoken(m, "minuto", "minutos")
	}
}

func countSpoken(n int, singular, plural string) string {
	feminine := strings.HasSuffix(singular, "a")
	if n == 1 {
		if feminine {
			return "una " + singular
		}
		return "un " + singular
	}
	return spanish.NumberToWordsCount(n, feminine) + " " + plural
}

func joinNatural(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " y " + names[len(names)-1]
	}
}
