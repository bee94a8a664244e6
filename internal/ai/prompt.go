// README: System-prompt construction: trip context serialized into text
// blocks plus the instruction rules the model must follow.
package ai

import (
	"fmt"
	"strings"
	"time"

	"tastetrip/internal/modules/poi"
	"tastetrip/internal/nlu"
	"tastetrip/internal/timeutil"
)

const (
	maxVisiblePOIs = 8
	maxCatalogPOIs = 35
)

// BuildSystemPrompt renders the full system instruction for one turn.
func BuildSystemPrompt(tc nlu.TripContext, now time.Time) string {
	var b strings.Builder

	b.WriteString(`Eres el copiloto de voz de TasteTrip, un planificador de viajes en coche por España. Hablas español de forma cercana y breve. Tu trabajo es interpretar lo que dice el conductor y devolver una acción estructurada.

`)

	b.WriteString("CONTEXTO ACTUAL:\n")
	b.WriteString(routeBlock(tc, now))
	b.WriteString(stopsBlock(tc))
	b.WriteString(filtersBlock(tc))
	b.WriteString(visibleBlock(tc))
	b.WriteString(catalogBlock(tc))
	if tc.LastQuestion != "" {
		fmt.Fprintf(&b, "- Última pregunta del asistente: %q\n", tc.LastQuestion)
	}

	b.WriteString(`
RESPONDE SIEMPRE con un único objeto JSON, sin markdown ni texto extra:
{
  "speak": "frase corta para decir en voz alta",
  "action": "calculate_route" | "add_poi" | "remove_poi" | "add_waypoint" | "remove_waypoint" | "set_filter" | "clear_filter" | "set_departure_time" | "none",
  "origin": "ciudad o vacío",
  "destination": "ciudad o vacío",
  "waypoints": ["ciudades de paso"],
  "poiName": "nombre del restaurante o vacío",
  "filterKey": "openNow" | "evCharger" | "vegan" | "wifi" | "terraza" | "petFriendly" | "parking" | "",
  "filterValue": true | false,
  "hours": 0-23,
  "minutes": 0-59,
  "tomorrow": true | false
}

REGLAS:
1. Devuelve SOLO el JSON. Nada antes ni después.
2. En "speak", escribe los números con palabras (di "tres horas", nunca "3 horas").
3. En origin, destination y waypoints pon solo el nombre de la ciudad, sin verbos ni preposiciones ("Madrid", no "voy a Madrid").
4. Si el usuario pide una ruta nueva, usa calculate_route con origin y destination. Waypoints es siempre una lista, vacía si no hay paradas.
5. Si hay una ruta pendiente de confirmar paradas y el usuario contesta que no quiere parar (no, directo, nada), usa calculate_route con la ruta pendiente y waypoints vacíos.
6. Si contesta con una ciudad a la pregunta de paradas, usa calculate_route con esa ciudad como único waypoint.
7. Usa add_poi SOLO si ya hay una ruta activa y el restaurante aparece en la lista visible. En poiName copia el nombre exacto de la lista.
8. Para quitar un restaurante ya añadido usa remove_poi con su nombre. Para quitar una ciudad de paso usa remove_waypoint con esa ciudad en waypoints.
9. Para filtros usa set_filter o clear_filter con filterKey del esquema. En speak resume qué sitios cumplen el filtro.
10. Para la hora de salida usa set_departure_time con hours, minutes y tomorrow.
11. Si pregunta por sitios o por la ruta sin pedir cambios, usa "none" y contesta en speak con los datos del contexto.
12. No vuelvas a preguntar un destino que el usuario ya ha dicho en esta conversación.
13. Si no entiendes la petición, usa "none" y pide en speak que lo repita.
`)

	return b.String()
}

func routeBlock(tc nlu.TripContext, now time.Time) string {
	if !tc.HasRoute() {
		if tc.HasPending() {
			return fmt.Sprintf("- Ruta pendiente de confirmar paradas: %s → %s.\n",
				tc.PendingOrigin, tc.PendingDestination)
		}
		return "- No hay ruta activa todavía.\n"
	}

	km := tc.RouteDistanceMeters / 1000
	dur := time.Duration(tc.RouteDurationSeconds) * time.Second
	h := int(dur.Hours())
	m := int(dur.Minutes()) % 60

	departure := tc.DepartureTime
	if departure.IsZero() {
		departure = now
	}
	arrival := timeutil.AddSeconds(departure, tc.RouteDurationSeconds)

	return fmt.Sprintf("- Ruta activa: %s → %s (%.0f km, %dh %dmin). Salida %s, llegada %s.\n",
		tc.OriginName, tc.DestinationName, km, h, m,
		departure.Format("15:04"), arrival.Format("15:04"))
}

func stopsBlock(tc nlu.TripContext) string {
	var parts []string
	parts = append(parts, tc.Waypoints...)
	for _, p := range tc.AddedStops {
		parts = append(parts, p.Name)
	}
	if len(parts) == 0 {
		return "- Sin paradas añadidas.\n"
	}
	return "- Paradas añadidas: " + strings.Join(parts, ", ") + ".\n"
}

func filtersBlock(tc nlu.TripContext) string {
	active := tc.Filters.Active()
	if len(active) == 0 {
		return "- Sin filtros activos.\n"
	}
	return "- Filtros activos: " + strings.Join(active, ", ") + ".\n"
}

func visibleBlock(tc nlu.TripContext) string {
	if len(tc.VisiblePOIs) == 0 {
		return ""
	}
	names := make([]string, 0, maxVisiblePOIs)
	for i, p := range tc.VisiblePOIs {
		if i == maxVisiblePOIs {
			break
		}
		names = append(names, p.Name)
	}
	return "- Restaurantes visibles en la ruta: " + strings.Join(names, ", ") + ".\n"
}

func catalogBlock(tc nlu.TripContext) string {
	if len(tc.AllPOIs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("- Catálogo de restaurantes:\n")
	for i, p := range tc.AllPOIs {
		if i == maxCatalogPOIs {
			break
		}
		b.WriteString("  " + catalogLine(p) + "\n")
	}
	return b.String()
}

func catalogLine(p poi.POI) string {
	fields := []string{p.Category, fmt.Sprintf("rating %.1f", p.Rating), p.Address}
	if p.Hours.Open != "" && p.Hours.Close != "" {
		fields = append(fields, p.Hours.Open+"-"+p.Hours.Close)
	}
	if len(p.Services) > 0 {
		fields = append(fields, "servicios: "+strings.Join(p.Services, ", "))
	}
	return fmt.Sprintf("• %s [%s]", p.Name, strings.Join(fields, " | "))
}
