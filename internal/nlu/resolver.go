// README: Deterministic Spanish intent resolver: an ordered rule list that
// maps a transcript plus trip context to an action. Runs when the model is
// unavailable or returns garbage, so it must always produce a result.
package nlu

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tastetrip/internal/modules/poi"
	"tastetrip/internal/spanish"
	"tastetrip/internal/timeutil"
)

// Resolve walks the rule list in priority order and returns the first match.
// It never fails: the final rule is a catch-all clarification request.
func Resolve(transcript string, tc TripContext) Result {
	in := turnInput{
		raw:   strings.TrimSpace(transcript),
		lower: strings.ToLower(strings.TrimSpace(transcript)),
		lastQ: strings.ToLower(tc.LastQuestion),
		tc:    tc,
	}
	for _, r := range rules {
		if res := r.apply(&in); res != nil {
			return res.Sanitize()
		}
	}
	return none("No te he entendido bien. ¿Puedes repetirlo?").Sanitize()
}

type turnInput struct {
	raw   string
	lower string
	lastQ string
	tc    TripContext
}

func (in *turnInput) wordCount() int { return len(strings.Fields(in.lower)) }

type rule struct {
	name  string
	apply func(*turnInput) *Result
}

// Order matters: earlier rules win. Removal outranks filters so that a
// sentence naming both ("quita el sitio con terraza") reads as a removal.
var rules = []rule{
	{"stop_city_phrase", ruleStopCityPhrase},
	{"pending_route_answer", rulePendingRouteAnswer},
	{"removal", ruleRemoval},
	{"add_poi", ruleAddPOI},
	{"filter", ruleFilter},
	{"poi_question", rulePOIQuestion},
	{"full_route_phrase", ruleFullRoutePhrase},
	{"answer_to_last_question", ruleAnswerToLastQuestion},
	{"bare_city", ruleBareCity},
}

const cityClass = `[a-záéíóúñü][a-záéíóúñü\s]`

var (
	stopPhraseRx = regexp.MustCompile(`(?i)(?:tambi[eé]n\s+)?(?:(?:quiero|quieres|voy\s+a)\s+)?(?:me\s+)?\bpar(?:o|ar|a|e)\s+en\s+(` + cityClass + `{1,25})`)
	passByRx     = regexp.MustCompile(`(?i)pas(?:o|a|ar|ando)\s+por\s+(` + cityClass + `{1,25})`)
	stopNounRx   = regexp.MustCompile(`(?i)(?:una?\s+)?parada\s+en\s+(` + cityClass + `{1,25})`)

	directAnswerRx = regexp.MustCompile(`(?i)^\s*(?:no|nada|directo|directos|sin\s+paradas?|sin\s+ciudades|adelante|va|venga|vale|dale|ning[uú]na?)\b`)
	busyWordsRx    = regexp.MustCompile(`(?i)\b(?:quita|elimina|borra|saca|a[ñn]ade|agrega|incluye|pon|filtro|restaurante|qu[eé]|c[oó]mo|d[oó]nde|cu[aá]nto|hay)\b`)

	removalVerbRx = regexp.MustCompile(`(?i)\b(?:quita|elimina|borra|saca)\b`)
	removalCityRx = regexp.MustCompile(`(?i)(?:quita|elimina|borra|saca)(?:\s+la)?(?:\s+parada)?(?:\s+de)?\s+(` + cityClass + `{1,20})`)
	waypointHintRx = regexp.MustCompile(`(?i)\b(?:parada|ciudad|pueblo|paso|ruta|escala)\b`)

	addVerbRx    = regexp.MustCompile(`(?i)\b(?:a[ñn][aá]de|a[ñn]adir|incluye|incluir|agrega|agregar|apunta|ap[uú]ntame|pon|ponme)\b`)
	addDeicticRx = regexp.MustCompile(`(?i)\b(?:es[et]e\s+(?:restaurante|sitio|lugar)|el\s+(?:primero|segundo|tercero))\b`)

	questionRx = regexp.MustCompile(`(?i)qu[eé]\s+(?:otras?\s+|m[aá]s\s+)?(?:paradas?|opciones|restaurantes?|sitios?|lugares)\s+hay|qu[eé]\s+hay\s+(?:por|en|cerca)|d[oó]nde\s+puedo\s+(?:comer|parar)|recomi[eé]ndame`)

	leadingVerbRx = regexp.MustCompile(`(?i)^\s*(?:quiero|quisiera|me\s+gustar[ií]a|necesito|vamos\s+a|voy\s+a|hacer|ir|viajar|una?\s+ruta)\s+`)
	fullRouteRx   = regexp.MustCompile(`(?i)\b(?:de|desde)\s+(` + cityClass + `{0,20}?)\s+(?:a|hacia|hasta|para)\s+(` + cityClass + `{0,20}?)[.,!?]*\s*$`)

	interrogativeRx = regexp.MustCompile(`(?i)[¿?]|\b(?:qu[eé]|c[oó]mo|cu[aá]ndo|d[oó]nde|cu[aá]nto|qui[eé]n)\b`)
	smallTalkRx     = regexp.MustCompile(`(?i)^\s*(?:s[ií]|vale|ok|okey|gracias|hola|buenas|adi[oó]s)\b`)
	deactivateRx    = regexp.MustCompile(`(?i)\b(?:desactiva|apaga)\b`)
)

// Rule 1: explicit "stop in <city>" phrasing. Needs a route context to act
// on; otherwise later rules get a chance.
func ruleStopCityPhrase(in *turnInput) *Result {
	city := ExtractStopCity(in.raw)
	if city == "" {
		return nil
	}
	// A catalog name inside the captured text means the user is talking
	// about a restaurant, not a town.
	if matchPOIByName(in.tc.POIList(), strings.ToLower(city), 3) != nil {
		return nil
	}

	if in.tc.HasPending() {
		return &Result{
			Action: ActionCalculateRoute,
			Args: Args{
				Origin:      in.tc.PendingOrigin,
				Destination: in.tc.PendingDestination,
				Waypoints:   []string{city},
			},
		}
	}
	if in.tc.HasRoute() {
		return &Result{
			Speak:  "Añadido " + city + " a la ruta.",
			Action: ActionAddWaypoint,
			Args:   Args{Waypoints: []string{city}},
		}
	}
	return nil
}

// Rule 2: the user is answering "¿vamos directos o quieres parar?". A
// negative means route as proposed; a bare place name means one stop.
func rulePendingRouteAnswer(in *turnInput) *Result {
	asked := strings.Contains(in.lastQ, "directo") &&
		(strings.Contains(in.lastQ, "paso") || strings.Contains(in.lastQ, "parada"))
	if !in.tc.HasPending() && !asked {
		return nil
	}

	origin, dest := in.tc.PendingOrigin, in.tc.PendingDestination
	if origin == "" {
		origin = in.tc.OriginName
	}
	if dest == "" {
		dest = in.tc.DestinationName
	}

	if directAnswerRx.MatchString(in.lower) {
		return &Result{
			Action: ActionCalculateRoute,
			Args:   Args{Origin: origin, Destination: dest, Waypoints: []string{}},
		}
	}

	if in.wordCount() <= 3 && !busyWordsRx.MatchString(in.lower) && !strings.HasPrefix(in.lower, "no ") {
		if city := spanish.NormalizeCity(in.raw); city != "" {
			return &Result{
				Action: ActionCalculateRoute,
				Args:   Args{Origin: origin, Destination: dest, Waypoints: []string{city}},
			}
		}
	}
	return nil
}

// Rule 3: removal requests. Committed stops are checked before waypoint
// names unless the sentence explicitly talks about paradas/ciudades.
func ruleRemoval(in *turnInput) *Result {
	if !removalVerbRx.MatchString(in.lower) {
		return nil
	}

	// "quita el filtro vegano" is a filter reset, not a route edit.
	if strings.Contains(in.lower, "filtro") {
		key, _ := filterKeywordIn(in.lower)
		return &Result{
			Speak:  "Filtro desactivado.",
			Action: ActionClearFilter,
			Args:   Args{FilterKey: key},
		}
	}

	wantsWaypoint := waypointHintRx.MatchString(in.lower) || len(in.tc.AddedStops) == 0
	if wantsWaypoint {
		if res := removalAsWaypoint(in); res != nil {
			return res
		}
	}
	if p := matchPOIByName(in.tc.AddedStops, in.lower, 3); p != nil {
		return &Result{
			Speak:  "He quitado " + p.Name + ".",
			Action: ActionRemovePOI,
			Args:   Args{POIName: p.Name, POI: p},
		}
	}
	if res := removalAsWaypoint(in); res != nil {
		return res
	}
	return none("¿Qué parada o restaurante quieres quitar?")
}

// removalAsWaypoint tests the captured text against the known stops by
// substring: the capture class drags trailing words along ("Zaragoza de
// la ruta"), so an exact comparison would miss.
func removalAsWaypoint(in *turnInput) *Result {
	m := removalCityRx.FindStringSubmatch(in.raw)
	if m == nil {
		return nil
	}
	captured := strings.ToLower(strings.TrimSpace(m[1]))
	if captured == "" {
		return nil
	}
	for _, wp := range in.tc.Waypoints {
		name := strings.ToLower(wp)
		if strings.Contains(captured, name) || strings.Contains(name, captured) {
			return &Result{
				Action: ActionRemoveWaypoint,
				Args:   Args{Waypoints: []string{wp}},
			}
		}
	}
	return nil
}

// Rule 4: add a catalog restaurant to the trip, by name, by "ese
// restaurante", or by ordinal position in the visible list.
func ruleAddPOI(in *turnInput) *Result {
	hasVerb := addVerbRx.MatchString(in.lower)
	hasDeictic := addDeicticRx.MatchString(in.lower)
	if !hasVerb && !hasDeictic {
		return nil
	}
	// The add verbs overlap stop phrasing ("pon una parada en...").
	if !hasDeictic && (stopNounRx.MatchString(in.raw) || passByRx.MatchString(in.raw) || stopPhraseRx.MatchString(in.raw)) {
		return nil
	}

	list := in.tc.POIList()

	for idx, word := range []string{"primero", "segundo", "tercero"} {
		if strings.Contains(in.lower, word) && idx < len(list) {
			p := list[idx]
			return &Result{
				Speak:  "He añadido " + p.Name + " a tu ruta.",
				Action: ActionAddPOI,
				Args:   Args{POIName: p.Name, POI: &p},
			}
		}
	}
	if p := matchPOIByName(list, in.lower, 3); p != nil {
		return &Result{
			Speak:  "He añadido " + p.Name + " a tu ruta.",
			Action: ActionAddPOI,
			Args:   Args{POIName: p.Name, POI: p},
		}
	}
	if p := matchPOIByAddress(list, in.lower); p != nil {
		return &Result{
			Speak:  "He añadido " + p.Name + " a tu ruta.",
			Action: ActionAddPOI,
			Args:   Args{POIName: p.Name, POI: p},
		}
	}
	return none("No encuentro ese restaurante en la lista. ¿Puedes repetir el nombre?")
}

// filterKeywords maps spoken vocabulary to filter keys. Slice, not map:
// matching must scan in a fixed order so resolution stays deterministic.
var filterKeywords = []struct{ word, key, label string }{
	{"vegano", "vegan", "comida vegana"},
	{"vegana", "vegan", "comida vegana"},
	{"vegetariano", "vegan", "comida vegana"},
	{"vegetariana", "vegan", "comida vegana"},
	{"wifi", "wifi", "wifi"},
	{"terraza", "terraza", "terraza"},
	{"perro", "petFriendly", "admite mascotas"},
	{"mascota", "petFriendly", "admite mascotas"},
	{"parking", "parking", "parking"},
	{"aparcamiento", "parking", "parking"},
	{"cargador", "evCharger", "cargador para coche eléctrico"},
	{"eléctrico", "evCharger", "cargador para coche eléctrico"},
	{"electrico", "evCharger", "cargador para coche eléctrico"},
	{"abierto", "openNow", "abierto ahora"},
	{"abiertos", "openNow", "abierto ahora"},
}

func filterKeywordIn(lower string) (key, label string) {
	for _, fk := range filterKeywords {
		if strings.Contains(lower, fk.word) {
			return fk.key, fk.label
		}
	}
	return "", ""
}

// Rule 5: enable a filter and summarize what survives it.
func ruleFilter(in *turnInput) *Result {
	key, label := filterKeywordIn(in.lower)
	if key == "" {
		return nil
	}
	if deactivateRx.MatchString(in.lower) {
		return &Result{
			Speak:  "Filtro desactivado.",
			Action: ActionClearFilter,
			Args:   Args{FilterKey: key},
		}
	}

	at := in.tc.DepartureTime
	if at.IsZero() {
		at = time.Now()
	}
	var matching []string
	for _, p := range in.tc.POIList() {
		ok := false
		if key == "openNow" {
			ok = timeutil.WithinOpenHours(p.Hours.Open, p.Hours.Close, at)
		} else {
			ok = p.HasService(poi.ServiceForFilter(key))
		}
		if ok {
			matching = append(matching, p.Name)
		}
	}

	speak := "He activado el filtro de " + label + ", pero no veo ningún sitio que lo cumpla en la ruta."
	if len(matching) > 0 {
		speak = fmt.Sprintf("He activado el filtro de %s. Hay %s: %s.",
			label, countPhrase(len(matching), "sitio", "sitios"), joinSpoken(matching, 3))
	}
	return &Result{
		Speak:  speak,
		Action: ActionSetFilter,
		Args:   Args{FilterKey: key, FilterValue: true},
	}
}

// Rule 6: questions about what is available. Answer with a short spoken
// inventory; no state change.
func rulePOIQuestion(in *turnInput) *Result {
	if !questionRx.MatchString(in.lower) {
		return nil
	}
	list := in.tc.POIList()
	if len(list) == 0 {
		return none("No veo restaurantes en la ruta ahora mismo.")
	}
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return none(fmt.Sprintf("En la ruta hay %s. Por ejemplo: %s.",
		countPhrase(len(list), "sitio", "sitios"), joinSpoken(names, 3)))
}

// Rule 7: a full "from X to Y" sentence anywhere in the turn.
func ruleFullRoutePhrase(in *turnInput) *Result {
	origin, dest, ok := ParseFullRoute(in.raw)
	if !ok {
		return nil
	}
	return &Result{
		Action: ActionCalculateRoute,
		Args:   Args{Origin: origin, Destination: dest, Waypoints: []string{}},
	}
}

// Rule 8: interpret a short reply against the question we just asked.
func ruleAnswerToLastQuestion(in *turnInput) *Result {
	if in.lastQ == "" || in.wordCount() > 4 {
		return nil
	}
	city := spanish.NormalizeCity(in.raw)
	if city == "" || smallTalkRx.MatchString(in.lower) {
		return nil
	}

	switch {
	case strings.Contains(in.lastQ, "desde") || strings.Contains(in.lastQ, "sales") || strings.Contains(in.lastQ, "origen"):
		if in.tc.HasDest() {
			return &Result{
				Action: ActionCalculateRoute,
				Args:   Args{Origin: city, Destination: in.tc.DestinationName, Waypoints: []string{}},
			}
		}
		return &Result{
			Speak:  "Saliendo desde " + city + ". ¿A dónde quieres ir?",
			Action: ActionSetOrigin,
			Args:   Args{Origin: city, Waypoints: []string{}},
		}
	case strings.Contains(in.lastQ, "destino") || strings.Contains(in.lastQ, "vas") ||
		strings.Contains(in.lastQ, "adónde") || strings.Contains(in.lastQ, "a dónde"):
		if in.tc.HasOrigin() {
			return &Result{
				Action: ActionCalculateRoute,
				Args:   Args{Origin: in.tc.OriginName, Destination: city, Waypoints: []string{}},
			}
		}
		return &Result{
			Speak:  "Destino " + city + ". ¿Desde qué ciudad sales?",
			Action: ActionSetDestination,
			Args:   Args{Destination: city, Waypoints: []string{}},
		}
	}
	return nil
}

// Rule 9: a bare short utterance is read as a city and slotted into
// whatever the trip is missing next.
func ruleBareCity(in *turnInput) *Result {
	if in.wordCount() > 3 || interrogativeRx.MatchString(in.raw) || smallTalkRx.MatchString(in.lower) {
		return nil
	}
	city := spanish.NormalizeCity(in.raw)
	if city == "" {
		return nil
	}

	switch {
	case !in.tc.HasOrigin():
		return &Result{
			Speak:  "Saliendo desde " + city + ". ¿A dónde quieres ir?",
			Action: ActionSetOrigin,
			Args:   Args{Origin: city, Waypoints: []string{}},
		}
	case !in.tc.HasDest():
		return &Result{
			Action: ActionCalculateRoute,
			Args:   Args{Origin: in.tc.OriginName, Destination: city, Waypoints: []string{}},
		}
	default:
		return &Result{
			Speak:  "Añadido " + city + " a la ruta.",
			Action: ActionAddWaypoint,
			Args:   Args{Waypoints: []string{city}},
		}
	}
}

// ParseFullRoute extracts origin and destination from a "de X a Y" style
// sentence, tolerating leading travel verbs. Used during route bootstrap.
func ParseFullRoute(transcript string) (origin, dest string, ok bool) {
	stripped := strings.TrimSpace(transcript)
	for {
		next := leadingVerbRx.ReplaceAllString(stripped, "")
		if next == stripped {
			break
		}
		stripped = next
	}
	m := fullRouteRx.FindStringSubmatch(stripped)
	if m == nil {
		return "", "", false
	}
	origin = spanish.NormalizeCity(m[1])
	dest = spanish.NormalizeCity(m[2])
	if origin == "" || dest == "" {
		return "", "", false
	}
	return origin, dest, true
}

// IsNegative reports whether the transcript is a "no stops, go direct"
// style answer.
func IsNegative(transcript string) bool {
	return directAnswerRx.MatchString(strings.ToLower(strings.TrimSpace(transcript)))
}

// ExtractStopCity pulls a city out of explicit stop phrasing ("paro en X",
// "pasando por X", "una parada en X"). Empty when no such phrase appears.
func ExtractStopCity(transcript string) string {
	for _, rx := range []*regexp.Regexp{stopPhraseRx, passByRx, stopNounRx} {
		if m := rx.FindStringSubmatch(transcript); m != nil {
			return spanish.NormalizeCity(m[1])
		}
	}
	return ""
}

// ExtractCity normalizes the transcript into a bare city name. Questions
// and small talk yield "".
func ExtractCity(transcript string) string {
	if interrogativeRx.MatchString(transcript) || smallTalkRx.MatchString(strings.ToLower(transcript)) {
		return ""
	}
	return spanish.NormalizeCity(transcript)
}

// matchPOIByName finds the first POI whose name has a token longer than
// minLen runes appearing in the lowercased text.
func matchPOIByName(list []poi.POI, lower string, minLen int) *poi.POI {
	for i := range list {
		for _, tok := range nameTokens(list[i].Name) {
			if len([]rune(tok)) >= minLen && strings.Contains(lower, tok) {
				return &list[i]
			}
		}
	}
	return nil
}

func matchPOIByAddress(list []poi.POI, lower string) *poi.POI {
	for i := range list {
		for _, tok := range nameTokens(list[i].Address) {
			if len([]rune(tok)) >= 4 && strings.Contains(lower, tok) {
				return &list[i]
			}
		}
	}
	return nil
}

func nameTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.'
	})
}

func countPhrase(n int, singular, plural string) string {
	feminine := strings.HasSuffix(singular, "a")
	if n == 1 {
		if feminine {
			return "una " + singular
		}
		return "un " + singular
	}
	return spanish.NumberToWordsCount(n, feminine) + " " + plural
}

// joinSpoken renders up to max names as natural Spanish enumeration.
func joinSpoken(names []string, max int) string {
	if len(names) > max {
		names = names[:max]
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " y " + names[len(names)-1]
	}
}
