// README: The dual-path turn resolver: model first, deterministic rule
// cascade whenever the model is missing, failing, or talking nonsense.
package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"tastetrip/internal/modules/poi"
	"tastetrip/internal/nlu"
	"tastetrip/internal/spanish"
)

// Agent resolves one transcript into an action. It never returns an error:
// every failure path degrades to the rule cascade, which is total.
type Agent struct {
	gen Generator // nil disables the model path entirely
	log *slog.Logger
	now func() time.Time
}

func NewAgent(gen Generator, log *slog.Logger) *Agent {
	return &Agent{gen: gen, log: log, now: time.Now}
}

// Resolve interprets the transcript against the trip snapshot.
func (a *Agent) Resolve(ctx context.Context, transcript string, tc nlu.TripContext, history []Turn) nlu.Result {
	if a.gen == nil {
		return nlu.Resolve(transcript, tc)
	}

	raw, err := a.gen.Generate(ctx, BuildSystemPrompt(tc, a.now()), history, transcript)
	if err != nil {
		a.log.Warn("model path failed, using rule cascade", "error", err)
		return nlu.Resolve(transcript, tc)
	}

	res, ok := a.parse(raw, tc)
	if !ok {
		a.log.Warn("unusable model reply, using rule cascade", "raw", truncate(raw, 200))
		return nlu.Resolve(transcript, tc)
	}
	return res
}

// wireResult mirrors the JSON schema the prompt demands. The flex types
// absorb the model's habit of quoting booleans and numbers.
type wireResult struct {
	Speak       string   `json:"speak"`
	Action      string   `json:"action"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Waypoints   []string `json:"waypoints"`
	POIName     string   `json:"poiName"`
	FilterKey   string   `json:"filterKey"`
	FilterValue flexBool `json:"filterValue"`
	Hours       flexInt  `json:"hours"`
	Minutes     flexInt  `json:"minutes"`
	Tomorrow    flexBool `json:"tomorrow"`
}

func (a *Agent) parse(raw string, tc nlu.TripContext) (nlu.Result, bool) {
	var w wireResult
	if err := json.Unmarshal([]byte(cleanJSONString(raw)), &w); err != nil {
		return nlu.Result{}, false
	}

	action := nlu.Action(strings.TrimSpace(w.Action))
	switch action {
	case nlu.ActionCalculateRoute, nlu.ActionAddPOI, nlu.ActionRemovePOI,
		nlu.ActionAddWaypoint, nlu.ActionRemoveWaypoint, nlu.ActionSetFilter,
		nlu.ActionClearFilter, nlu.ActionSetDepartureTime, nlu.ActionNone:
	default:
		// set_origin/set_destination belong to the cascade only.
		return nlu.Result{}, false
	}

	res := nlu.Result{
		Speak:  strings.TrimSpace(w.Speak),
		Action: action,
		Args: nlu.Args{
			Origin:      spanish.NormalizeCity(w.Origin),
			Destination: spanish.NormalizeCity(w.Destination),
			Waypoints:   normalizeWaypoints(w.Waypoints),
			POIName:     strings.TrimSpace(w.POIName),
			FilterKey:   strings.TrimSpace(w.FilterKey),
			FilterValue: bool(w.FilterValue),
			Hours:       int(w.Hours),
			Minutes:     int(w.Minutes),
			Tomorrow:    bool(w.Tomorrow),
		},
	}

	switch action {
	case nlu.ActionCalculateRoute:
		if res.Args.Origin == "" && tc.OriginName != "" {
			res.Args.Origin = tc.OriginName
		}
		if res.Args.Origin == "" || res.Args.Destination == "" {
			return nlu.Result{}, false
		}
	case nlu.ActionAddPOI:
		// Adding only makes sense against what the user can see.
		p := resolvePOI(tc.POIList(), res.Args.POIName)
		if p == nil {
			return nlu.Result{
				Speak:  "No encuentro ese sitio en la lista. ¿Puedes repetir el nombre?",
				Action: nlu.ActionNone,
				Args:   nlu.Args{Waypoints: []string{}},
			}, true
		}
		res.Args.POI = p
		res.Args.POIName = p.Name
	case nlu.ActionRemovePOI:
		// Removal searches the whole catalog: the target may be filtered
		// out of view right now.
		p := resolvePOI(tc.AllPOIs, res.Args.POIName)
		if p == nil {
			p = resolvePOI(tc.AddedStops, res.Args.POIName)
		}
		if p == nil {
			return nlu.Result{
				Speak:  "No encuentro ese sitio en la lista. ¿Puedes repetir el nombre?",
				Action: nlu.ActionNone,
				Args:   nlu.Args{Waypoints: []string{}},
			}, true
		}
		res.Args.POI = p
		res.Args.POIName = p.Name
	case nlu.ActionSetFilter, nlu.ActionClearFilter:
		if action == nlu.ActionSetFilter && !(&poi.Filters{}).Set(res.Args.FilterKey, true) {
			return nlu.Result{}, false
		}
	case nlu.ActionSetDepartureTime:
		if res.Args.Hours < 0 || res.Args.Hours > 23 || res.Args.Minutes < 0 || res.Args.Minutes > 59 {
			return nlu.Result{}, false
		}
	}

	return res.Sanitize(), true
}

func normalizeWaypoints(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		if c := spanish.NormalizeCity(w); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// resolvePOI fuzzy-matches a spoken name against the list: the catalog name
// containing the query, or the query containing the name's first word.
func resolvePOI(list []poi.POI, query string) *poi.POI {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for i := range list {
		name := strings.ToLower(list[i].Name)
		if strings.Contains(name, q) {
			return &list[i]
		}
		if first := strings.Fields(name); len(first) > 0 && strings.Contains(q, first[0]) {
			return &list[i]
		}
	}
	return nil
}

// cleanJSONString removes markdown code fences if present (e.g. ```json ... ```).
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// flexBool accepts true, "true", 1 and friends.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// flexInt accepts 9 and "9"; anything else decodes as zero.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}
