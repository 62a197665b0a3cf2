// Package layout computes window placements for snapping actions.
package layout

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Kind names a placement action.
type Kind int

const (
	KindUnknown Kind = iota
	LeftHalf
	RightHalf
	CenterHalf
	TopHalf
	BottomHalf
	TopLeft
	TopRight
	BottomLeft
	BottomRight
	FirstThird
	CenterThird
	LastThird
	FirstTwoThirds
	LastTwoThirds
	Maximize
	AlmostMaximize
	MaximizeHeight
	Smaller
	Larger
	Center
	CenterProminently
	Restore
	NextDisplay
	PreviousDisplay
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	FirstFourth
	SecondFourth
	ThirdFourth
	LastFourth
	FirstThreeFourths
	LastThreeFourths
	TopLeftSixth
	TopCenterSixth
	TopRightSixth
	BottomLeftSixth
	BottomCenterSixth
	BottomRightSixth
	TopLeftThird
	TopRightThird
	BottomLeftThird
	BottomRightThird
	ApplyZone
	ActivateLayout
)

var kindNames = map[Kind]string{
	LeftHalf:          "left-half",
	RightHalf:         "right-half",
	CenterHalf:        "center-half",
	TopHalf:           "top-half",
	BottomHalf:        "bottom-half",
	TopLeft:           "top-left",
	TopRight:          "top-right",
	BottomLeft:        "bottom-left",
	BottomRight:       "bottom-right",
	FirstThird:        "first-third",
	CenterThird:       "center-third",
	LastThird:         "last-third",
	FirstTwoThirds:    "first-two-thirds",
	LastTwoThirds:     "last-two-thirds",
	Maximize:          "maximize",
	AlmostMaximize:    "almost-maximize",
	MaximizeHeight:    "maximize-height",
	Smaller:           "smaller",
	Larger:            "larger",
	Center:            "center",
	CenterProminently: "center-prominently",
	Restore:           "restore",
	NextDisplay:       "next-display",
	PreviousDisplay:   "previous-display",
	MoveLeft:          "move-left",
	MoveRight:         "move-right",
	MoveUp:            "move-up",
	MoveDown:          "move-down",
	FirstFourth:       "first-fourth",
	SecondFourth:      "second-fourth",
	ThirdFourth:       "third-fourth",
	LastFourth:        "last-fourth",
	FirstThreeFourths: "first-three-fourths",
	LastThreeFourths:  "last-three-fourths",
	TopLeftSixth:      "top-left-sixth",
	TopCenterSixth:    "top-center-sixth",
	TopRightSixth:     "top-right-sixth",
	BottomLeftSixth:   "bottom-left-sixth",
	BottomCenterSixth: "bottom-center-sixth",
	BottomRightSixth:  "bottom-right-sixth",
	TopLeftThird:      "top-left-third",
	TopRightThird:     "top-right-third",
	BottomLeftThird:   "bottom-left-third",
	BottomRightThird:  "bottom-right-third",
	ApplyZone:         "apply-zone",
	ActivateLayout:    "activate-layout",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Names returns every action name in sorted order.
func Names() []string {
	names := make([]string, 0, len(kindNames))
	for _, name := range kindNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Action is a placement request. ZoneNumber is only meaningful for
// ApplyZone and LayoutID only for ActivateLayout.
type Action struct {
	Kind       Kind
	ZoneNumber uint32
	LayoutID   string
}

// Simple returns an action without payload.
func Simple(k Kind) Action { return Action{Kind: k} }

// Zone returns ApplyZone(n).
func Zone(n uint32) Action { return Action{Kind: ApplyZone, ZoneNumber: n} }

// Activate returns ActivateLayout(id).
func Activate(id string) Action { return Action{Kind: ActivateLayout, LayoutID: id} }

// String renders the text form accepted by ParseAction.
func (a Action) String() string {
	switch a.Kind {
	case ApplyZone:
		return fmt.Sprintf("apply-zone:%d", a.ZoneNumber)
	case ActivateLayout:
		return "activate-layout:" + a.LayoutID
	default:
		return a.Kind.String()
	}
}

type wireAction struct {
	Action     string  `json:"action"`
	ZoneNumber *uint32 `json:"zone_number,omitempty"`
	LayoutID   *string `json:"layout_id,omitempty"`
}

// MarshalJSON writes {"action": name, "zone_number"?, "layout_id"?}.
func (a Action) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[a.Kind]
	if !ok {
		return nil, fmt.Errorf("cannot encode unknown action kind %d", int(a.Kind))
	}
	w := wireAction{Action: name}
	switch a.Kind {
	case ApplyZone:
		n := a.ZoneNumber
		w.ZoneNumber = &n
	case ActivateLayout:
		id := a.LayoutID
		w.LayoutID = &id
	}
	return json.Marshal(w)
}

// UnmarshalJSON rejects unknown names and payload-carrying actions that
// are missing their payload.
func (a *Action) UnmarshalJSON(data []byte) error {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	k, err := lookupKind(w.Action)
	if err != nil {
		return err
	}
	out := Action{Kind: k}
	switch k {
	case ApplyZone:
		if w.ZoneNumber == nil {
			return fmt.Errorf("apply-zone action requires zone_number")
		}
		out.ZoneNumber = *w.ZoneNumber
	case ActivateLayout:
		if w.LayoutID == nil || strings.TrimSpace(*w.LayoutID) == "" {
			return fmt.Errorf("activate-layout action requires layout_id")
		}
		out.LayoutID = *w.LayoutID
	}
	*a = out
	return nil
}

// ParseAction reads the text form: "left-half", "apply-zone:3" or
// "activate-layout:<id>".
func ParseAction(s string) (Action, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	k, err := lookupKind(strings.ToLower(name))
	if err != nil {
		return Action{}, err
	}

	switch k {
	case ApplyZone:
		if !hasArg {
			return Action{}, fmt.Errorf("apply-zone needs a zone number (apply-zone:N)")
		}
		n, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 32)
		if err != nil {
			return Action{}, fmt.Errorf("invalid zone number %q", arg)
		}
		return Zone(uint32(n)), nil
	case ActivateLayout:
		arg = strings.TrimSpace(arg)
		if !hasArg || arg == "" {
			return Action{}, fmt.Errorf("activate-layout needs a layout id (activate-layout:ID)")
		}
		return Activate(arg), nil
	default:
		if hasArg {
			return Action{}, fmt.Errorf("action %q takes no argument", name)
		}
		return Simple(k), nil
	}
}

func lookupKind(name string) (Kind, error) {
	if k, ok := kindsByName[name]; ok {
		return k, nil
	}
	if hint := suggest(name); hint != "" {
		return KindUnknown, fmt.Errorf("unknown action %q (did you mean %q?)", name, hint)
	}
	return KindUnknown, fmt.Errorf("unknown action %q", name)
}

// suggest returns the closest action name within a small edit distance.
func suggest(name string) string {
	if name == "" {
		return ""
	}
	best, bestDist := "", 4
	for _, candidate := range Names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
