package quote

import "cotizadorapp/internal/domain"

// State holds the user's per-session quote overrides: the chosen
// alternative per part key, the keys excluded from the total, and the
// active combo code. Transitions are pure; each returns a new State.
type State struct {
	Selections map[domain.PartKey]string `json:"selections,omitempty"`
	Excluded   map[domain.PartKey]bool   `json:"excluded,omitempty"`
	Combo      string                    `json:"combo,omitempty"`
}

// NewState returns an empty override state
func NewState() State {
	return State{}
}

func (s State) clone() State {
	out := State{Combo: s.Combo}
	if len(s.Selections) > 0 {
		out.Selections = make(map[domain.PartKey]string, len(s.Selections))
		for k, v := range s.Selections {
			out.Selections[k] = v
		}
	}
	if len(s.Excluded) > 0 {
		out.Excluded = make(map[domain.PartKey]bool, len(s.Excluded))
		for k, v := range s.Excluded {
			out.Excluded[k] = v
		}
	}
	return out
}

// SelectAlternative records the user's explicit product choice for a key
func (s State) SelectAlternative(key domain.PartKey, code string) State {
	out := s.clone()
	if out.Selections == nil {
		out.Selections = make(map[domain.PartKey]string, 1)
	}
	out.Selections[key] = code
	return out
}

// ToggleInclusion flips whether a discretionary line counts toward the total
func (s State) ToggleInclusion(key domain.PartKey) State {
	out := s.clone()
	if out.Excluded == nil {
		out.Excluded = make(map[domain.PartKey]bool, 1)
	}
	if out.Excluded[key] {
		delete(out.Excluded, key)
	} else {
		out.Excluded[key] = true
	}
	return out
}

// ToggleCombo activates a combo code, replacing any previously active
// one. Toggling the active combo deactivates it. Only one combo can be
// active at a time.
func (s State) ToggleCombo(code string) State {
	out := s.clone()
	if normalizeCode(out.Combo) == normalizeCode(code) {
		out.Combo = ""
	} else {
		out.Combo = code
	}
	return out
}

// Normalize repairs selection drift after a vehicle or catalog change:
// for each computed line, the stored selection is replaced by the
// line's current selection (the first alternative when the stored one
// is stale, or nothing when the line has no alternatives). Keys with
// no line in the set, such as the other service's parts, pass through
// untouched.
func Normalize(s State, lines []domain.QuoteLineItem) State {
	out := s.clone()
	for _, line := range lines {
		if line.SelectedCode == "" {
			delete(out.Selections, line.Key)
			continue
		}
		if out.Selections == nil {
			out.Selections = make(map[domain.PartKey]string, len(lines))
		}
		out.Selections[line.Key] = line.SelectedCode
	}
	if len(out.Selections) == 0 {
		out.Selections = nil
	}
	return out
}
