package variation

import (
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/enum"
)

// Session states derived from current selections, see State.
const (
	StateEmpty   = "EMPTY"
	StatePartial = "PARTIAL"
	StateValid   = "VALID"
	StateInvalid = "INVALID"
)

// Session holds one item's customization state and applies selection events
// to it. A session is exclusively owned by the surface presenting the item:
// no locking, no sharing across items. Selection events are applied in call
// order; every mutation is immediately visible to Total, Validate, and
// Flatten on their next call.
type Session struct {
	cfg Config
	sel Selections
}

// NewSession creates a session with empty selections for the given config.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, sel: NewSelections()}
}

// Config returns the config the session was created (or last Reset) with.
func (s *Session) Config() Config {
	return s.cfg
}

// Selections returns the current selection state. The caller must not
// mutate it; sessions own their state exclusively.
func (s *Session) Selections() Selections {
	return s.sel
}

// SelectSimple applies a selection event to the simple variation list.
// Single mode: re-selecting the sole selection clears it, anything else
// replaces the list. Multiple mode: toggles the option by id.
func (s *Session) SelectSimple(opt Option) {
	if selectionTypeOrDefault(s.cfg.SimpleSelection) == enum.SelectionTypeSingle {
		if len(s.sel.Simple) == 1 && s.sel.Simple[0].OptionID == opt.ID {
			s.sel.Simple = []Selected{}
			return
		}
		s.sel.Simple = []Selected{snapshot(opt)}
		return
	}
	s.sel.Simple = toggle(s.sel.Simple, opt)
}

// SelectCategory applies a selection event to the named category. An unknown
// category id is silently ignored: the config may have changed under a stale
// UI reference, and a dead click beats a crash mid-order.
//
// For multiple-type categories no MaxSelections cap is enforced here;
// over-selection stays visible in state and is reported by Validate instead,
// so the user can correct it rather than having input silently dropped.
func (s *Session) SelectCategory(categoryID string, opt Option) {
	cat := s.cfg.category(categoryID)
	if cat == nil {
		return
	}

	current := s.sel.Categories[categoryID]
	if selectionTypeOrDefault(cat.Type) == enum.SelectionTypeSingle {
		if len(current) == 1 && current[0].OptionID == opt.ID {
			s.sel.Categories[categoryID] = []Selected{}
			return
		}
		s.sel.Categories[categoryID] = []Selected{snapshot(opt)}
		return
	}
	s.sel.Categories[categoryID] = toggle(current, opt)
}

// Clear resets all selections while keeping the current config.
func (s *Session) Clear() {
	s.sel = NewSelections()
}

// Reset swaps in a new config and discards all selections. This is the
// explicit entry point the owning lifecycle calls when a different item is
// opened; selections never survive a config change.
func (s *Session) Reset(cfg Config) {
	s.cfg = cfg
	s.sel = NewSelections()
}

// Total computes the displayed price: basePrice plus every selected option's
// snapshotted price. basePrice is expected to already carry any upstream
// discount. The value is derived fresh on every call, never cached.
func (s *Session) Total(basePrice decimal.Decimal) decimal.Decimal {
	return Total(basePrice, s.sel)
}

// Validate checks the current selections against the session config.
func (s *Session) Validate() Result {
	return Validate(s.cfg, s.sel)
}

// Flatten exports the current selections as display names.
func (s *Session) Flatten() []string {
	return Flatten(s.cfg, s.sel)
}

// State reports where the session sits in its lifecycle: EMPTY with no
// selections, PARTIAL while only required-group errors remain, VALID when
// all constraints pass, INVALID otherwise.
func (s *Session) State() string {
	if len(s.sel.Simple) == 0 && countCategorySelections(s.sel) == 0 {
		return StateEmpty
	}
	res := s.Validate()
	if res.Valid {
		return StateValid
	}
	if res.onlyRequiredErrors {
		return StatePartial
	}
	return StateInvalid
}

// Total sums basePrice with all selected option prices in sel.
func Total(basePrice decimal.Decimal, sel Selections) decimal.Decimal {
	total := basePrice
	for _, sv := range sel.Simple {
		total = total.Add(sv.Price)
	}
	for _, list := range sel.Categories {
		for _, sv := range list {
			total = total.Add(sv.Price)
		}
	}
	return total
}

// toggle removes opt from list when present (matched by id), appends a
// snapshot otherwise.
func toggle(list []Selected, opt Option) []Selected {
	for i, sv := range list {
		if sv.OptionID == opt.ID {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, snapshot(opt))
}

func countCategorySelections(sel Selections) int {
	n := 0
	for _, list := range sel.Categories {
		n += len(list)
	}
	return n
}
