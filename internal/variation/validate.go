package variation

import "fmt"

// Result is the outcome of validating a selection state. Errors block
// add-to-cart; warnings are purely informational.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string

	// onlyRequiredErrors marks results whose sole failures are unmet
	// required groups, used by Session.State to report PARTIAL.
	onlyRequiredErrors bool
}

// Validate checks sel against cfg and accumulates every violation so the
// user sees all of them at once. Check order: structural shape, required
// categories, per-category caps, global cap, then the advisory
// multiple-category warning. A structural failure short-circuits: the
// state cannot be reasoned about, so one generic error is returned.
//
// Nothing is ever returned as a Go error; invalid selections are data, and
// the caller decides what to gate on Valid.
func Validate(cfg Config, sel Selections) Result {
	res := Result{
		Errors:   []string{},
		Warnings: []string{},
	}

	if sel.Simple == nil || sel.Categories == nil {
		res.Errors = append(res.Errors, "Invalid variation selection")
		return res
	}

	requiredErrors := 0
	for _, cat := range cfg.Categories {
		if cat.Required && len(sel.Categories[cat.ID]) == 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Please select %s", cat.Name))
			requiredErrors++
		}
	}

	for _, cat := range cfg.Categories {
		if cat.MaxSelections == nil {
			continue
		}
		if len(sel.Categories[cat.ID]) > *cat.MaxSelections {
			res.Errors = append(res.Errors,
				fmt.Sprintf("Maximum %d selections allowed for %s", *cat.MaxSelections, cat.Name))
		}
	}

	if cfg.TotalMaxSelections != nil {
		total := len(sel.Simple) + countCategorySelections(sel)
		if total > *cfg.TotalMaxSelections {
			res.Errors = append(res.Errors,
				fmt.Sprintf("Maximum %d total selections allowed", *cfg.TotalMaxSelections))
		}
	}

	if !cfg.AllowMultipleCategories {
		populated := 0
		for _, list := range sel.Categories {
			if len(list) > 0 {
				populated++
			}
		}
		if populated > 1 {
			res.Warnings = append(res.Warnings, "Only one category selection is recommended")
		}
	}

	res.Valid = len(res.Errors) == 0
	res.onlyRequiredErrors = !res.Valid && requiredErrors == len(res.Errors)
	return res
}
