package variation

// Flatten converts sel into the flat list of option display names the cart
// line item stores: simple variations first in selection order, then each
// category's selections in the config's category declaration order (not map
// iteration order). No prices are included; those are already folded into
// the item total. Never fails; the result may be empty.
func Flatten(cfg Config, sel Selections) []string {
	names := make([]string, 0, len(sel.Simple)+countCategorySelections(sel))
	for _, sv := range sel.Simple {
		names = append(names, sv.OptionName)
	}
	for _, cat := range cfg.Categories {
		for _, sv := range sel.Categories[cat.ID] {
			names = append(names, sv.OptionName)
		}
	}
	return names
}
