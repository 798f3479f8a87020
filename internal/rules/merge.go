package rules

import "github.com/secretscout/secretscout/internal/types"

// mergeByID merges overrides into base by rule id: a reappearing id is
// fully replaced by the override; order is base order followed by the
// append order of newly introduced ids.
func mergeByID(base, overrides []types.Rule) []types.Rule {
	byID := make(map[string]types.Rule, len(base)+len(overrides))
	order := make([]string, 0, len(base)+len(overrides))
	for _, r := range base {
		byID[r.ID] = r
		order = append(order, r.ID)
	}
	for _, r := range overrides {
		if _, exists := byID[r.ID]; !exists {
			order = append(order, r.ID)
		}
		byID[r.ID] = r
	}
	out := make([]types.Rule, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
