package constraints

import (
	"github.com/astra-lang/astracheck/internal/symbols"
	"github.com/astra-lang/astracheck/internal/typesystem"
)

// Combine merges the per-branch constraint lists of sibling scopes (the
// body/orelse of an if, or each handler of a try) into the constraint list
// that holds once control reaches the shared join point after them.
//
// branches[i] is the constraint list accumulated along branch i; exits[i]
// reports whether branch i never reaches the join at all (it always
// returns/raises/breaks — spec.md §4.F "a branch that always exits
// contributes no width to the join, since control can only arrive from a
// surviving branch"). A key surviving in every non-exiting branch with the
// same narrowed type keeps that type; a key with differing types across
// branches widens to the join of those types; a key narrowed in only some
// branches is dropped from the result (it reverts to whatever the scope
// held before the conditional, which the caller already has on hand).
func Combine(branches [][]symbols.ScopeConstraint, exits []bool) []symbols.ScopeConstraint {
	var surviving [][]symbols.ScopeConstraint
	for i, b := range branches {
		if i < len(exits) && exits[i] {
			continue
		}
		surviving = append(surviving, b)
	}

	if len(surviving) == 0 {
		return nil
	}
	if len(surviving) == 1 {
		return surviving[0]
	}

	counts := make(map[string]int)
	byKey := make(map[string][]symbols.ScopeConstraint)
	for _, b := range surviving {
		seen := make(map[string]bool)
		for _, c := range b {
			if seen[c.Key] {
				continue // a later constraint on the same key within one branch already supersedes the earlier one
			}
			seen[c.Key] = true
			counts[c.Key]++
			byKey[c.Key] = append(byKey[c.Key], c)
		}
	}

	var out []symbols.ScopeConstraint
	for key, list := range byKey {
		if counts[key] != len(surviving) {
			continue
		}
		merged := list[0]
		conditional := merged.Conditional
		for _, c := range list[1:] {
			if !typesystem.Equal(merged.Type, c.Type) {
				merged.Type = typesystem.Join(merged.Type, c.Type)
				conditional = true
			}
			conditional = conditional || c.Conditional
		}
		merged.Conditional = conditional
		out = append(out, merged)
	}
	return out
}
