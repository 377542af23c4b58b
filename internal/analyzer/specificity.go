package analyzer

import (
	"github.com/lyralang/lyra/internal/symbols"
	"github.com/lyralang/lyra/internal/typesystem"
)

// chooseMostSpecific narrows a set of successful candidates to the maximally
// specific ones: overridden declarations lose to their overrides, then a
// candidate survives only if no other candidate is strictly more specific,
// and non-generic candidates beat generic ones that tie with them.
func (e *Engine) chooseMostSpecific(cands []*ResolvedCall) []*ResolvedCall {
	cands = filterOverrides(cands)
	if len(cands) <= 1 {
		return cands
	}

	var maximal []*ResolvedCall
	for _, c := range cands {
		dominated := false
		for _, o := range cands {
			if o != c && e.strictlyMoreSpecific(o.Candidate, c.Candidate) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, c)
		}
	}

	if len(maximal) > 1 {
		var nonGeneric []*ResolvedCall
		for _, c := range maximal {
			if !c.Candidate.IsGeneric() {
				nonGeneric = append(nonGeneric, c)
			}
		}
		if len(nonGeneric) > 0 {
			return nonGeneric
		}
	}
	return maximal
}

// filterOverrides drops duplicates and candidates overridden by another
// candidate in the set. The same declaration can arrive twice when a member
// is visible both directly and through a supertype.
func filterOverrides(cands []*ResolvedCall) []*ResolvedCall {
	var out []*ResolvedCall
	for _, c := range cands {
		keep := true
		for _, o := range cands {
			if o == c {
				continue
			}
			if o.Candidate == c.Candidate && indexOf(cands, o) < indexOf(cands, c) {
				keep = false
				break
			}
			if o.Candidate.OverridesDeclaration(c.Candidate) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func indexOf(cands []*ResolvedCall, c *ResolvedCall) int {
	for i, o := range cands {
		if o == c {
			return i
		}
	}
	return -1
}

func (e *Engine) strictlyMoreSpecific(a, b *symbols.Callable) bool {
	ab := e.notLessSpecific(a, b)
	ba := e.notLessSpecific(b, a)
	if ab && !ba {
		return true
	}
	// On a signature tie the non-generic declaration wins.
	return ab && ba && !a.IsGeneric() && b.IsGeneric()
}

// notLessSpecific reports whether every parameter of a is a subtype of the
// corresponding parameter of b. Generic parameters are erased to their first
// upper bound before comparing.
func (e *Engine) notLessSpecific(a, b *symbols.Callable) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	ea, eb := erase(a), erase(b)
	if ea.Receiver != nil && eb.Receiver != nil && !e.checker.IsSubtypeOf(ea.Receiver, eb.Receiver) {
		return false
	}
	for i := range ea.Params {
		if !e.checker.IsSubtypeOf(compareType(ea.Params[i]), compareType(eb.Params[i])) {
			return false
		}
	}
	return true
}

// compareType is the type used for specificity comparison: a vararg
// parameter compares by its element type.
func compareType(p *symbols.ValueParam) typesystem.Type {
	if p.VarargElement != nil {
		return p.VarargElement
	}
	return p.Type
}

// erase substitutes each type parameter by its first upper bound, or Any.
func erase(c *symbols.Callable) *symbols.Callable {
	if !c.IsGeneric() {
		return c
	}
	s := make(typesystem.Subst, len(c.TypeParams))
	for _, tp := range c.TypeParams {
		if len(tp.UpperBounds) > 0 {
			s[tp.Name] = tp.UpperBounds[0]
		} else {
			s[tp.Name] = typesystem.AnyType()
		}
	}
	return c.Substitute(s)
}
