package fold

import "github.com/tidwall/btree"

// Reason records why an element is hidden. An element stays hidden while at
// least one reason is set, so expanding a collapse never reveals elements
// hidden for unrelated causes.
type Reason uint8

const (
	// ReasonCollapse is set by the engine for elements inside or crossing a
	// collapsed subtree.
	ReasonCollapse Reason = 1 << iota
	// ReasonUser is set by explicit hide requests from the host.
	ReasonUser
)

// Visibility is the authoritative hidden set for one graph. It tracks
// element IDs only and has no side effect on the graph store.
//
// The zero value is an empty store ready to use.
type Visibility struct {
	hidden btree.Map[string, Reason]
}

// Hide adds reason r to the element and reports whether the element went
// from visible to hidden. Hiding an already hidden element is a no-op apart
// from recording the extra reason.
func (v *Visibility) Hide(id string, r Reason) bool {
	prev, ok := v.hidden.Get(id)
	v.hidden.Set(id, prev|r)
	return !ok || prev == 0
}

// Show clears reason r and reports whether the element went from hidden to
// visible. Elements still carrying another reason stay hidden.
func (v *Visibility) Show(id string, r Reason) bool {
	prev, ok := v.hidden.Get(id)
	if !ok {
		return false
	}
	next := prev &^ r
	if next == 0 {
		v.hidden.Delete(id)
		return true
	}
	v.hidden.Set(id, next)
	return false
}

// IsHidden reports whether any reason is set for the element.
func (v *Visibility) IsHidden(id string) bool {
	r, ok := v.hidden.Get(id)
	return ok && r != 0
}

// Reasons returns the reasons currently set for the element.
func (v *Visibility) Reasons(id string) Reason {
	r, _ := v.hidden.Get(id)
	return r
}

// Has reports whether reason r is set for the element.
func (v *Visibility) Has(id string, r Reason) bool { return v.Reasons(id)&r != 0 }

// Forget drops every reason for the element. Used when the element itself
// is deleted from the graph.
func (v *Visibility) Forget(id string) { v.hidden.Delete(id) }

// Hidden returns the IDs of all hidden elements, sorted.
func (v *Visibility) Hidden() []string { return v.hidden.Keys() }

// Len returns the number of hidden elements.
func (v *Visibility) Len() int { return v.hidden.Len() }
