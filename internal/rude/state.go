package rude

// State is the classification outcome of one active statement.
type State uint8

const (
	Unexamined State = iota
	Preserved
	TextOnlyUpdated
	StructurallyUpdated
	Deleted
	ReparentedIntoProtection
	ReparentedOutOfProtection
	DeclarationKindChanged
	ClosureMembershipChanged
	Unresolved
)

var stateNames = [...]string{
	Unexamined:                "unexamined",
	Preserved:                 "preserved",
	TextOnlyUpdated:           "text-only update",
	StructurallyUpdated:       "updated",
	Deleted:                   "deleted",
	ReparentedIntoProtection:  "moved into protection",
	ReparentedOutOfProtection: "moved out of protection",
	DeclarationKindChanged:    "declaration kind changed",
	ClosureMembershipChanged:  "closure changed",
	Unresolved:                "unresolved",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(?)"
}
