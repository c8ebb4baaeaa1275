package policy

// Role-based authorization for catalog resources. Rules live in a static
// table keyed by action; the same table covers courses and lessons.

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Actor is the identity a request acts as. The zero value is anonymous.
type Actor struct {
	ID            uint
	Authenticated bool
	Moderator     bool
	Staff         bool
}

// Owns reports whether the actor is the recorded owner of a resource.
func (a Actor) Owns(ownerID *uint) bool {
	return a.Authenticated && ownerID != nil && *ownerID == a.ID
}

type rule func(a Actor, ownerID *uint) bool

// catalogRules is the per-action role matrix. Anonymous actors are denied
// everywhere; moderators may view and update everything but never create via
// the owner path or delete; owners hold full rights over their own resources.
var catalogRules = map[Action]rule{
	ActionList: func(a Actor, _ *uint) bool {
		return a.Authenticated
	},
	ActionRetrieve: func(a Actor, ownerID *uint) bool {
		return a.Authenticated && (a.Moderator || a.Owns(ownerID))
	},
	ActionCreate: func(a Actor, _ *uint) bool {
		return a.Authenticated && !a.Moderator
	},
	ActionUpdate: func(a Actor, ownerID *uint) bool {
		return a.Authenticated && (a.Moderator || a.Owns(ownerID))
	},
	ActionDelete: func(a Actor, ownerID *uint) bool {
		return a.Authenticated && !a.Moderator && a.Owns(ownerID)
	},
}

// Can evaluates the role matrix for a catalog action. ownerID is the target
// resource's owner; it is ignored for list and create.
func Can(a Actor, action Action, ownerID *uint) bool {
	r, ok := catalogRules[action]
	if !ok {
		return false
	}
	return r(a, ownerID)
}

// CanViewAll reports whether list and retrieve queries run unscoped for the
// actor. Everyone else sees only their own resources.
func CanViewAll(a Actor) bool {
	return a.Authenticated && a.Moderator
}

// CanAccessUser implements the self-or-staff rule for user profiles.
func CanAccessUser(a Actor, targetUserID uint) bool {
	return a.Authenticated && (a.Staff || a.ID == targetUserID)
}
