package baas

// Operation is a document operation subject to collection permissions.
type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

// CollectionRules lists what guests may do on a collection. Authenticated
// sessions may do everything.
type CollectionRules struct {
	PublicRead   bool
	PublicCreate bool
}

// Permissions maps collection ids to their rules. Drivers that host data
// themselves enforce these; Appwrite enforces its own.
type Permissions map[string]CollectionRules

// Allow reports whether the operation is permitted.
func (p Permissions) Allow(collection string, op Operation, authenticated bool) bool {
	if authenticated {
		return true
	}
	rules := p[collection]
	switch op {
	case OpRead:
		return rules.PublicRead
	case OpCreate:
		return rules.PublicCreate
	default:
		return false
	}
}

// SitePermissions returns the rules of the portfolio collections: profiles and
// projects are public, anyone may leave a message.
func SitePermissions(projects, profiles, messages string) Permissions {
	return Permissions{
		projects: {PublicRead: true},
		profiles: {PublicRead: true},
		messages: {PublicCreate: true},
	}
}
