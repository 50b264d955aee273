package db

// Scope bounds admin list queries to one tenant. Super admins query with the
// unrestricted scope; everyone else sees only their own company tag.
type Scope struct {
	All bool
	Tag string
}

func ScopeAll() Scope { return Scope{All: true} }

func ScopeTenant(tag string) Scope { return Scope{Tag: tag} }
