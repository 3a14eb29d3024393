package auth

// Known OAuth scopes used by the coaching backend.
const (
	ScopeAthletesWrite   = "athletes:write"
	ScopeActivitiesWrite = "activities:write"
	ScopeActivitiesRead  = "activities:read"
)
