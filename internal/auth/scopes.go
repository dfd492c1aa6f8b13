package auth

// Known OAuth scopes used by the backend.
const (
	ScopePointsRead  = "points:read"
	ScopePointsWrite = "points:write"
	ScopeTeamsWrite  = "teams:write"
)
