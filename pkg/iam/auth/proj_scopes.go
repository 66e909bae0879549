package auth

import "strings"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - Career paths
// ============================================================================

const (
	ScopeAll = "*"

	// Analysis scopes
	ScopeAnalysisAll    = "analysis:*"
	ScopeAnalysisRead   = "analysis:read"
	ScopeAnalysisWrite  = "analysis:write" // Upload resumes
	ScopeAnalysisDelete = "analysis:delete"

	// Roadmap scopes
	ScopeRoadmapsAll    = "roadmaps:*"
	ScopeRoadmapsRead   = "roadmaps:read"
	ScopeRoadmapsWrite  = "roadmaps:write" // Generate roadmaps and track progress
	ScopeRoadmapsDelete = "roadmaps:delete"
	ScopeRoadmapsShare  = "roadmaps:share" // Publish share links

	// Profile scopes
	ScopeProfileRead  = "profile:read"
	ScopeProfileWrite = "profile:write"
)

// Account roles carried in access tokens
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Analysis": {
		ScopeAnalysisAll,
		ScopeAnalysisRead,
		ScopeAnalysisWrite,
		ScopeAnalysisDelete,
	},
	"Roadmaps": {
		ScopeRoadmapsAll,
		ScopeRoadmapsRead,
		ScopeRoadmapsWrite,
		ScopeRoadmapsDelete,
		ScopeRoadmapsShare,
	},
	"Profile": {
		ScopeProfileRead,
		ScopeProfileWrite,
	},
}

// DomainScopeGroups maps an account role to the scopes it grants
var DomainScopeGroups = map[string][]string{
	RoleUser: {
		ScopeAnalysisAll,
		ScopeRoadmapsAll,
		ScopeProfileRead,
		ScopeProfileWrite,
	},
	RoleAdmin: {
		ScopeAll,
	},
}

// ScopesForRole returns the scopes granted to role. Unknown roles get none.
func ScopesForRole(role string) []string {
	return append([]string(nil), DomainScopeGroups[role]...)
}

// HasScope reports whether granted covers required. "*" covers everything and
// "<resource>:*" covers every action on that resource.
func HasScope(granted []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	for _, g := range granted {
		switch {
		case g == ScopeAll, g == required:
			return true
		case strings.HasSuffix(g, ":*") && strings.TrimSuffix(g, ":*") == resource:
			return true
		}
	}
	return false
}
