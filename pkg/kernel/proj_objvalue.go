package kernel

import "strings"

// SkillName is a canonical skill label such as "React" or "CI/CD"
type SkillName string

func (s SkillName) String() string { return string(s) }

// Key is the case-insensitive form used for set comparisons
func (s SkillName) Key() string { return strings.ToLower(strings.TrimSpace(string(s))) }

// RoleID identifies a target job role in the catalog, e.g. "frontend-developer"
type RoleID string

func NewRoleID(id string) RoleID { return RoleID(id) }
func (r RoleID) String() string  { return string(r) }
func (r RoleID) IsEmpty() bool   { return string(r) == "" }

// SkillNames converts plain strings to SkillName values
func SkillNames(names ...string) []SkillName {
	out := make([]SkillName, len(names))
	for i, n := range names {
		out[i] = SkillName(n)
	}
	return out
}

// SkillLevel is a proficiency estimate
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
	SkillLevelExpert       SkillLevel = "expert"
)

func (l SkillLevel) IsValid() bool {
	switch l {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced, SkillLevelExpert:
		return true
	}
	return false
}

// SkillCategory groups skills by area
type SkillCategory string

const (
	CategoryProgramming SkillCategory = "programming"
	CategoryFrontend    SkillCategory = "frontend"
	CategoryBackend     SkillCategory = "backend"
	CategoryDatabase    SkillCategory = "database"
	CategoryCloudDevOps SkillCategory = "cloud_devops"
	CategoryDataML      SkillCategory = "data_ml"
	CategoryTools       SkillCategory = "tools"
	CategorySoftSkills  SkillCategory = "soft_skills"
	CategoryOther       SkillCategory = "other"
)

// Skill is a named skill with an estimated level
type Skill struct {
	Name       SkillName     `json:"name"`
	Level      SkillLevel    `json:"level"`
	Category   SkillCategory `json:"category"`
	Confidence float64       `json:"confidence,omitempty"`
}

// SkillNamesOf extracts the names of skills, keeping order
func SkillNamesOf(skills []Skill) []SkillName {
	out := make([]SkillName, len(skills))
	for i, s := range skills {
		out[i] = s.Name
	}
	return out
}
