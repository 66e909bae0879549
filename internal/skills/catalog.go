package skills

import (
	"sort"
	"strings"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// Role is a target job role and the skills it requires
type Role struct {
	ID     kernel.RoleID  `json:"id"`
	Label  string         `json:"label"`
	Skills []kernel.Skill `json:"skills"`
}

// RoleSummary is the listing form of a role
type RoleSummary struct {
	ID         kernel.RoleID `json:"id"`
	Label      string        `json:"label"`
	SkillCount int           `json:"skill_count"`
}

func required(name string, level kernel.SkillLevel) kernel.Skill {
	n := kernel.SkillName(name)
	return kernel.Skill{Name: n, Level: level, Category: CategoryOf(n)}
}

var roles = map[kernel.RoleID]Role{
	"frontend-developer": {
		ID:    "frontend-developer",
		Label: "Frontend Developer",
		Skills: []kernel.Skill{
			required("JavaScript", kernel.SkillLevelAdvanced),
			required("React", kernel.SkillLevelAdvanced),
			required("TypeScript", kernel.SkillLevelIntermediate),
			required("CSS", kernel.SkillLevelAdvanced),
			required("HTML", kernel.SkillLevelAdvanced),
			required("Git", kernel.SkillLevelIntermediate),
			required("Webpack", kernel.SkillLevelIntermediate),
			required("REST APIs", kernel.SkillLevelIntermediate),
		},
	},
	"backend-developer": {
		ID:    "backend-developer",
		Label: "Backend Developer",
		Skills: []kernel.Skill{
			required("Node.js", kernel.SkillLevelAdvanced),
			required("Python", kernel.SkillLevelIntermediate),
			required("SQL", kernel.SkillLevelAdvanced),
			required("MongoDB", kernel.SkillLevelIntermediate),
			required("REST APIs", kernel.SkillLevelAdvanced),
			required("Docker", kernel.SkillLevelIntermediate),
			required("Git", kernel.SkillLevelIntermediate),
		},
	},
	"fullstack-developer": {
		ID:    "fullstack-developer",
		Label: "Full Stack Developer",
		Skills: []kernel.Skill{
			required("JavaScript", kernel.SkillLevelAdvanced),
			required("React", kernel.SkillLevelAdvanced),
			required("Node.js", kernel.SkillLevelAdvanced),
			required("SQL", kernel.SkillLevelIntermediate),
			required("MongoDB", kernel.SkillLevelIntermediate),
			required("Docker", kernel.SkillLevelIntermediate),
			required("Git", kernel.SkillLevelAdvanced),
		},
	},
	"data-scientist": {
		ID:    "data-scientist",
		Label: "Data Scientist",
		Skills: []kernel.Skill{
			required("Python", kernel.SkillLevelAdvanced),
			required("Machine Learning", kernel.SkillLevelAdvanced),
			required("SQL", kernel.SkillLevelIntermediate),
			required("Statistics", kernel.SkillLevelAdvanced),
			required("TensorFlow", kernel.SkillLevelIntermediate),
			required("Pandas", kernel.SkillLevelAdvanced),
			required("Data Visualization", kernel.SkillLevelIntermediate),
		},
	},
	"devops-engineer": {
		ID:    "devops-engineer",
		Label: "DevOps Engineer",
		Skills: []kernel.Skill{
			required("Docker", kernel.SkillLevelAdvanced),
			required("Kubernetes", kernel.SkillLevelAdvanced),
			required("AWS", kernel.SkillLevelAdvanced),
			required("CI/CD", kernel.SkillLevelAdvanced),
			required("Linux", kernel.SkillLevelAdvanced),
			required("Python", kernel.SkillLevelIntermediate),
			required("Terraform", kernel.SkillLevelIntermediate),
		},
	},
}

// aliases maps lowercase spellings found in resumes to canonical names
var aliases = map[string]kernel.SkillName{
	"javascript":          "JavaScript",
	"js":                  "JavaScript",
	"typescript":          "TypeScript",
	"ts":                  "TypeScript",
	"python":              "Python",
	"java":                "Java",
	"react":               "React",
	"react.js":            "React",
	"reactjs":             "React",
	"node":                "Node.js",
	"node.js":             "Node.js",
	"nodejs":              "Node.js",
	"angular":             "Angular",
	"vue":                 "Vue.js",
	"vue.js":              "Vue.js",
	"vuejs":               "Vue.js",
	"html":                "HTML",
	"html5":               "HTML",
	"css":                 "CSS",
	"css3":                "CSS",
	"scss":                "CSS/SCSS",
	"sass":                "CSS/SCSS",
	"sql":                 "SQL",
	"mysql":               "MySQL",
	"postgresql":          "PostgreSQL",
	"postgres":            "PostgreSQL",
	"mongodb":             "MongoDB",
	"nosql":               "NoSQL",
	"docker":              "Docker",
	"kubernetes":          "Kubernetes",
	"k8s":                 "Kubernetes",
	"aws":                 "AWS",
	"amazon web services": "AWS",
	"azure":               "Azure",
	"gcp":                 "Google Cloud",
	"google cloud":        "Google Cloud",
	"git":                 "Git",
	"github":              "Git",
	"gitlab":              "Git",
	"ci/cd":               "CI/CD",
	"jenkins":             "CI/CD",
	"circleci":            "CI/CD",
	"rest api":            "REST APIs",
	"rest apis":           "REST APIs",
	"restful":             "REST APIs",
	"graphql":             "GraphQL",
	"machine learning":    "Machine Learning",
	"ml":                  "Machine Learning",
	"tensorflow":          "TensorFlow",
	"pytorch":             "PyTorch",
	"pandas":              "Pandas",
	"numpy":               "NumPy",
	"agile":               "Agile",
	"scrum":               "Scrum",
}

var categories = map[kernel.SkillName]kernel.SkillCategory{
	"JavaScript":         kernel.CategoryProgramming,
	"TypeScript":         kernel.CategoryProgramming,
	"Python":             kernel.CategoryProgramming,
	"Java":               kernel.CategoryProgramming,
	"React":              kernel.CategoryFrontend,
	"Angular":            kernel.CategoryFrontend,
	"Vue.js":             kernel.CategoryFrontend,
	"HTML":               kernel.CategoryFrontend,
	"CSS":                kernel.CategoryFrontend,
	"CSS/SCSS":           kernel.CategoryFrontend,
	"Webpack":            kernel.CategoryFrontend,
	"Node.js":            kernel.CategoryBackend,
	"REST APIs":          kernel.CategoryBackend,
	"GraphQL":            kernel.CategoryBackend,
	"SQL":                kernel.CategoryDatabase,
	"MySQL":              kernel.CategoryDatabase,
	"PostgreSQL":         kernel.CategoryDatabase,
	"MongoDB":            kernel.CategoryDatabase,
	"NoSQL":              kernel.CategoryDatabase,
	"Docker":             kernel.CategoryCloudDevOps,
	"Kubernetes":         kernel.CategoryCloudDevOps,
	"AWS":                kernel.CategoryCloudDevOps,
	"Azure":              kernel.CategoryCloudDevOps,
	"Google Cloud":       kernel.CategoryCloudDevOps,
	"CI/CD":              kernel.CategoryCloudDevOps,
	"Linux":              kernel.CategoryCloudDevOps,
	"Terraform":          kernel.CategoryCloudDevOps,
	"Machine Learning":   kernel.CategoryDataML,
	"TensorFlow":         kernel.CategoryDataML,
	"PyTorch":            kernel.CategoryDataML,
	"Pandas":             kernel.CategoryDataML,
	"NumPy":              kernel.CategoryDataML,
	"Statistics":         kernel.CategoryDataML,
	"Data Visualization": kernel.CategoryDataML,
	"Git":                kernel.CategoryTools,
	"Agile":              kernel.CategorySoftSkills,
	"Scrum":              kernel.CategorySoftSkills,
}

// ============================================================================
// Lookups
// ============================================================================

// LookupRole returns the catalog entry for id
func LookupRole(id kernel.RoleID) (Role, bool) {
	r, ok := roles[id]
	if !ok {
		return Role{}, false
	}
	r.Skills = append([]kernel.Skill(nil), r.Skills...)
	return r, true
}

// ListRoles returns every role sorted by id
func ListRoles() []RoleSummary {
	out := make([]RoleSummary, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleSummary{ID: r.ID, Label: r.Label, SkillCount: len(r.Skills)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Normalize maps a raw skill spelling to its canonical name. Unknown names
// are returned trimmed and unchanged.
func Normalize(raw string) kernel.SkillName {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := aliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return kernel.SkillName(trimmed)
}

// CategoryOf returns the category of a canonical skill name
func CategoryOf(name kernel.SkillName) kernel.SkillCategory {
	if c, ok := categories[name]; ok {
		return c
	}
	return kernel.CategoryOther
}
