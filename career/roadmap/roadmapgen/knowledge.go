package roadmapgen

import (
	"slices"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// The tables below are read-only after package initialisation. Per-skill
// resource slices are handed out as copies by catalogFor and videosFor.

type difficulty int

const (
	beginner difficulty = iota
	intermediate
	advanced
)

var skillDifficulty = map[kernel.SkillName]difficulty{
	"HTML":             beginner,
	"CSS":              beginner,
	"Git":              beginner,
	"JavaScript":       intermediate,
	"TypeScript":       intermediate,
	"Python":           intermediate,
	"SQL":              intermediate,
	"React":            intermediate,
	"Node.js":          intermediate,
	"MongoDB":          intermediate,
	"REST APIs":        intermediate,
	"Docker":           advanced,
	"Kubernetes":       advanced,
	"AWS":              advanced,
	"Machine Learning": advanced,
	"TensorFlow":       advanced,
	"CI/CD":            advanced,
}

const defaultSkillTime = "2 weeks"

var skillTime = map[kernel.SkillName]string{
	"HTML":             "1 week",
	"CSS":              "2 weeks",
	"Git":              "1 week",
	"JavaScript":       "4 weeks",
	"TypeScript":       "2 weeks",
	"Python":           "3 weeks",
	"SQL":              "2 weeks",
	"React":            "3 weeks",
	"Node.js":          "3 weeks",
	"MongoDB":          "2 weeks",
	"REST APIs":        "2 weeks",
	"Docker":           "2 weeks",
	"Kubernetes":       "3 weeks",
	"AWS":              "4 weeks",
	"Machine Learning": "6 weeks",
	"TensorFlow":       "4 weeks",
	"CI/CD":            "2 weeks",
}

type phaseTemplate struct {
	name        string
	description string
	color       string
	icon        string
}

var phaseTemplates = map[difficulty]phaseTemplate{
	beginner: {
		name:        "Foundation",
		description: "Build a strong foundation with essential skills and concepts",
		color:       "#10B981",
		icon:        "🎯",
	},
	intermediate: {
		name:        "Core Skills",
		description: "Develop core competencies required for the role",
		color:       "#3B82F6",
		icon:        "📚",
	},
	advanced: {
		name:        "Advanced Topics",
		description: "Master advanced concepts and specialized skills",
		color:       "#8B5CF6",
		icon:        "🚀",
	},
}

var practicalTemplate = phaseTemplate{
	name:        "Practical Application",
	description: "Apply your skills through real-world projects",
	color:       "#F59E0B",
	icon:        "💻",
}

// learningResource is a catalog entry before formatting. Empty URL and
// provider are allowed.
type learningResource struct {
	title    string
	typ      roadmap.ResourceType
	provider string
	url      string
	duration string
	isFree   bool
}

var learningResources = map[kernel.SkillName][]learningResource{
	"JavaScript": {
		{"JavaScript: The Complete Guide", roadmap.ResourceCourse, "Udemy", "https://udemy.com", "52 hours", false},
		{"JavaScript.info", roadmap.ResourceTutorial, "javascript.info", "https://javascript.info", "", true},
		{"freeCodeCamp JavaScript", roadmap.ResourceCourse, "freeCodeCamp", "https://freecodecamp.org", "", true},
	},
	"TypeScript": {
		{"TypeScript Handbook", roadmap.ResourceDocumentation, "Microsoft", "https://typescriptlang.org/docs", "", true},
		{"Understanding TypeScript", roadmap.ResourceCourse, "Udemy", "https://udemy.com", "15 hours", false},
	},
	"React": {
		{"React Official Tutorial", roadmap.ResourceTutorial, "React", "https://react.dev/learn", "", true},
		{"Epic React", roadmap.ResourceCourse, "Kent C. Dodds", "https://epicreact.dev", "", false},
		{"React - The Complete Guide", roadmap.ResourceCourse, "Udemy", "https://udemy.com", "48 hours", false},
	},
	"Node.js": {
		{"Node.js Documentation", roadmap.ResourceDocumentation, "Node.js", "https://nodejs.org/docs", "", true},
		{"The Complete Node.js Developer", roadmap.ResourceCourse, "Udemy", "https://udemy.com", "35 hours", false},
	},
	"Python": {
		{"Python for Everybody", roadmap.ResourceCourse, "Coursera", "https://coursera.org", "", true},
		{"Automate the Boring Stuff", roadmap.ResourceBook, "Al Sweigart", "https://automatetheboringstuff.com", "", true},
	},
	"SQL": {
		{"SQL Tutorial", roadmap.ResourceTutorial, "W3Schools", "https://w3schools.com/sql", "", true},
		{"Complete SQL Bootcamp", roadmap.ResourceCourse, "Udemy", "https://udemy.com", "9 hours", false},
	},
	"MongoDB": {
		{"MongoDB University", roadmap.ResourceCourse, "MongoDB", "https://university.mongodb.com", "", true},
		{"MongoDB Documentation", roadmap.ResourceDocumentation, "MongoDB", "https://docs.mongodb.com", "", true},
	},
	"Docker": {
		{"Docker Getting Started", roadmap.ResourceTutorial, "Docker", "https://docs.docker.com/get-started", "", true},
		{"Docker Mastery", roadmap.ResourceCourse, "Udemy", "https://udemy.com", "19 hours", false},
	},
	"Kubernetes": {
		{"Kubernetes Documentation", roadmap.ResourceDocumentation, "Kubernetes", "https://kubernetes.io/docs", "", true},
		{"CKA Certification Course", roadmap.ResourceCourse, "KodeKloud", "https://kodekloud.com", "", false},
	},
	"AWS": {
		{"AWS Cloud Practitioner", roadmap.ResourceCertification, "AWS", "https://aws.amazon.com/training", "", false},
		{"AWS Free Tier Tutorials", roadmap.ResourceTutorial, "AWS", "https://aws.amazon.com/getting-started", "", true},
	},
	"Git": {
		{"Pro Git Book", roadmap.ResourceBook, "Git", "https://git-scm.com/book", "", true},
		{"Git & GitHub Crash Course", roadmap.ResourceVideo, "Traversy Media", "https://youtube.com", "1 hour", true},
	},
	"Machine Learning": {
		{"Machine Learning by Andrew Ng", roadmap.ResourceCourse, "Coursera", "https://coursera.org", "", true},
		{"Hands-On Machine Learning", roadmap.ResourceBook, "O'Reilly", "", "", false},
	},
	"TensorFlow": {
		{"TensorFlow Tutorials", roadmap.ResourceTutorial, "TensorFlow", "https://tensorflow.org/tutorials", "", true},
		{"DeepLearning.AI TensorFlow", roadmap.ResourceCourse, "Coursera", "https://coursera.org", "", false},
	},
	"REST APIs": {
		{"REST API Design Best Practices", roadmap.ResourceArticle, "freeCodeCamp", "https://freecodecamp.org", "", true},
		{"Building REST APIs", roadmap.ResourceProject, "", "", "", true},
	},
	"CI/CD": {
		{"GitHub Actions Docs", roadmap.ResourceDocumentation, "GitHub", "https://docs.github.com/actions", "", true},
		{"Jenkins Tutorial", roadmap.ResourceTutorial, "Jenkins", "https://jenkins.io/doc", "", true},
	},
}

type videoTutorial struct {
	title    string
	channel  string
	videoID  string
	duration string
	views    string
}

var videoTutorials = map[kernel.SkillName][]videoTutorial{
	"JavaScript": {
		{"JavaScript Full Course for Beginners", "freeCodeCamp", "PkZNo7MFNFg", "3:26:42", "15M+"},
		{"JavaScript Tutorial for Beginners", "Programming with Mosh", "W6NZfCO5SIk", "48:16", "14M+"},
		{"Learn JavaScript - Full Course", "Bro Code", "8dWL3wF_OMw", "8:00:00", "3M+"},
	},
	"TypeScript": {
		{"TypeScript Tutorial for Beginners", "Programming with Mosh", "d56mG7DezGs", "1:04:28", "3M+"},
		{"TypeScript Full Course", "freeCodeCamp", "30LWjhZzg50", "1:34:00", "1M+"},
	},
	"React": {
		{"React JS Full Course 2024", "freeCodeCamp", "bMknfKXIFA8", "11:55:27", "8M+"},
		{"React Tutorial for Beginners", "Programming with Mosh", "SqcY0GlETPk", "1:20:43", "5M+"},
		{"Learn React in 30 Minutes", "Web Dev Simplified", "hQAHSlTtcmY", "30:25", "2M+"},
	},
	"Node.js": {
		{"Node.js Tutorial for Beginners", "Programming with Mosh", "TlB_eWDSMt4", "1:18:16", "7M+"},
		{"Node.js Full Course", "freeCodeCamp", "Oe421EPjeBE", "8:16:48", "4M+"},
	},
	"Python": {
		{"Python Full Course for Beginners", "freeCodeCamp", "rfscVS0vtbw", "4:26:51", "42M+"},
		{"Python Tutorial - Python for Beginners", "Programming with Mosh", "_uQrJ0TkZlc", "6:14:07", "28M+"},
		{"Python for Everybody - Full Course", "freeCodeCamp", "8DvywoWv6fI", "13:40:09", "5M+"},
	},
	"SQL": {
		{"SQL Tutorial - Full Database Course", "freeCodeCamp", "HXV3zeQKqGY", "4:20:37", "13M+"},
		{"MySQL Tutorial for Beginners", "Programming with Mosh", "7S_tz1z_5bA", "3:10:20", "9M+"},
	},
	"MongoDB": {
		{"MongoDB Crash Course", "Traversy Media", "-56x56UppqQ", "36:43", "1M+"},
		{"MongoDB Full Tutorial", "freeCodeCamp", "c2M-rlkkT5o", "1:30:25", "500K+"},
	},
	"Docker": {
		{"Docker Tutorial for Beginners", "TechWorld with Nana", "3c-iBn73dDE", "2:46:14", "5M+"},
		{"Docker Crash Course", "Traversy Media", "Kyx2PsuwomE", "1:00:57", "1M+"},
	},
	"Kubernetes": {
		{"Kubernetes Tutorial for Beginners", "TechWorld with Nana", "X48VuDVv0do", "3:36:52", "6M+"},
		{"Kubernetes Crash Course", "Traversy Media", "s_o8dwzRlu4", "1:06:23", "800K+"},
	},
	"AWS": {
		{"AWS Certified Cloud Practitioner", "freeCodeCamp", "SOTamWNgDKc", "13:15:19", "5M+"},
		{"AWS Tutorial For Beginners", "Simplilearn", "k1RI5locZE4", "3:48:52", "2M+"},
	},
	"Git": {
		{"Git and GitHub for Beginners", "freeCodeCamp", "RGOj5yH7evk", "1:08:29", "4M+"},
		{"Git Tutorial for Beginners", "Programming with Mosh", "8JJ101D3knE", "1:09:15", "3M+"},
	},
	"Machine Learning": {
		{"Machine Learning Course for Beginners", "freeCodeCamp", "NWONeJKn6kc", "9:52:19", "2M+"},
		{"Machine Learning Full Course", "Edureka", "GwIo3gDZCVQ", "11:39:32", "3M+"},
	},
	"TensorFlow": {
		{"TensorFlow 2.0 Complete Course", "freeCodeCamp", "tPYj3fFJGjk", "6:52:08", "4M+"},
	},
	"REST APIs": {
		{"REST API Tutorial - Build a REST API", "freeCodeCamp", "-MTSQjw5DrM", "3:16:56", "1M+"},
		{"Building REST APIs with Node.js", "Traversy Media", "pKd0Rpw7O48", "1:38:07", "2M+"},
	},
	"CI/CD": {
		{"GitHub Actions Tutorial", "TechWorld with Nana", "R8_veQiYBjI", "32:30", "500K+"},
		{"CI/CD Tutorial for Beginners", "TechWorld with Nana", "scEDHsr3APg", "31:21", "300K+"},
	},
	"CSS": {
		{"CSS Full Course for Beginners", "freeCodeCamp", "OXGznpKZ_sA", "11:08:00", "3M+"},
		{"CSS Tutorial - Zero to Hero", "freeCodeCamp", "1Rs2ND1ryYc", "6:18:37", "5M+"},
	},
	"HTML": {
		{"HTML Full Course for Beginners", "freeCodeCamp", "kUMe1FH4CHE", "4:07:19", "6M+"},
		{"HTML Tutorial for Beginners", "Programming with Mosh", "qz0aGYrrlhU", "1:09:33", "8M+"},
	},
}

// projectRule picks a project idea from the lowercase gap-skill set
type projectRule struct {
	matches func(set map[string]bool) bool
	idea    string
}

var projectRules = []projectRule{
	{
		matches: func(s map[string]bool) bool { return s["react"] || s["javascript"] },
		idea:    "Build a personal portfolio website with interactive components",
	},
	{
		matches: func(s map[string]bool) bool { return s["python"] && s["machine learning"] },
		idea:    "Create a sentiment analysis tool for social media posts",
	},
	{
		matches: func(s map[string]bool) bool { return s["node.js"] && s["mongodb"] },
		idea:    "Build a RESTful API for a blog or e-commerce platform",
	},
	{
		matches: func(s map[string]bool) bool { return s["docker"] || s["kubernetes"] },
		idea:    "Containerize and deploy a multi-service application",
	},
}

const fallbackProjectIdea = "Build a full-stack application incorporating your new skills"

type roleProject struct {
	name        string
	description string
	idea        string
}

const fallbackProjectRole kernel.RoleID = "fullstack-developer"

var roleProjects = map[kernel.RoleID]roleProject{
	"frontend-developer": {
		name:        "Interactive Web Application",
		description: "Build a responsive, interactive web application showcasing modern frontend skills",
		idea:        "Create a weather dashboard with real-time data, charts, and responsive design",
	},
	"backend-developer": {
		name:        "RESTful API Service",
		description: "Build a complete API with authentication, database integration, and documentation",
		idea:        "Create an API for a task management system with user authentication",
	},
	"fullstack-developer": {
		name:        "Full-Stack Application",
		description: "Build an end-to-end application with frontend, backend, and database",
		idea:        "Create a job board application with search, filters, and user accounts",
	},
	"data-scientist": {
		name:        "Data Analysis Project",
		description: "Analyze a real dataset and present findings with visualizations",
		idea:        "Analyze and visualize a public dataset to derive actionable insights",
	},
	"devops-engineer": {
		name:        "CI/CD Pipeline",
		description: "Set up a complete CI/CD pipeline with containerization",
		idea:        "Create an automated deployment pipeline for a microservices application",
	},
}

// ============================================================================
// Accessors
// ============================================================================

func difficultyOf(skill kernel.SkillName) difficulty {
	if d, ok := skillDifficulty[skill]; ok {
		return d
	}
	return intermediate
}

func estimateSkillTime(skill kernel.SkillName) string {
	if t, ok := skillTime[skill]; ok {
		return t
	}
	return defaultSkillTime
}

func projectForRole(role kernel.RoleID) roleProject {
	if p, ok := roleProjects[role]; ok {
		return p
	}
	return roleProjects[fallbackProjectRole]
}

func catalogFor(skill kernel.SkillName) []learningResource {
	return slices.Clone(learningResources[skill])
}

func videosFor(skill kernel.SkillName) []videoTutorial {
	return slices.Clone(videoTutorials[skill])
}
