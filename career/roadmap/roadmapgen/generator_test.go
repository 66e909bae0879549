package roadmapgen

import (
	"testing"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultInput(role kernel.RoleID, skills ...string) Input {
	return Input{
		GapSkills:      kernel.SkillNames(skills...),
		TargetRole:     role,
		MatchScore:     40,
		Customizations: roadmap.DefaultCustomizations(),
	}
}

func phaseNames(phases []roadmap.Phase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name
	}
	return names
}

func TestGenerate_FrontendScenario(t *testing.T) {
	res := Generate(defaultInput("frontend-developer", "HTML", "React", "Docker"))

	require.Len(t, res.Phases, 4)
	assert.Equal(t, []string{"Foundation", "Core Skills", "Advanced Topics", "Practical Application"}, phaseNames(res.Phases))
	assert.Equal(t, []kernel.SkillName{"HTML"}, res.Phases[0].Milestones[0].Skills)
	assert.Equal(t, []kernel.SkillName{"React"}, res.Phases[1].Milestones[0].Skills)
	assert.Equal(t, []kernel.SkillName{"Docker"}, res.Phases[2].Milestones[0].Skills)

	assert.Equal(t, "1 weeks", res.Phases[0].EstimatedDuration)
	assert.Equal(t, "3 weeks", res.Phases[1].EstimatedDuration)
	assert.Equal(t, "2 weeks", res.Phases[2].EstimatedDuration)
	assert.Equal(t, "3 weeks", res.Phases[3].EstimatedDuration)
	assert.Equal(t, 9, res.TotalWeeks)
	assert.Equal(t, "2 months", res.TotalEstimatedTime)

	assert.Equal(t, 3, res.SkillCount)
	assert.Equal(t, 4, res.PhaseCount)
	assert.Equal(t, roadmap.DefaultWeeklyHours, res.WeeklyHours)

	for i, p := range res.Phases {
		assert.Equal(t, i+1, p.Order)
	}
}

func TestGenerate_MilestoneShape(t *testing.T) {
	res := Generate(defaultInput("frontend-developer", "HTML", "React", "Docker"))

	react := res.Phases[1].Milestones[0]
	assert.Equal(t, "Learn React", react.Title)
	assert.Equal(t, "Master the fundamentals and best practices of React", react.Description)
	assert.Equal(t, "3 weeks", react.EstimatedTime)
	assert.Equal(t, 1, react.Order)
	assert.False(t, react.IsCompleted)
	assert.True(t, react.RequiresProject)
	require.NotNil(t, react.ProjectIdea)
	assert.Equal(t, "Build a personal portfolio website with interactive components", *react.ProjectIdea)

	// two catalog resources then two videos
	require.Len(t, react.Resources, 4)
	assert.Equal(t, "React Official Tutorial", react.Resources[0].Title)
	assert.Equal(t, "beginner", react.Resources[0].Difficulty)
	assert.Equal(t, 4.5, react.Resources[0].Rating)
	assert.Equal(t, "Epic React", react.Resources[1].Title)
	assert.Equal(t, roadmap.KindVideo, react.Resources[2].Kind())
	assert.Equal(t, "https://www.youtube.com/watch?v=bMknfKXIFA8", react.Resources[2].URL)
	assert.Equal(t, "https://img.youtube.com/vi/bMknfKXIFA8/mqdefault.jpg", react.Resources[2].Video.Thumbnail)
	assert.Equal(t, "SqcY0GlETPk", react.Resources[3].Video.VideoID)

	for _, r := range react.Resources {
		assert.NoError(t, r.Validate())
	}

	// HTML has only curated videos
	html := res.Phases[0].Milestones[0]
	require.Len(t, html.Resources, 2)
	assert.Equal(t, roadmap.ResourceVideoTutorial, html.Resources[0].Type)
}

func TestGenerate_OnlyLastMilestoneOfPhaseRequiresProject(t *testing.T) {
	res := Generate(defaultInput("backend-developer", "JavaScript", "SQL", "Python"))

	require.Len(t, res.Phases, 2)
	core := res.Phases[0]
	require.Len(t, core.Milestones, 3)
	assert.False(t, core.Milestones[0].RequiresProject)
	assert.Nil(t, core.Milestones[0].ProjectIdea)
	assert.False(t, core.Milestones[1].RequiresProject)
	assert.True(t, core.Milestones[2].RequiresProject)
	assert.Equal(t, "9 weeks", core.EstimatedDuration)
}

func TestGenerate_PracticalPhase(t *testing.T) {
	res := Generate(defaultInput("frontend-developer", "HTML", "CSS", "JavaScript", "React", "TypeScript", "Git"))

	practical := res.Phases[len(res.Phases)-1]
	assert.Equal(t, "Practical Application", practical.Name)
	require.Len(t, practical.Milestones, 3)

	assert.Equal(t, "Set Up Development Environment", practical.Milestones[0].Title)
	assert.Equal(t, "3 days", practical.Milestones[0].EstimatedTime)

	capstone := practical.Milestones[1]
	assert.Equal(t, "Build Interactive Web Application", capstone.Title)
	assert.True(t, capstone.RequiresProject)
	require.NotNil(t, capstone.ProjectIdea)
	assert.Equal(t, "Create a weather dashboard with real-time data, charts, and responsive design", *capstone.ProjectIdea)
	assert.Equal(t, kernel.SkillNames("HTML", "CSS", "JavaScript", "React", "TypeScript"), capstone.Skills)
	assert.Empty(t, capstone.Resources)

	assert.Equal(t, "Portfolio & Documentation", practical.Milestones[2].Title)
	assert.Equal(t, 3, practical.Milestones[2].Order)
}

func TestGenerate_UnknownRoleFallsBackToFullStackProject(t *testing.T) {
	res := Generate(defaultInput("astronaut", "SQL"))

	capstone := res.Phases[len(res.Phases)-1].Milestones[1]
	assert.Equal(t, "Build Full-Stack Application", capstone.Title)
	assert.Equal(t, "Create a job board application with search, filters, and user accounts", *capstone.ProjectIdea)
}

func TestGenerate_EmptyGapSkills(t *testing.T) {
	res := Generate(defaultInput("devops-engineer"))

	require.Len(t, res.Phases, 1)
	assert.Equal(t, "Practical Application", res.Phases[0].Name)
	assert.Equal(t, 1, res.Phases[0].Order)
	assert.Empty(t, res.Phases[0].Milestones[1].Skills)
	assert.Equal(t, "3 weeks", res.TotalEstimatedTime)
	assert.Equal(t, 0, res.SkillCount)
}

func TestGenerate_UnknownSkillHasEmptyResources(t *testing.T) {
	res := Generate(defaultInput("backend-developer", "COBOL"))

	require.Len(t, res.Phases, 2)
	assert.Equal(t, "Core Skills", res.Phases[0].Name)
	m := res.Phases[0].Milestones[0]
	assert.NotNil(t, m.Resources)
	assert.Empty(t, m.Resources)
	assert.Equal(t, "2 weeks", m.EstimatedTime)
}

func TestGenerate_EverySkillAppearsExactlyOnce(t *testing.T) {
	skills := []string{
		"Kubernetes", "HTML", "COBOL", "React", "Git", "Machine Learning", "Rust",
		"CSS", "SQL", "AWS", "Node.js", "CI/CD", "TypeScript", "React",
	}
	res := Generate(defaultInput("fullstack-developer", skills...))

	counts := map[kernel.SkillName]int{}
	for _, p := range res.Phases[:len(res.Phases)-1] {
		for _, m := range p.Milestones {
			for _, s := range m.Skills {
				counts[s]++
			}
		}
	}

	for _, s := range skills {
		assert.Equal(t, 1, counts[kernel.SkillName(s)], s)
	}
	assert.Len(t, counts, 13)
	assert.Equal(t, 13, res.SkillCount)
}

func TestGenerate_PreservesInputOrderWithinBucket(t *testing.T) {
	res := Generate(defaultInput("data-scientist", "TensorFlow", "Python", "AWS", "SQL"))

	require.Len(t, res.Phases, 3)
	assert.Equal(t, "Learn Python", res.Phases[0].Milestones[0].Title)
	assert.Equal(t, "Learn SQL", res.Phases[0].Milestones[1].Title)
	assert.Equal(t, "Learn TensorFlow", res.Phases[1].Milestones[0].Title)
	assert.Equal(t, "Learn AWS", res.Phases[1].Milestones[1].Title)
}

func TestGenerate_Idempotent(t *testing.T) {
	in := defaultInput("devops-engineer", "Docker", "Git", "Kubernetes", "Python")

	assert.Equal(t, Generate(in), Generate(in))
}

func TestGenerate_PreferredResourceTypes(t *testing.T) {
	t.Run("filters catalog resources", func(t *testing.T) {
		in := defaultInput("backend-developer", "Git")
		in.Customizations.PreferredResourceTypes = []roadmap.ResourceType{roadmap.ResourceBook}

		res := Generate(in)
		git := res.Phases[0].Milestones[0]
		require.Len(t, git.Resources, 3)
		assert.Equal(t, "Pro Git Book", git.Resources[0].Title)
		assert.Equal(t, roadmap.ResourceVideoTutorial, git.Resources[1].Type)
	})

	t.Run("nil list uses the default types", func(t *testing.T) {
		res := Generate(Input{GapSkills: kernel.SkillNames("Python", "Git")})

		for _, p := range res.Phases[:len(res.Phases)-1] {
			for _, m := range p.Milestones {
				for _, r := range m.Resources {
					if r.Kind() == roadmap.KindVideo {
						continue
					}
					assert.Contains(t, roadmap.DefaultPreferredResourceTypes, r.Type, r.Title)
				}
			}
		}

		git := res.Phases[0].Milestones[0]
		assert.Equal(t, []kernel.SkillName{"Git"}, git.Skills)
		require.Len(t, git.Resources, 2)
		assert.Equal(t, roadmap.ResourceVideoTutorial, git.Resources[0].Type)

		python := res.Phases[1].Milestones[0]
		require.Len(t, python.Resources, 3)
		assert.Equal(t, "Python for Everybody", python.Resources[0].Title)
	})

	t.Run("empty list disables filtering", func(t *testing.T) {
		in := defaultInput("backend-developer", "REST APIs")
		in.Customizations.PreferredResourceTypes = []roadmap.ResourceType{}

		res := Generate(in)
		rest := res.Phases[0].Milestones[0]
		require.Len(t, rest.Resources, 4)
		assert.Equal(t, roadmap.ResourceArticle, rest.Resources[0].Type)
		assert.Equal(t, "Building REST APIs", rest.Resources[1].Title)
		assert.Equal(t, "#", rest.Resources[1].URL)
	})
}

func TestGenerate_ProjectIdeaRules(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		want   string
	}{
		{"javascript wins first", []string{"Docker", "JavaScript"}, "Build a personal portfolio website with interactive components"},
		{"python with machine learning", []string{"Python", "Machine Learning"}, "Create a sentiment analysis tool for social media posts"},
		{"node with mongodb", []string{"Node.js", "MongoDB"}, "Build a RESTful API for a blog or e-commerce platform"},
		{"containers", []string{"Kubernetes"}, "Containerize and deploy a multi-service application"},
		{"fallback", []string{"SQL"}, "Build a full-stack application incorporating your new skills"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Generate(defaultInput("backend-developer", tt.skills...))
			for _, p := range res.Phases[:len(res.Phases)-1] {
				last := p.Milestones[len(p.Milestones)-1]
				require.NotNil(t, last.ProjectIdea)
				assert.Equal(t, tt.want, *last.ProjectIdea)
			}
		})
	}
}

func TestGenerate_DuplicateSkillsCollapsed(t *testing.T) {
	res := Generate(defaultInput("frontend-developer", "React", "react", " React ", ""))

	assert.Equal(t, 1, res.SkillCount)
	require.Len(t, res.Phases, 2)
	assert.Len(t, res.Phases[0].Milestones, 1)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		weeks int
		want  string
	}{
		{0, "0 weeks"},
		{3, "3 weeks"},
		{4, "1 month"},
		{7, "1 month"},
		{8, "2 months"},
		{9, "2 months"},
		{10, "3 months"},
		{20, "5 months"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.weeks), "weeks=%d", tt.weeks)
	}
}

func TestRecommendedResources(t *testing.T) {
	t.Run("limits per skill and skips unknown skills", func(t *testing.T) {
		got := RecommendedResources(kernel.SkillNames("React", "COBOL"), 1, nil)

		require.Len(t, got, 1)
		assert.Equal(t, kernel.SkillName("React"), got[0].Skill)
		assert.Equal(t, "React Official Tutorial", got[0].Resource.Title)
	})

	t.Run("filters by type", func(t *testing.T) {
		got := RecommendedResources(kernel.SkillNames("React"), 2, []roadmap.ResourceType{roadmap.ResourceCourse})

		require.Len(t, got, 2)
		assert.Equal(t, "Epic React", got[0].Resource.Title)
		assert.Equal(t, "React - The Complete Guide", got[1].Resource.Title)
	})

	t.Run("defaults to two per skill", func(t *testing.T) {
		got := RecommendedResources(kernel.SkillNames("JavaScript"), 0, nil)
		assert.Len(t, got, 2)
	})
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	resources := catalogFor("Python")
	require.NotEmpty(t, resources)
	want := resources[0].title
	resources[0].title = "changed"
	assert.Equal(t, want, catalogFor("Python")[0].title)

	videos := videosFor("Git")
	require.NotEmpty(t, videos)
	wantVideo := videos[0].title
	videos[0].title = "changed"
	assert.Equal(t, wantVideo, videosFor("Git")[0].title)

	assert.Empty(t, catalogFor("Cobol"))
}
