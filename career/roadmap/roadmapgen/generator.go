package roadmapgen

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

const (
	maxDocResourcesPerSkill   = 2
	maxVideoResourcesPerSkill = 2
	capstoneSkillLimit        = 5
	practicalPhaseWeeks       = 3

	defaultResourceDifficulty = "beginner"
	defaultResourceRating     = 4.5
)

// Input is everything the generator needs from a completed analysis
type Input struct {
	GapSkills      []kernel.SkillName
	TargetRole     kernel.RoleID
	MatchScore     int
	Customizations roadmap.Customizations
}

// Result is the generated curriculum, ready to be stamped onto a Roadmap
type Result struct {
	Phases             []roadmap.Phase
	TotalEstimatedTime string
	TotalWeeks         int
	WeeklyHours        int
	SkillCount         int
	PhaseCount         int
}

// Generate builds the phased curriculum for a set of gap skills. It never
// fails: unknown skills and roles degrade to defaults. A nil
// PreferredResourceTypes means the default types; an empty one disables
// filtering.
func Generate(in Input) Result {
	skills := uniqueSkills(in.GapSkills)
	gapSet := make(map[string]bool, len(skills))
	for _, s := range skills {
		gapSet[s.Key()] = true
	}

	buckets := map[difficulty][]kernel.SkillName{}
	for _, s := range skills {
		d := difficultyOf(s)
		buckets[d] = append(buckets[d], s)
	}

	preferred := in.Customizations.PreferredResourceTypes
	if preferred == nil {
		preferred = roadmap.DefaultPreferredResourceTypes
	}

	var phases []roadmap.Phase
	order := 1
	for _, d := range []difficulty{beginner, intermediate, advanced} {
		if len(buckets[d]) == 0 {
			continue
		}
		phases = append(phases, buildPhase(phaseTemplates[d], buckets[d], order, gapSet, preferred))
		order++
	}
	phases = append(phases, buildPracticalPhase(skills, in.TargetRole, order))

	totalWeeks := 0
	for _, p := range phases {
		totalWeeks += leadingInt(p.EstimatedDuration, 2)
	}

	weeklyHours := in.Customizations.WeeklyHours
	if weeklyHours <= 0 {
		weeklyHours = roadmap.DefaultWeeklyHours
	}

	return Result{
		Phases:             phases,
		TotalEstimatedTime: FormatDuration(totalWeeks),
		TotalWeeks:         totalWeeks,
		WeeklyHours:        weeklyHours,
		SkillCount:         len(skills),
		PhaseCount:         len(phases),
	}
}

// RecommendedResources lists up to maxPerSkill catalog resources per skill,
// filtered to types when types is non-empty. Video tutorials are not included.
func RecommendedResources(skills []kernel.SkillName, maxPerSkill int, types []roadmap.ResourceType) []roadmap.RecommendedResource {
	if maxPerSkill <= 0 {
		maxPerSkill = maxDocResourcesPerSkill
	}

	var out []roadmap.RecommendedResource
	for _, skill := range skills {
		taken := 0
		for _, lr := range catalogFor(skill) {
			if taken == maxPerSkill {
				break
			}
			if len(types) > 0 && !slices.Contains(types, lr.typ) {
				continue
			}
			out = append(out, roadmap.RecommendedResource{
				Skill:    skill,
				Resource: roadmap.NewLinkResource(lr.title, lr.typ, lr.url, lr.provider, lr.duration, lr.isFree),
			})
			taken++
		}
	}
	return out
}

// FormatDuration renders a week count the way roadmaps display it
func FormatDuration(weeks int) string {
	switch {
	case weeks < 4:
		return fmt.Sprintf("%d weeks", weeks)
	case weeks < 8:
		return "1 month"
	default:
		return fmt.Sprintf("%d months", int(math.Round(float64(weeks)/4)))
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func buildPhase(tpl phaseTemplate, skills []kernel.SkillName, order int, gapSet map[string]bool, preferred []roadmap.ResourceType) roadmap.Phase {
	milestones := make([]roadmap.Milestone, len(skills))
	weeks := 0

	for i, skill := range skills {
		m := roadmap.Milestone{
			Title:         "Learn " + skill.String(),
			Description:   "Master the fundamentals and best practices of " + skill.String(),
			Skills:        []kernel.SkillName{skill},
			Resources:     resourcesForSkill(skill, preferred),
			EstimatedTime: estimateSkillTime(skill),
			Order:         i + 1,
		}
		if i == len(skills)-1 {
			idea := projectIdea(gapSet)
			m.RequiresProject = true
			m.ProjectIdea = &idea
		}
		weeks += leadingInt(m.EstimatedTime, 1)
		milestones[i] = m
	}

	return roadmap.Phase{
		Name:              tpl.name,
		Description:       tpl.description,
		Order:             order,
		Milestones:        milestones,
		EstimatedDuration: fmt.Sprintf("%d weeks", weeks),
		Color:             tpl.color,
		Icon:              tpl.icon,
	}
}

func buildPracticalPhase(skills []kernel.SkillName, role kernel.RoleID, order int) roadmap.Phase {
	project := projectForRole(role)
	idea := project.idea

	capstoneSkills := slices.Clone(skills[:min(len(skills), capstoneSkillLimit)])
	if capstoneSkills == nil {
		capstoneSkills = []kernel.SkillName{}
	}

	return roadmap.Phase{
		Name:        practicalTemplate.name,
		Description: practicalTemplate.description,
		Order:       order,
		Milestones: []roadmap.Milestone{
			{
				Title:       "Set Up Development Environment",
				Description: "Configure your local development environment with all necessary tools",
				Skills:      kernel.SkillNames("Git", "Development Environment"),
				Resources: []roadmap.Resource{
					roadmap.NewLinkResource("VS Code Setup Guide", roadmap.ResourceTutorial, "https://code.visualstudio.com/docs/setup", "", "", true),
				},
				EstimatedTime: "3 days",
				Order:         1,
			},
			{
				Title:           "Build " + project.name,
				Description:     project.description,
				Skills:          capstoneSkills,
				Resources:       []roadmap.Resource{},
				EstimatedTime:   "2 weeks",
				Order:           2,
				RequiresProject: true,
				ProjectIdea:     &idea,
			},
			{
				Title:       "Portfolio & Documentation",
				Description: "Document your project and add it to your portfolio",
				Skills:      kernel.SkillNames("Technical Writing", "Portfolio"),
				Resources: []roadmap.Resource{
					roadmap.NewLinkResource("How to Write a Great README", roadmap.ResourceArticle, "https://github.com/matiassingers/awesome-readme", "", "", true),
				},
				EstimatedTime: "3 days",
				Order:         3,
			},
		},
		EstimatedDuration: fmt.Sprintf("%d weeks", practicalPhaseWeeks),
		Color:             practicalTemplate.color,
		Icon:              practicalTemplate.icon,
	}
}

// resourcesForSkill returns up to two catalog resources matching the
// preferred types followed by up to two video tutorials
func resourcesForSkill(skill kernel.SkillName, preferred []roadmap.ResourceType) []roadmap.Resource {
	out := []roadmap.Resource{}

	taken := 0
	for _, lr := range catalogFor(skill) {
		if taken == maxDocResourcesPerSkill {
			break
		}
		if len(preferred) > 0 && !slices.Contains(preferred, lr.typ) {
			continue
		}

		typ := lr.typ
		if typ == "" {
			typ = roadmap.ResourceTutorial
		}
		url := lr.url
		if url == "" {
			url = "#"
		}

		r := roadmap.NewLinkResource(lr.title, typ, url, lr.provider, lr.duration, lr.isFree)
		r.Difficulty = defaultResourceDifficulty
		r.Rating = defaultResourceRating
		out = append(out, r)
		taken++
	}

	videos := videosFor(skill)
	for _, v := range videos[:min(len(videos), maxVideoResourcesPerSkill)] {
		out = append(out, roadmap.NewVideoResource(v.title, v.channel, v.videoID, v.duration, v.views))
	}

	return out
}

func projectIdea(gapSet map[string]bool) string {
	for _, rule := range projectRules {
		if rule.matches(gapSet) {
			return rule.idea
		}
	}
	return fallbackProjectIdea
}

// uniqueSkills drops blanks and repeated skills, keeping first occurrences
func uniqueSkills(skills []kernel.SkillName) []kernel.SkillName {
	seen := make(map[string]bool, len(skills))
	out := make([]kernel.SkillName, 0, len(skills))
	for _, s := range skills {
		s = kernel.SkillName(strings.TrimSpace(string(s)))
		if s == "" || seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		out = append(out, s)
	}
	return out
}

// leadingInt parses the integer prefix of a duration such as "3 weeks"
func leadingInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return fallback
	}
	return n
}
