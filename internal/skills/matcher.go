package skills

import (
	"fmt"
	"math"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

const (
	matchedConfidence  = 0.8
	maxRecommendations = 5
)

// Recommendation suggests a gap skill to focus on
type Recommendation struct {
	Skill    kernel.SkillName `json:"skill"`
	Priority string           `json:"priority"`
	Reason   string           `json:"reason"`
}

// MatchResult compares a candidate's skills with a role
type MatchResult struct {
	Required        []kernel.Skill   `json:"required_skills"`
	Matched         []kernel.Skill   `json:"matched_skills"`
	Gaps            []kernel.Skill   `json:"gap_skills"`
	Score           int              `json:"match_score"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Match compares extracted skills against the requirements of role.
// Names are compared case-insensitively after alias normalization.
func Match(extracted []kernel.Skill, role Role) MatchResult {
	have := make(map[string]bool, len(extracted))
	for _, s := range extracted {
		have[Normalize(string(s.Name)).Key()] = true
	}

	res := MatchResult{
		Required: append([]kernel.Skill(nil), role.Skills...),
		Matched:  []kernel.Skill{},
		Gaps:     []kernel.Skill{},
	}

	for _, req := range role.Skills {
		if have[req.Name.Key()] {
			m := req
			m.Confidence = matchedConfidence
			res.Matched = append(res.Matched, m)
		} else {
			res.Gaps = append(res.Gaps, req)
		}
	}

	if len(role.Skills) > 0 {
		res.Score = int(math.Round(float64(len(res.Matched)) / float64(len(role.Skills)) * 100))
	}

	for _, gap := range res.Gaps[:min(len(res.Gaps), maxRecommendations)] {
		res.Recommendations = append(res.Recommendations, Recommendation{
			Skill:    gap.Name,
			Priority: "high",
			Reason:   fmt.Sprintf("%s is a key requirement for %s", gap.Name, role.Label),
		})
	}

	return res
}
