package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

// TalentConcentration is the key-person risk measure. Every field is in [0, 1];
// higher means AI capability sits with fewer people.
type TalentConcentration struct {
	Score              float64 `json:"score"`
	LeadershipRatio    float64 `json:"leadership_ratio"`
	TeamSizeFactor     float64 `json:"team_size_factor"`
	SkillConcentration float64 `json:"skill_concentration"`
	IndividualFactor   float64 `json:"individual_factor"`
	AIRoles            int     `json:"ai_roles"`
	Headcount          int     `json:"headcount"`
}

// TalentConcentrationScorer computes TC from hiring and leadership signals.
type TalentConcentrationScorer struct {
	mentionsCap int
}

func NewTalentConcentrationScorer(individualMentionsCap int) *TalentConcentrationScorer {
	if individualMentionsCap <= 0 {
		individualMentionsCap = 1
	}
	return &TalentConcentrationScorer{mentionsCap: individualMentionsCap}
}

// Score computes the four components and their equal-weight mean. The equal
// weighting is a design choice, not a fitted model. Absence of data scores as
// no concentration for the ratio, skill and individual components, so a
// company with no signals lands at 0.25.
func (s *TalentConcentrationScorer) Score(signals evidence.TalentSignals) TalentConcentration {
	aiPostings := signals.AIPostings()

	var senior int
	for _, p := range aiPostings {
		if p.IsSenior() {
			senior++
		}
	}

	leadershipRatio := 0.0
	if len(aiPostings) > 0 {
		leadershipRatio = clamp(float64(senior)/float64(len(aiPostings)), 0, 1)
	}

	headcount := signals.AIHeadcount
	if headcount <= 0 {
		headcount = len(aiPostings)
	}
	teamSize := 1 / math.Sqrt(math.Max(float64(headcount), 1))

	individual := clamp(float64(signals.NamedIndividuals)/float64(s.mentionsCap), 0, 1)

	tc := TalentConcentration{
		LeadershipRatio:    leadershipRatio,
		TeamSizeFactor:     teamSize,
		SkillConcentration: SkillHerfindahl(aiPostings),
		IndividualFactor:   individual,
		AIRoles:            len(aiPostings),
		Headcount:          headcount,
	}
	tc.Score = (tc.LeadershipRatio + tc.TeamSizeFactor + tc.SkillConcentration + tc.IndividualFactor) / 4
	return tc
}

// SkillHerfindahl returns Σ share² over the skills required by the postings,
// where share is a skill's fraction of all skill mentions. It is 1.0 when every
// posting asks for the same single skill, 1/N for N equally frequent skills,
// and 0 when no skills are listed at all.
func SkillHerfindahl(postings []evidence.JobPosting) float64 {
	counts := make(map[string]int)
	var total int
	for _, p := range postings {
		seen := make(map[string]bool, len(p.Skills))
		for _, raw := range p.Skills {
			skill := strings.ToLower(strings.TrimSpace(raw))
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			counts[skill]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	// Sum in sorted order so the result does not depend on map iteration.
	skills := make([]string, 0, len(counts))
	for k := range counts {
		skills = append(skills, k)
	}
	sort.Strings(skills)

	var hhi float64
	for _, k := range skills {
		share := float64(counts[k]) / float64(total)
		hhi += share * share
	}
	return clamp(hhi, 0, 1)
}
