package profile

import (
	"strings"
	"time"
)

// SkillCategory is the closed set of canonical skill kinds.
type SkillCategory string

const (
	CategoryLanguage  SkillCategory = "Language"
	CategoryFramework SkillCategory = "Framework"
	CategoryLibrary   SkillCategory = "Library"
	CategoryTool      SkillCategory = "Tool"
	CategoryDomain    SkillCategory = "Domain"
	CategoryPractice  SkillCategory = "Practice"
	CategoryConcept   SkillCategory = "Concept"
)

// SkillDomain is the closed vocabulary for development domains.
type SkillDomain string

const (
	DomainFrontend        SkillDomain = "Frontend"
	DomainBackend         SkillDomain = "Backend"
	DomainFullStack       SkillDomain = "FullStack"
	DomainMobile          SkillDomain = "Mobile"
	DomainDevOps          SkillDomain = "DevOps"
	DomainDataScience     SkillDomain = "DataScience"
	DomainMachineLearning SkillDomain = "MachineLearning"
	DomainSecurity        SkillDomain = "Security"
	DomainDatabase        SkillDomain = "Database"
	DomainCloud           SkillDomain = "Cloud"
	DomainEmbedded        SkillDomain = "Embedded"
	DomainSystems         SkillDomain = "SystemsProgramming"
)

// SkillTrend classifies how a skill's usage changes over time.
type SkillTrend string

const (
	TrendImproving SkillTrend = "Improving"
	TrendStable    SkillTrend = "Stable"
	TrendDeclining SkillTrend = "Declining"
	TrendNew       SkillTrend = "New"
	TrendDormant   SkillTrend = "Dormant"
)

// Marker returns a short indicator suitable for terminal output.
func (t SkillTrend) Marker() string {
	switch t {
	case TrendImproving:
		return " ↑"
	case TrendDeclining:
		return " ↓"
	case TrendDormant:
		return " ⏸"
	case TrendNew, TrendStable:
		return ""
	}
	return ""
}

// Skill is a canonical skill identity shared across occurrences.
type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Aliases  []string      `json:"aliases,omitempty"`
}

// SkillOccurrence is one evidence unit binding a skill to a source commit.
// Never mutated after creation.
type SkillOccurrence struct {
	CommitSHA         string    `json:"commit_sha"`
	Repository        string    `json:"repository"`
	Timestamp         time.Time `json:"timestamp"`
	Evidence          []string  `json:"evidence,omitempty"`
	ProficiencySignal string    `json:"proficiency_signal"`
	Confidence        float64   `json:"confidence"`
	LinesChanged      int       `json:"lines_changed"`
}

// AggregatedSkill is the accumulated evidence bucket for one canonical skill.
// The score slices run parallel to contributing commits, one push per commit
// the skill appeared in: a commit evidencing several skills scores each of
// them.
type AggregatedSkill struct {
	Skill            Skill
	Occurrences      []SkillOccurrence
	TotalLines       int
	ComplexityScores []float64
	QualityScores    []float64
}

// NewAggregatedSkill returns an empty bucket for the given skill.
func NewAggregatedSkill(skill Skill) *AggregatedSkill {
	return &AggregatedSkill{Skill: skill}
}

// Repositories returns the distinct repositories contributing occurrences.
func (a *AggregatedSkill) Repositories() []string {
	seen := make(map[string]struct{}, len(a.Occurrences))
	repos := make([]string, 0, len(a.Occurrences))
	for _, occ := range a.Occurrences {
		if _, ok := seen[occ.Repository]; ok {
			continue
		}
		seen[occ.Repository] = struct{}{}
		repos = append(repos, occ.Repository)
	}
	return repos
}

// SkillEvidence summarizes the evidence behind a rating.
type SkillEvidence struct {
	CommitCount       int       `json:"commit_count"`
	TotalLinesChanged int       `json:"total_lines_changed"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
	Repositories      []string  `json:"repositories"`
}

// SkillRating is the final per-skill output of the rating engine.
type SkillRating struct {
	Skill            Skill         `json:"skill"`
	ProficiencyScore int           `json:"proficiency_score"`
	Confidence       float64       `json:"confidence"`
	Evidence         SkillEvidence `json:"evidence"`
	Trend            SkillTrend    `json:"trend"`
}

// SlugID derives a skill id from a normalized name.
func SlugID(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "_")
}
