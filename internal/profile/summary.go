package profile

// ExperienceLevel is the tiered seniority assessment.
type ExperienceLevel string

const (
	LevelJunior    ExperienceLevel = "Junior"
	LevelMid       ExperienceLevel = "Mid-Level"
	LevelSenior    ExperienceLevel = "Senior"
	LevelStaff     ExperienceLevel = "Staff"
	LevelPrincipal ExperienceLevel = "Principal"
)

// StrengthWeakness is one entry in the strengths or weaknesses lists.
type StrengthWeakness struct {
	Area        string   `json:"area"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence,omitempty"`
	Score       int      `json:"score"`
}

// CodingStyle aggregates style signals across all analyzed batches.
type CodingStyle struct {
	// PrefersSmallCommits is not derived from data yet; commit size
	// analysis would be needed. Kept fixed true.
	PrefersSmallCommits bool    `json:"prefers_small_commits"`
	WritesTests         float64 `json:"writes_tests"`
	DocumentsCode       float64 `json:"documents_code"`
	RefactorsRegularly  bool    `json:"refactors_regularly"`
	FollowsConventions  float64 `json:"follows_conventions"`
}

// DefaultCodingStyle mirrors the zero evidence case.
func DefaultCodingStyle() CodingStyle {
	return CodingStyle{PrefersSmallCommits: true}
}

// Summary is the profile-level rollup.
type Summary struct {
	PrimaryLanguages []string           `json:"primary_languages"`
	PrimaryDomains   []SkillDomain      `json:"primary_domains"`
	Strengths        []StrengthWeakness `json:"strengths"`
	Weaknesses       []StrengthWeakness `json:"weaknesses"`
	ExperienceLevel  ExperienceLevel    `json:"experience_level"`
	CodingStyle      CodingStyle        `json:"coding_style"`
}

// DefaultSummary is the summary for a profile with no analyzable evidence.
func DefaultSummary() Summary {
	return Summary{
		ExperienceLevel: LevelMid,
		CodingStyle:     DefaultCodingStyle(),
	}
}
