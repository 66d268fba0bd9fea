package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumedhk0/GitHubAnalyzer/internal/llm"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

func ratingFor(name string, category profile.SkillCategory, score int, trend profile.SkillTrend) profile.SkillRating {
	return profile.SkillRating{
		Skill: profile.Skill{
			ID:       name,
			Name:     name,
			Category: category,
		},
		ProficiencyScore: score,
		Confidence:       0.5,
		Trend:            trend,
		Evidence: profile.SkillEvidence{
			CommitCount:  10,
			FirstSeen:    testNow.AddDate(-3, 0, 0),
			LastSeen:     testNow,
			Repositories: []string{"octo/widget"},
		},
	}
}

func resultWithQuality(codeQuality, testing, docs float64) *llm.AnalysisResult {
	return &llm.AnalysisResult{
		QualityAssessment: llm.QualityAssessment{
			CodeQuality:          codeQuality,
			TestingCoverage:      testing,
			DocumentationQuality: docs,
		},
	}
}

func TestPrimaryLanguagesFilterAndCap(t *testing.T) {
	ratings := []profile.SkillRating{
		ratingFor("rust", profile.CategoryLanguage, 90, profile.TrendStable),
		ratingFor("docker", profile.CategoryTool, 85, profile.TrendStable),
		ratingFor("go", profile.CategoryLanguage, 80, profile.TrendStable),
		ratingFor("python", profile.CategoryLanguage, 70, profile.TrendStable),
		ratingFor("typescript", profile.CategoryLanguage, 60, profile.TrendStable),
		ratingFor("ruby", profile.CategoryLanguage, 50, profile.TrendStable),
		ratingFor("java", profile.CategoryLanguage, 45, profile.TrendStable),
		ratingFor("perl", profile.CategoryLanguage, 30, profile.TrendStable),
	}

	languages := primaryLanguages(ratings)

	// Top five language-category skills at score 40 or above, in order.
	assert.Equal(t, []string{"rust", "go", "python", "typescript", "ruby"}, languages)
}

func TestPrimaryDomainsMapAndRank(t *testing.T) {
	results := []*llm.AnalysisResult{
		{DomainSignals: []string{"Backend", "backend", "DevOps"}},
		{DomainSignals: []string{"backend", "devops", "gardening"}},
	}

	domains := primaryDomains(results)

	// "gardening" lands in the top three by count but is outside the
	// vocabulary, so only two domains survive.
	require.Len(t, domains, 2)
	assert.Equal(t, profile.DomainBackend, domains[0])
	assert.Equal(t, profile.DomainDevOps, domains[1])
}

func TestDetectStrengths(t *testing.T) {
	ratings := []profile.SkillRating{
		ratingFor("rust", profile.CategoryLanguage, 85, profile.TrendStable),
		ratingFor("go", profile.CategoryLanguage, 60, profile.TrendStable),
	}
	results := []*llm.AnalysisResult{
		{
			Patterns: []llm.DetectedPattern{
				{Name: "Repository Pattern", QualityImpact: 0.5},
				{Name: "God Object", QualityImpact: -0.6},
			},
			QualityAssessment: llm.QualityAssessment{CodeQuality: 8},
		},
	}

	strengths := detectStrengths(ratings, results)

	require.Len(t, strengths, 3)
	// Sorted by score descending: rust 85, Code Quality 80, patterns 75.
	assert.Equal(t, "rust", strengths[0].Area)
	assert.Equal(t, "Code Quality", strengths[1].Area)
	assert.Equal(t, "Design Patterns", strengths[2].Area)
	assert.Equal(t, []string{"Repository Pattern"}, strengths[2].Evidence)
}

func TestDetectStrengthsTruncatesToFive(t *testing.T) {
	var ratings []profile.SkillRating
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		ratings = append(ratings, ratingFor(name, profile.CategoryLanguage, 90, profile.TrendStable))
	}

	strengths := detectStrengths(ratings, nil)
	assert.Len(t, strengths, 5)
}

func TestDetectWeaknesses(t *testing.T) {
	ratings := []profile.SkillRating{
		ratingFor("php", profile.CategoryLanguage, 55, profile.TrendDeclining),
	}
	results := []*llm.AnalysisResult{
		resultWithQuality(5, 0.1, 3),
		{
			Patterns: []llm.DetectedPattern{
				{Name: "Copy Paste", QualityImpact: -0.5},
			},
			QualityAssessment: llm.QualityAssessment{CodeQuality: 5, TestingCoverage: 0.1, DocumentationQuality: 3},
		},
	}

	weaknesses := detectWeaknesses(ratings, results)

	require.Len(t, weaknesses, 4)
	// Sorted ascending by score: testing 10, anti-patterns 30, docs 30, php 55.
	assert.Equal(t, "Testing", weaknesses[0].Area)

	areas := make([]string, 0, len(weaknesses))
	for _, w := range weaknesses {
		areas = append(areas, w.Area)
	}
	assert.Contains(t, areas, "Documentation")
	assert.Contains(t, areas, "Code Patterns")
	assert.Contains(t, areas, "php")
}

func TestAssessExperienceLevelTiers(t *testing.T) {
	highs := func(n, score int, years int) []profile.SkillRating {
		var ratings []profile.SkillRating
		for i := 0; i < n; i++ {
			r := ratingFor("skill", profile.CategoryLanguage, score, profile.TrendStable)
			r.Evidence.FirstSeen = testNow.AddDate(-years, 0, 0)
			r.Evidence.LastSeen = testNow
			ratings = append(ratings, r)
		}
		return ratings
	}

	assert.Equal(t, profile.LevelPrincipal, assessExperienceLevel(highs(5, 75, 6)))
	assert.Equal(t, profile.LevelStaff, assessExperienceLevel(highs(4, 68, 4)))
	assert.Equal(t, profile.LevelSenior, assessExperienceLevel(highs(3, 62, 2)))
	assert.Equal(t, profile.LevelMid, assessExperienceLevel(highs(1, 55, 1)))
	assert.Equal(t, profile.LevelJunior, assessExperienceLevel(highs(1, 30, 0)))
	assert.Equal(t, profile.LevelJunior, assessExperienceLevel(nil))
}

func TestAssessCodingStyle(t *testing.T) {
	results := []*llm.AnalysisResult{
		resultWithQuality(8, 0.6, 7),
		{
			Patterns: []llm.DetectedPattern{
				{Name: "Incremental Refactoring", QualityImpact: 0.4},
			},
			QualityAssessment: llm.QualityAssessment{CodeQuality: 6, TestingCoverage: 0.4, DocumentationQuality: 5},
		},
	}

	style := assessCodingStyle(results)

	assert.True(t, style.PrefersSmallCommits)
	assert.True(t, style.RefactorsRegularly)
	assert.InDelta(t, 0.5, style.WritesTests, 0.001)
	assert.InDelta(t, 0.6, style.DocumentsCode, 0.001)
	assert.InDelta(t, 0.7, style.FollowsConventions, 0.001)
}

func TestAssessCodingStyleDefaults(t *testing.T) {
	style := assessCodingStyle(nil)
	assert.Equal(t, profile.DefaultCodingStyle(), style)
}

func TestGenerateSummaryEndToEnd(t *testing.T) {
	e := newTestEngine()

	ratings := []profile.SkillRating{
		ratingFor("rust", profile.CategoryLanguage, 85, profile.TrendStable),
		ratingFor("postgresql", profile.CategoryTool, 70, profile.TrendImproving),
	}
	results := []*llm.AnalysisResult{
		{
			DomainSignals:     []string{"backend", "backend", "database"},
			QualityAssessment: llm.QualityAssessment{CodeQuality: 8, TestingCoverage: 0.7, DocumentationQuality: 6},
		},
	}

	summary := e.GenerateSummary(ratings, results)

	assert.Equal(t, []string{"rust"}, summary.PrimaryLanguages)
	assert.Equal(t, []profile.SkillDomain{profile.DomainBackend, profile.DomainDatabase}, summary.PrimaryDomains)
	assert.NotEmpty(t, summary.Strengths)
	assert.NotEqual(t, profile.ExperienceLevel(""), summary.ExperienceLevel)
}
