package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sumedhk0/GitHubAnalyzer/internal/llm"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

// GenerateSummary rolls per-skill ratings and per-batch generation results
// into the profile-level summary. Ratings must already be sorted descending
// by score.
func (e *Engine) GenerateSummary(ratings []profile.SkillRating, results []*llm.AnalysisResult) profile.Summary {
	return profile.Summary{
		PrimaryLanguages: primaryLanguages(ratings),
		PrimaryDomains:   primaryDomains(results),
		Strengths:        detectStrengths(ratings, results),
		Weaknesses:       detectWeaknesses(ratings, results),
		ExperienceLevel:  assessExperienceLevel(ratings),
		CodingStyle:      assessCodingStyle(results),
	}
}

func primaryLanguages(ratings []profile.SkillRating) []string {
	var languages []string
	for _, r := range ratings {
		if r.Skill.Category != profile.CategoryLanguage || r.ProficiencyScore < 40 {
			continue
		}
		languages = append(languages, r.Skill.Name)
		if len(languages) == 5 {
			break
		}
	}
	return languages
}

func primaryDomains(results []*llm.AnalysisResult) []profile.SkillDomain {
	counts := make(map[string]int)
	for _, res := range results {
		for _, signal := range res.DomainSignals {
			counts[strings.ToLower(signal)]++
		}
	}

	type domainCount struct {
		name  string
		count int
	}
	tallied := make([]domainCount, 0, len(counts))
	for name, n := range counts {
		tallied = append(tallied, domainCount{name, n})
	}
	sort.SliceStable(tallied, func(i, j int) bool { return tallied[i].count > tallied[j].count })

	var domains []profile.SkillDomain
	for _, dc := range tallied {
		if len(domains) == 3 {
			break
		}
		if d, ok := parseDomain(dc.name); ok {
			domains = append(domains, d)
		}
	}
	return domains
}

// parseDomain maps a free-form signal onto the closed domain vocabulary.
// Unknown signals are dropped.
func parseDomain(s string) (profile.SkillDomain, bool) {
	switch s {
	case "frontend":
		return profile.DomainFrontend, true
	case "backend":
		return profile.DomainBackend, true
	case "fullstack", "full-stack":
		return profile.DomainFullStack, true
	case "mobile":
		return profile.DomainMobile, true
	case "devops":
		return profile.DomainDevOps, true
	case "ml", "machine learning":
		return profile.DomainMachineLearning, true
	case "data", "data science":
		return profile.DomainDataScience, true
	case "security":
		return profile.DomainSecurity, true
	case "database", "databases":
		return profile.DomainDatabase, true
	case "cloud":
		return profile.DomainCloud, true
	case "embedded":
		return profile.DomainEmbedded, true
	case "systems":
		return profile.DomainSystems, true
	}
	return "", false
}

func detectStrengths(ratings []profile.SkillRating, results []*llm.AnalysisResult) []profile.StrengthWeakness {
	var strengths []profile.StrengthWeakness

	for _, r := range ratings {
		if r.ProficiencyScore < 70 {
			continue
		}
		strengths = append(strengths, profile.StrengthWeakness{
			Area: r.Skill.Name,
			Description: fmt.Sprintf("Strong %s proficiency with %d commits",
				r.Skill.Category, r.Evidence.CommitCount),
			Evidence: r.Evidence.Repositories,
			Score:    r.ProficiencyScore,
		})
	}

	var goodPatterns []string
	for _, res := range results {
		for _, p := range res.Patterns {
			if p.QualityImpact > 0.3 {
				goodPatterns = append(goodPatterns, p.Name)
			}
		}
	}
	if len(goodPatterns) > 0 {
		strengths = append(strengths, profile.StrengthWeakness{
			Area:        "Design Patterns",
			Description: "Uses good design patterns and practices",
			Evidence:    goodPatterns,
			Score:       75,
		})
	}

	if avgQuality := averageQuality(results); avgQuality >= 7 {
		strengths = append(strengths, profile.StrengthWeakness{
			Area:        "Code Quality",
			Description: fmt.Sprintf("Consistently high code quality (avg: %.1f/10)", avgQuality),
			Score:       int(avgQuality * 10),
		})
	}

	sort.SliceStable(strengths, func(i, j int) bool { return strengths[i].Score > strengths[j].Score })
	if len(strengths) > 5 {
		strengths = strengths[:5]
	}
	return strengths
}

func detectWeaknesses(ratings []profile.SkillRating, results []*llm.AnalysisResult) []profile.StrengthWeakness {
	var weaknesses []profile.StrengthWeakness

	avgTesting := meanOverResults(results, func(q llm.QualityAssessment) float64 {
		return q.TestingCoverage
	})
	if avgTesting < 0.3 {
		weaknesses = append(weaknesses, profile.StrengthWeakness{
			Area:        "Testing",
			Description: fmt.Sprintf("Low test coverage across commits (%.0f%%)", avgTesting*100),
			Score:       int(avgTesting * 100),
		})
	}

	avgDocs := meanOverResults(results, func(q llm.QualityAssessment) float64 {
		return q.DocumentationQuality
	})
	if avgDocs < 4 {
		weaknesses = append(weaknesses, profile.StrengthWeakness{
			Area:        "Documentation",
			Description: fmt.Sprintf("Limited documentation quality (avg: %.1f/10)", avgDocs),
			Score:       int(avgDocs * 10),
		})
	}

	for _, r := range ratings {
		if r.Trend != profile.TrendDeclining {
			continue
		}
		weaknesses = append(weaknesses, profile.StrengthWeakness{
			Area:        r.Skill.Name,
			Description: fmt.Sprintf("%s usage declining over time", r.Skill.Name),
			Evidence:    []string{"Last used: " + r.Evidence.LastSeen.Format("2006-01-02")},
			Score:       r.ProficiencyScore,
		})
	}

	var antiPatterns []string
	for _, res := range results {
		for _, p := range res.Patterns {
			if p.QualityImpact < -0.3 {
				antiPatterns = append(antiPatterns, p.Name)
			}
		}
	}
	if len(antiPatterns) > 0 {
		weaknesses = append(weaknesses, profile.StrengthWeakness{
			Area:        "Code Patterns",
			Description: "Some anti-patterns detected in code",
			Evidence:    antiPatterns,
			Score:       30,
		})
	}

	sort.SliceStable(weaknesses, func(i, j int) bool { return weaknesses[i].Score < weaknesses[j].Score })
	if len(weaknesses) > 5 {
		weaknesses = weaknesses[:5]
	}
	return weaknesses
}

func assessExperienceLevel(ratings []profile.SkillRating) profile.ExperienceLevel {
	if len(ratings) == 0 {
		return profile.LevelJunior
	}

	highProficiency := 0
	sum := 0.0
	earliest := ratings[0].Evidence.FirstSeen
	latest := ratings[0].Evidence.LastSeen
	for _, r := range ratings {
		if r.ProficiencyScore >= 70 {
			highProficiency++
		}
		sum += float64(r.ProficiencyScore)
		if r.Evidence.FirstSeen.Before(earliest) {
			earliest = r.Evidence.FirstSeen
		}
		if r.Evidence.LastSeen.After(latest) {
			latest = r.Evidence.LastSeen
		}
	}
	avg := sum / float64(len(ratings))
	yearsActive := int(latest.Sub(earliest).Hours() / 24 / 365)

	switch {
	case highProficiency >= 5 && avg >= 70 && yearsActive >= 5:
		return profile.LevelPrincipal
	case highProficiency >= 4 && avg >= 65 && yearsActive >= 4:
		return profile.LevelStaff
	case highProficiency >= 3 && avg >= 60 && yearsActive >= 2:
		return profile.LevelSenior
	case highProficiency >= 1 && avg >= 50 && yearsActive >= 1:
		return profile.LevelMid
	default:
		return profile.LevelJunior
	}
}

func assessCodingStyle(results []*llm.AnalysisResult) profile.CodingStyle {
	if len(results) == 0 {
		return profile.DefaultCodingStyle()
	}

	refactors := false
	for _, res := range results {
		for _, p := range res.Patterns {
			if strings.Contains(strings.ToLower(p.Name), "refactor") {
				refactors = true
			}
		}
	}

	return profile.CodingStyle{
		PrefersSmallCommits: true,
		WritesTests: meanOverResults(results, func(q llm.QualityAssessment) float64 {
			return q.TestingCoverage
		}),
		DocumentsCode: meanOverResults(results, func(q llm.QualityAssessment) float64 {
			return q.DocumentationQuality / 10
		}),
		RefactorsRegularly: refactors,
		FollowsConventions: meanOverResults(results, func(q llm.QualityAssessment) float64 {
			return q.CodeQuality / 10
		}),
	}
}

func averageQuality(results []*llm.AnalysisResult) float64 {
	return meanOverResults(results, func(q llm.QualityAssessment) float64 {
		return q.CodeQuality
	})
}

func meanOverResults(results []*llm.AnalysisResult, pick func(llm.QualityAssessment) float64) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, res := range results {
		sum += pick(res.QualityAssessment)
	}
	return sum / float64(len(results))
}
