package cmd

import (
	"fmt"
	"strings"

	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

func formatText(p *profile.UserProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== Profile Analysis: %s ===\n\n", p.User.Login)

	if p.User.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.User.Name)
	}
	if p.User.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", p.User.Bio)
	}

	fmt.Fprintf(&b, "Commits analyzed: %d\n", p.TotalCommitsAnalyzed)
	fmt.Fprintf(&b, "Repositories: %d\n", len(p.Repositories))
	fmt.Fprintf(&b, "Experience Level: %s\n\n", p.Summary.ExperienceLevel)

	b.WriteString("Top Skills:\n")
	for i, skill := range p.Skills {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "  - %s (%s): %d/100 (confidence: %.0f%%)%s\n",
			skill.Skill.Name, skill.Skill.Category, skill.ProficiencyScore,
			skill.Confidence*100, skill.Trend.Marker())
	}

	if len(p.Summary.PrimaryLanguages) > 0 {
		fmt.Fprintf(&b, "\nPrimary Languages: %s\n", strings.Join(p.Summary.PrimaryLanguages, ", "))
	}

	if len(p.Summary.Strengths) > 0 {
		b.WriteString("\nStrengths:\n")
		for _, s := range p.Summary.Strengths {
			fmt.Fprintf(&b, "  + %s: %s\n", s.Area, s.Description)
		}
	}

	if len(p.Summary.Weaknesses) > 0 {
		b.WriteString("\nAreas for Improvement:\n")
		for _, w := range p.Summary.Weaknesses {
			fmt.Fprintf(&b, "  - %s: %s\n", w.Area, w.Description)
		}
	}

	b.WriteString("\nCoding Style:\n")
	fmt.Fprintf(&b, "  Tests: %.0f%%\n", p.Summary.CodingStyle.WritesTests*100)
	fmt.Fprintf(&b, "  Documentation: %.0f%%\n", p.Summary.CodingStyle.DocumentsCode*100)
	fmt.Fprintf(&b, "  Follows Conventions: %.0f%%\n", p.Summary.CodingStyle.FollowsConventions*100)

	fmt.Fprintf(&b, "\nAnalyzed on: %s\n", p.AnalysisDate.UTC().Format("2006-01-02 15:04:05 UTC"))

	return b.String()
}

func formatMarkdown(p *profile.UserProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Profile Analysis: %s\n\n", p.User.Login)

	if p.User.Name != "" {
		fmt.Fprintf(&b, "**Name:** %s\n\n", p.User.Name)
	}
	if p.User.Bio != "" {
		fmt.Fprintf(&b, "> %s\n\n", p.User.Bio)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Commits Analyzed | %d |\n", p.TotalCommitsAnalyzed)
	fmt.Fprintf(&b, "| Repositories | %d |\n", len(p.Repositories))
	fmt.Fprintf(&b, "| Experience Level | %s |\n", p.Summary.ExperienceLevel)
	if len(p.Summary.PrimaryLanguages) > 0 {
		fmt.Fprintf(&b, "| Primary Languages | %s |\n", strings.Join(p.Summary.PrimaryLanguages, ", "))
	}

	b.WriteString("\n## Top Skills\n\n")
	b.WriteString("| Skill | Category | Score | Confidence | Trend |\n")
	b.WriteString("|-------|----------|-------|------------|-------|\n")
	for i, skill := range p.Skills {
		if i == 15 {
			break
		}
		fmt.Fprintf(&b, "| %s | %s | %d/100 | %.0f%% | %s |\n",
			skill.Skill.Name, skill.Skill.Category, skill.ProficiencyScore,
			skill.Confidence*100, skill.Trend)
	}

	if len(p.Summary.Strengths) > 0 {
		b.WriteString("\n## Strengths\n\n")
		for _, s := range p.Summary.Strengths {
			fmt.Fprintf(&b, "- **%s**: %s\n", s.Area, s.Description)
		}
	}

	if len(p.Summary.Weaknesses) > 0 {
		b.WriteString("\n## Areas for Improvement\n\n")
		for _, w := range p.Summary.Weaknesses {
			fmt.Fprintf(&b, "- **%s**: %s\n", w.Area, w.Description)
		}
	}

	b.WriteString("\n## Coding Style\n\n")
	b.WriteString("| Metric | Score |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Test Coverage | %.0f%% |\n", p.Summary.CodingStyle.WritesTests*100)
	fmt.Fprintf(&b, "| Documentation | %.0f%% |\n", p.Summary.CodingStyle.DocumentsCode*100)
	fmt.Fprintf(&b, "| Convention Adherence | %.0f%% |\n", p.Summary.CodingStyle.FollowsConventions*100)

	fmt.Fprintf(&b, "\n---\n*Analyzed on %s*\n", p.AnalysisDate.UTC().Format("2006-01-02 15:04:05 UTC"))

	return b.String()
}
