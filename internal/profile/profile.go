// Package profile holds the domain model produced by an analysis run:
// canonical skills, their evidence, ratings and the profile-level summary.
package profile

import (
	"time"

	"github.com/sumedhk0/GitHubAnalyzer/internal/github"
)

// UserProfile is the final output of the pipeline, handed to storage.
type UserProfile struct {
	User                 github.User         `json:"user"`
	Repositories         []github.Repository `json:"repositories"`
	TotalCommitsAnalyzed int                 `json:"total_commits_analyzed"`
	AnalysisDate         time.Time           `json:"analysis_date"`
	Skills               []SkillRating       `json:"skills"`
	Summary              Summary             `json:"summary"`
}
