package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumedhk0/GitHubAnalyzer/internal/github"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

func testProfile(username string) *profile.UserProfile {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return &profile.UserProfile{
		User: github.User{
			Login:       username,
			ID:          42,
			Name:        "Octo Dev",
			AvatarURL:   "https://example.com/a.png",
			Bio:         "writes code",
			PublicRepos: 12,
			Followers:   3,
			CreatedAt:   now.AddDate(-5, 0, 0),
		},
		TotalCommitsAnalyzed: 120,
		AnalysisDate:         now,
		Skills: []profile.SkillRating{
			{
				Skill: profile.Skill{
					ID:       "rust",
					Name:     "rust",
					Category: profile.CategoryLanguage,
				},
				ProficiencyScore: 82,
				Confidence:       0.9,
				Trend:            profile.TrendImproving,
				Evidence: profile.SkillEvidence{
					CommitCount:       40,
					TotalLinesChanged: 5000,
					FirstSeen:         now.AddDate(-2, 0, 0),
					LastSeen:          now,
					Repositories:      []string{"octo/widget"},
				},
			},
			{
				Skill: profile.Skill{
					ID:       "docker",
					Name:     "docker",
					Category: profile.CategoryTool,
				},
				ProficiencyScore: 55,
				Confidence:       0.4,
				Trend:            profile.TrendStable,
			},
		},
		Summary: profile.Summary{
			PrimaryLanguages: []string{"rust"},
			PrimaryDomains:   []profile.SkillDomain{profile.DomainBackend},
			ExperienceLevel:  profile.LevelSenior,
			CodingStyle:      profile.DefaultCodingStyle(),
		},
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	store, err := InMemory()
	require.NoError(t, err)
	defer store.Close()

	saved := testProfile("octo")
	require.NoError(t, store.SaveProfile(saved))

	loaded, ok, err := store.LoadProfile("octo")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "octo", loaded.User.Login)
	assert.Equal(t, "Octo Dev", loaded.User.Name)
	assert.Equal(t, 120, loaded.TotalCommitsAnalyzed)
	assert.True(t, saved.AnalysisDate.Equal(loaded.AnalysisDate))
	assert.Equal(t, saved.Summary.ExperienceLevel, loaded.Summary.ExperienceLevel)
	assert.Equal(t, saved.Summary.PrimaryLanguages, loaded.Summary.PrimaryLanguages)

	require.Len(t, loaded.Skills, 2)
	// Ratings come back ordered by score.
	assert.Equal(t, "rust", loaded.Skills[0].Skill.Name)
	assert.Equal(t, 82, loaded.Skills[0].ProficiencyScore)
	assert.Equal(t, profile.TrendImproving, loaded.Skills[0].Trend)
	assert.Equal(t, 40, loaded.Skills[0].Evidence.CommitCount)
	assert.Equal(t, []string{"octo/widget"}, loaded.Skills[0].Evidence.Repositories)
	assert.Equal(t, profile.CategoryTool, loaded.Skills[1].Skill.Category)
}

func TestLoadProfileMissing(t *testing.T) {
	store, err := InMemory()
	require.NoError(t, err)
	defer store.Close()

	loaded, ok, err := store.LoadProfile("nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, loaded)
}

func TestSaveProfileReplacesRatings(t *testing.T) {
	store, err := InMemory()
	require.NoError(t, err)
	defer store.Close()

	first := testProfile("octo")
	require.NoError(t, store.SaveProfile(first))

	second := testProfile("octo")
	second.TotalCommitsAnalyzed = 200
	second.Skills = second.Skills[:1]
	require.NoError(t, store.SaveProfile(second))

	loaded, ok, err := store.LoadProfile("octo")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 200, loaded.TotalCommitsAnalyzed)
	// The old docker rating must be gone, not merged.
	require.Len(t, loaded.Skills, 1)
	assert.Equal(t, "rust", loaded.Skills[0].Skill.Name)
}

func TestListProfiles(t *testing.T) {
	store, err := InMemory()
	require.NoError(t, err)
	defer store.Close()

	older := testProfile("first")
	older.AnalysisDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveProfile(older))

	newer := testProfile("second")
	newer.AnalysisDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveProfile(newer))

	usernames, err := store.ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, usernames)
}
