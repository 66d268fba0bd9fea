package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sumedhk0/GitHubAnalyzer/internal/github"
	"github.com/sumedhk0/GitHubAnalyzer/internal/llm"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

type stubSource struct {
	user    *github.User
	repos   []github.Repository
	commits map[string][]github.Commit

	listErr map[string]error
}

func (s *stubSource) GetUser(_ context.Context, username string) (*github.User, error) {
	if s.user == nil {
		return nil, &github.NotFoundError{Kind: "user", Name: username}
	}
	return s.user, nil
}

func (s *stubSource) ListRepositories(_ context.Context, _ string) ([]github.Repository, error) {
	return s.repos, nil
}

func (s *stubSource) ListCommits(_ context.Context, _, repo, _ string, _ int) ([]github.CommitSummary, error) {
	if err := s.listErr[repo]; err != nil {
		return nil, err
	}
	var summaries []github.CommitSummary
	for _, c := range s.commits[repo] {
		summaries = append(summaries, github.CommitSummary{SHA: c.SHA, Commit: c.Commit})
	}
	return summaries, nil
}

func (s *stubSource) GetCommit(_ context.Context, _, repo, sha string) (*github.Commit, error) {
	for _, c := range s.commits[repo] {
		if c.SHA == sha {
			return &c, nil
		}
	}
	return nil, errors.New("commit not found")
}

type stubProvider struct {
	result   *llm.AnalysisResult
	err      error
	requests []*llm.AnalysisRequest
}

func (p *stubProvider) AnalyzeCommits(_ context.Context, req *llm.AnalysisRequest) (*llm.AnalysisResult, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *stubProvider) MaxContextTokens() int { return 200_000 }

func (p *stubProvider) Name() string { return "stub" }

type stubStore struct {
	saved []*profile.UserProfile
	err   error
}

func (s *stubStore) SaveProfile(p *profile.UserProfile) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, p)
	return nil
}

func testCommit(sha, message string, committedAt time.Time) github.Commit {
	return github.Commit{
		SHA: sha,
		Commit: github.CommitDetails{
			Message: message,
			Author:  github.CommitAuthor{Name: "dev", Date: committedAt},
		},
		Stats: github.CommitStats{Additions: 10, Deletions: 2, Total: 12},
		Files: []github.FileChange{
			{Filename: "main.rs", Status: "modified", Additions: 10, Deletions: 2, Patch: "@@ -1 +1 @@"},
		},
	}
}

func testRepo(name string, fork bool) github.Repository {
	return github.Repository{
		Name:     name,
		FullName: "octo/" + name,
		Fork:     fork,
		Language: "Rust",
		Owner:    github.RepositoryOwner{Login: "octo"},
	}
}

func analysisResult() *llm.AnalysisResult {
	return &llm.AnalysisResult{
		Skills: []llm.ExtractedSkill{
			{Name: "rust", Category: "language", ProficiencyLevel: "advanced", Confidence: 0.9},
		},
		ComplexityAssessment: llm.ComplexityAssessment{OverallScore: 6},
		QualityAssessment:    llm.QualityAssessment{CodeQuality: 7, TestingCoverage: 0.5, DocumentationQuality: 6},
		DomainSignals:        []string{"backend"},
	}
}

func TestAnalyzeUserEndToEnd(t *testing.T) {
	committedAt := time.Now().AddDate(0, 0, -10)
	source := &stubSource{
		user:  &github.User{Login: "octo", Name: "Octo Dev"},
		repos: []github.Repository{testRepo("widget", false), testRepo("forked", true)},
		commits: map[string][]github.Commit{
			"widget": {
				testCommit("a1", "add parser", committedAt),
				testCommit("a2", "fix parser", committedAt),
			},
		},
	}
	provider := &stubProvider{result: analysisResult()}
	store := &stubStore{}

	p := NewPipeline(source, provider, store, nil, zap.NewNop(), DefaultPipelineConfig())

	result, err := p.AnalyzeUser(context.Background(), "octo")
	require.NoError(t, err)

	assert.Equal(t, "octo", result.User.Login)
	assert.Equal(t, 2, result.TotalCommitsAnalyzed)

	// Forks are excluded by default.
	require.Len(t, result.Repositories, 1)
	assert.Equal(t, "octo/widget", result.Repositories[0].FullName)

	require.NotEmpty(t, result.Skills)
	assert.Equal(t, "rust", result.Skills[0].Skill.Name)
	assert.Equal(t, []string{"rust"}, result.Summary.PrimaryLanguages)

	require.Len(t, store.saved, 1)
	assert.Same(t, result, store.saved[0])

	// One batch covering both commits, with repository context attached.
	require.Len(t, provider.requests, 1)
	assert.Len(t, provider.requests[0].Commits, 2)
	assert.Equal(t, "octo/widget", provider.requests[0].Context.RepositoryName)
	assert.Equal(t, "Rust", provider.requests[0].Context.PrimaryLanguage)
}

func TestAnalyzeUserIncludesForksWhenConfigured(t *testing.T) {
	source := &stubSource{
		user:  &github.User{Login: "octo"},
		repos: []github.Repository{testRepo("widget", false), testRepo("forked", true)},
	}
	store := &stubStore{}

	cfg := DefaultPipelineConfig()
	cfg.IncludeForks = true
	p := NewPipeline(source, &stubProvider{result: analysisResult()}, store, nil, zap.NewNop(), cfg)

	result, err := p.AnalyzeUser(context.Background(), "octo")
	require.NoError(t, err)
	assert.Len(t, result.Repositories, 2)
}

func TestAnalyzeUserNoCommitsYieldsDefaultProfile(t *testing.T) {
	source := &stubSource{
		user:  &github.User{Login: "octo"},
		repos: []github.Repository{testRepo("widget", false)},
	}
	store := &stubStore{}

	p := NewPipeline(source, &stubProvider{result: analysisResult()}, store, nil, zap.NewNop(), DefaultPipelineConfig())

	result, err := p.AnalyzeUser(context.Background(), "octo")
	require.NoError(t, err)

	assert.Zero(t, result.TotalCommitsAnalyzed)
	assert.Empty(t, result.Skills)
	assert.Equal(t, profile.DefaultSummary(), result.Summary)

	// The default profile is still persisted.
	require.Len(t, store.saved, 1)
}

func TestAnalyzeUserSkipsFailingRepository(t *testing.T) {
	committedAt := time.Now().AddDate(0, 0, -5)
	source := &stubSource{
		user:  &github.User{Login: "octo"},
		repos: []github.Repository{testRepo("widget", false), testRepo("broken", false)},
		commits: map[string][]github.Commit{
			"widget": {testCommit("a1", "add parser", committedAt)},
		},
		listErr: map[string]error{"broken": errors.New("boom")},
	}
	store := &stubStore{}

	p := NewPipeline(source, &stubProvider{result: analysisResult()}, store, nil, zap.NewNop(), DefaultPipelineConfig())

	result, err := p.AnalyzeUser(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCommitsAnalyzed)
}

func TestAnalyzeUserDropsEmptyFileCommits(t *testing.T) {
	committedAt := time.Now().AddDate(0, 0, -5)
	empty := testCommit("e1", "merge branch", committedAt)
	empty.Files = nil

	source := &stubSource{
		user:  &github.User{Login: "octo"},
		repos: []github.Repository{testRepo("widget", false)},
		commits: map[string][]github.Commit{
			"widget": {empty, testCommit("a1", "add parser", committedAt)},
		},
	}
	store := &stubStore{}

	p := NewPipeline(source, &stubProvider{result: analysisResult()}, store, nil, zap.NewNop(), DefaultPipelineConfig())

	result, err := p.AnalyzeUser(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCommitsAnalyzed)
}

func TestAnalyzeUserSurvivesProviderFailure(t *testing.T) {
	committedAt := time.Now().AddDate(0, 0, -5)
	source := &stubSource{
		user:  &github.User{Login: "octo"},
		repos: []github.Repository{testRepo("widget", false)},
		commits: map[string][]github.Commit{
			"widget": {testCommit("a1", "add parser", committedAt)},
		},
	}
	store := &stubStore{}
	provider := &stubProvider{err: errors.New("model overloaded")}

	p := NewPipeline(source, provider, store, nil, zap.NewNop(), DefaultPipelineConfig())

	result, err := p.AnalyzeUser(context.Background(), "octo")
	require.NoError(t, err)

	// The batch failed, so no skills, but the profile is still produced
	// and saved with the commit count.
	assert.Equal(t, 1, result.TotalCommitsAnalyzed)
	assert.Empty(t, result.Skills)
	require.Len(t, store.saved, 1)
}

func TestAnalyzeUserUnknownUser(t *testing.T) {
	p := NewPipeline(&stubSource{}, &stubProvider{}, &stubStore{}, nil, zap.NewNop(), DefaultPipelineConfig())

	_, err := p.AnalyzeUser(context.Background(), "ghost")
	require.Error(t, err)

	var notFound *github.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
