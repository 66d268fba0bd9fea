package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"

	"github.com/sumedhk0/GitHubAnalyzer/internal/github"
	"github.com/sumedhk0/GitHubAnalyzer/internal/llm"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
	"github.com/sumedhk0/GitHubAnalyzer/internal/progress"
	"github.com/sumedhk0/GitHubAnalyzer/internal/taxonomy"
)

// CommitSource is the slice of the GitHub client the pipeline needs.
type CommitSource interface {
	GetUser(ctx context.Context, username string) (*github.User, error)
	ListRepositories(ctx context.Context, username string) ([]github.Repository, error)
	ListCommits(ctx context.Context, owner, repo, author string, maxCommits int) ([]github.CommitSummary, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*github.Commit, error)
}

// ProfileStore persists finished profiles.
type ProfileStore interface {
	SaveProfile(p *profile.UserProfile) error
}

// PipelineConfig tunes the fetch stage.
type PipelineConfig struct {
	MaxCommitsPerRepo int
	IncludeForks      bool
	Concurrency       int
}

// DefaultPipelineConfig matches the documented defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxCommitsPerRepo: 50,
		IncludeForks:      false,
		Concurrency:       5,
	}
}

// Pipeline drives the whole analysis: fetch, batch, generate, aggregate,
// rate, summarize, persist.
type Pipeline struct {
	source    CommitSource
	provider  llm.Provider
	store     ProfileStore
	batcher   *llm.Batcher
	extractor *Extractor
	engine    *Engine
	reporter  progress.Reporter
	logger    *zap.Logger
	cfg       PipelineConfig
}

func NewPipeline(source CommitSource, provider llm.Provider, store ProfileStore, reporter progress.Reporter, logger *zap.Logger, cfg PipelineConfig) *Pipeline {
	if reporter == nil {
		reporter = progress.Noop{}
	}
	return &Pipeline{
		source:    source,
		provider:  provider,
		store:     store,
		batcher:   llm.NewBatcher(provider.MaxContextTokens()),
		extractor: NewExtractor(taxonomy.New()),
		engine:    NewEngine(),
		reporter:  reporter,
		logger:    logger,
		cfg:       cfg,
	}
}

// repoFetchResult is the outcome for one repository: commits on success,
// err when the listing failed, both empty when nothing was analyzable.
type repoFetchResult struct {
	repo    github.Repository
	commits []github.Commit
	err     error
}

// AnalyzeUser runs the full pipeline for one account. A user with no
// analyzable commits still gets a default profile, saved and returned.
func (p *Pipeline) AnalyzeUser(ctx context.Context, username string) (*profile.UserProfile, error) {
	p.logger.Info("fetching profile", zap.String("username", username))
	user, err := p.source.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", username, err)
	}

	repos, err := p.source.ListRepositories(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch repositories: %w", err)
	}

	if !p.cfg.IncludeForks {
		kept := repos[:0]
		for _, r := range repos {
			if !r.Fork {
				kept = append(kept, r)
			}
		}
		repos = kept
	}
	p.logger.Info("repositories to analyze", zap.Int("count", len(repos)))

	fetched := p.fetchAllCommits(ctx, username, repos)

	totalCommits := 0
	for _, rc := range fetched {
		totalCommits += len(rc.commits)
	}
	p.logger.Info("commits fetched", zap.Int("count", totalCommits))

	result := &profile.UserProfile{
		User:         *user,
		Repositories: repos,
		AnalysisDate: time.Now().UTC(),
		Summary:      profile.DefaultSummary(),
	}

	if totalCommits == 0 {
		p.logger.Warn("no commits found", zap.String("username", username))
		if err := p.store.SaveProfile(result); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
		return result, nil
	}

	var forAnalysis []llm.CommitForAnalysis
	for _, rc := range fetched {
		for i := range rc.commits {
			forAnalysis = append(forAnalysis, prepareCommit(rc.repo, &rc.commits[i]))
		}
	}

	batches := p.batcher.CreateBatches(forAnalysis)
	p.logger.Info("batches created", zap.Int("count", len(batches)))

	analyzed := p.runAnalysis(ctx, batches, repos)
	p.logger.Info("batches analyzed", zap.Int("count", len(analyzed)))

	aggregated := p.extractor.AggregateSkills(analyzed)
	p.logger.Info("skills extracted", zap.Int("count", len(aggregated)))

	results := make([]*llm.AnalysisResult, len(analyzed))
	for i, batch := range analyzed {
		results[i] = batch.Result
	}

	ratings := p.engine.CalculateRatings(aggregated)

	result.TotalCommitsAnalyzed = totalCommits
	result.Skills = ratings
	result.Summary = p.engine.GenerateSummary(ratings, results)

	if err := p.store.SaveProfile(result); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	p.logger.Info("profile saved", zap.String("username", username))

	return result, nil
}

// fetchAllCommits pulls full commits for every repository with bounded
// concurrency. Each repository yields one result; failures and empty
// repositories are logged here and filtered out, so only successes flow on.
func (p *Pipeline) fetchAllCommits(ctx context.Context, username string, repos []github.Repository) []repoFetchResult {
	concurrency := p.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	swg := sizedwaitgroup.New(concurrency)
	results := make(chan repoFetchResult, len(repos))

	var mu sync.Mutex
	done := 0

	for _, repo := range repos {
		repo := repo
		swg.Add()
		go func() {
			defer swg.Done()
			defer func() {
				mu.Lock()
				done++
				p.reporter.RepoFetched(done, len(repos))
				mu.Unlock()
			}()

			commits, err := p.fetchRepoCommits(ctx, username, repo)
			results <- repoFetchResult{repo: repo, commits: commits, err: err}
		}()
	}

	swg.Wait()
	close(results)

	fetched := make([]repoFetchResult, 0, len(repos))
	for rc := range results {
		switch {
		case rc.err != nil:
			p.logger.Warn("skipping repository",
				zap.String("repo", rc.repo.FullName), zap.Error(rc.err))
		case len(rc.commits) == 0:
			p.logger.Debug("repository has no analyzable commits",
				zap.String("repo", rc.repo.FullName))
		default:
			fetched = append(fetched, rc)
		}
	}
	return fetched
}

func (p *Pipeline) fetchRepoCommits(ctx context.Context, username string, repo github.Repository) ([]github.Commit, error) {
	summaries, err := p.source.ListCommits(ctx, repo.Owner.Login, repo.Name, username, p.cfg.MaxCommitsPerRepo)
	if err != nil {
		return nil, err
	}

	commits := make([]github.Commit, 0, len(summaries))
	for _, summary := range summaries {
		full, err := p.source.GetCommit(ctx, repo.Owner.Login, repo.Name, summary.SHA)
		if err != nil {
			p.logger.Warn("skipping commit",
				zap.String("repo", repo.FullName),
				zap.String("sha", summary.SHA), zap.Error(err))
			continue
		}
		// Commits with no file changes carry no evidence.
		if len(full.Files) == 0 {
			continue
		}
		commits = append(commits, *full)
	}
	return commits, nil
}

// runAnalysis sends batches to the generation collaborator sequentially.
// A failed batch is logged and dropped; the rest still count.
func (p *Pipeline) runAnalysis(ctx context.Context, batches [][]llm.CommitForAnalysis, repos []github.Repository) []AnalyzedBatch {
	byFullName := make(map[string]github.Repository, len(repos))
	for _, r := range repos {
		byFullName[r.FullName] = r
	}

	analyzed := make([]AnalyzedBatch, 0, len(batches))
	for i, batch := range batches {
		if len(batch) == 0 {
			continue
		}

		request := &llm.AnalysisRequest{
			Commits: batch,
			Context: batchContext(batch[0], byFullName),
		}

		result, err := p.provider.AnalyzeCommits(ctx, request)
		if err != nil {
			p.logger.Warn("batch analysis failed",
				zap.Int("batch", i), zap.Error(err))
		} else {
			analyzed = append(analyzed, AnalyzedBatch{Result: result, Commits: batch})
		}

		p.reporter.BatchAnalyzed(i+1, len(batches))
	}
	return analyzed
}

// batchContext describes the repository of the batch's first commit.
func batchContext(first llm.CommitForAnalysis, byFullName map[string]github.Repository) llm.AnalysisContext {
	repo, ok := byFullName[first.Repository]
	if !ok {
		return llm.AnalysisContext{RepositoryName: first.Repository}
	}
	return llm.AnalysisContext{
		RepositoryName:        first.Repository,
		RepositoryDescription: repo.Description,
		PrimaryLanguage:       repo.Language,
	}
}

func prepareCommit(repo github.Repository, commit *github.Commit) llm.CommitForAnalysis {
	files := make([]llm.FileForAnalysis, 0, len(commit.Files))
	for _, f := range commit.Files {
		if f.Patch == "" {
			continue
		}
		files = append(files, llm.FileForAnalysis{
			Filename:  f.Filename,
			Language:  taxonomy.DetectLanguage(f.Filename),
			Diff:      f.Patch,
			Additions: f.Additions,
			Deletions: f.Deletions,
		})
	}

	return llm.CommitForAnalysis{
		SHA:         commit.SHA,
		Repository:  repo.FullName,
		Message:     commit.Commit.Message,
		Additions:   commit.Stats.Additions,
		Deletions:   commit.Stats.Deletions,
		Files:       files,
		CommittedAt: commit.Commit.Author.Date,
	}
}
