package analysis

import (
	"github.com/sumedhk0/GitHubAnalyzer/internal/llm"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
	"github.com/sumedhk0/GitHubAnalyzer/internal/taxonomy"
)

// AnalyzedBatch pairs one generation result with the commits it covered.
type AnalyzedBatch struct {
	Result  *llm.AnalysisResult
	Commits []llm.CommitForAnalysis
}

// Extractor folds generation results into per-skill evidence buckets.
type Extractor struct {
	taxonomy *taxonomy.Taxonomy
}

func NewExtractor(tax *taxonomy.Taxonomy) *Extractor {
	return &Extractor{taxonomy: tax}
}

// AggregateSkills buckets every skill mention by canonical identity. Each
// commit of a batch contributes one occurrence per mentioned skill, and the
// batch's overall complexity and code-quality scores are pushed once per
// (skill, commit) pair: a commit evidencing several skills scores each.
func (e *Extractor) AggregateSkills(batches []AnalyzedBatch) map[string]*profile.AggregatedSkill {
	buckets := make(map[string]*profile.AggregatedSkill)

	for _, batch := range batches {
		for _, commit := range batch.Commits {
			linesChanged := commit.Additions + commit.Deletions

			for _, mention := range batch.Result.Skills {
				normalized := e.taxonomy.Normalize(mention.Name)
				category := e.taxonomy.Categorize(mention.Category)
				skill := e.taxonomy.Resolve(mention.Name, category)

				bucket, ok := buckets[normalized]
				if !ok {
					bucket = profile.NewAggregatedSkill(skill)
					buckets[normalized] = bucket
				}

				bucket.Occurrences = append(bucket.Occurrences, profile.SkillOccurrence{
					CommitSHA:         commit.SHA,
					Repository:        commit.Repository,
					Timestamp:         commit.CommittedAt,
					Evidence:          mention.Evidence,
					ProficiencySignal: mention.ProficiencyLevel,
					Confidence:        mention.Confidence,
					LinesChanged:      linesChanged,
				})
				bucket.TotalLines += linesChanged
				bucket.ComplexityScores = append(bucket.ComplexityScores, batch.Result.ComplexityAssessment.OverallScore)
				bucket.QualityScores = append(bucket.QualityScores, batch.Result.QualityAssessment.CodeQuality)
			}
		}
	}

	return buckets
}
