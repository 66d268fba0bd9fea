// Package llm batches prepared commits to fit a generation context window,
// talks to a text-generation provider and parses its structured response.
package llm

import (
	"context"
	"time"
)

// Provider is the capability a text-generation backend must offer. One
// request per batch, strictly sequential; only the concrete implementations
// below exist today but the set is open.
type Provider interface {
	AnalyzeCommits(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error)
	MaxContextTokens() int
	Name() string
}

// CommitForAnalysis is a commit prepared for a generation request.
type CommitForAnalysis struct {
	SHA         string
	Repository  string
	Message     string
	Additions   int
	Deletions   int
	Files       []FileForAnalysis
	CommittedAt time.Time
}

// FileForAnalysis is one changed file with its unified diff.
type FileForAnalysis struct {
	Filename  string
	Language  string
	Diff      string
	Additions int
	Deletions int
}

// AnalysisContext is per-batch metadata attached to a generation request.
// Derived, not persisted.
type AnalysisContext struct {
	RepositoryName        string
	RepositoryDescription string
	PrimaryLanguage       string
}

// AnalysisRequest carries one immutable batch plus its context.
type AnalysisRequest struct {
	Commits []CommitForAnalysis
	Context AnalysisContext
}

// AnalysisResult is the parsed response for one batch.
type AnalysisResult struct {
	Skills               []ExtractedSkill     `json:"skills"`
	Patterns             []DetectedPattern    `json:"patterns"`
	ComplexityAssessment ComplexityAssessment `json:"complexity_assessment"`
	QualityAssessment    QualityAssessment    `json:"quality_assessment"`
	DomainSignals        []string             `json:"domain_signals"`
	NotableAspects       []string             `json:"notable_aspects"`
}

// ExtractedSkill is one skill mention reported for a batch.
type ExtractedSkill struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	ProficiencyLevel string   `json:"proficiency_level"`
	Confidence       float64  `json:"confidence"`
	Evidence         []string `json:"evidence"`
}

// DetectedPattern is a design pattern or anti-pattern observation.
type DetectedPattern struct {
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	QualityImpact float64 `json:"quality_impact"`
}

// ComplexityAssessment scores the batch on 1-10 scales.
type ComplexityAssessment struct {
	OverallScore            float64 `json:"overall_score"`
	AlgorithmicComplexity   float64 `json:"algorithmic_complexity"`
	ArchitecturalComplexity float64 `json:"architectural_complexity"`
	Reasoning               string  `json:"reasoning"`
}

// QualityAssessment scores code quality signals for the batch.
type QualityAssessment struct {
	CodeQuality          float64  `json:"code_quality"`
	TestingCoverage      float64  `json:"testing_coverage"`
	DocumentationQuality float64  `json:"documentation_quality"`
	ErrorHandling        float64  `json:"error_handling"`
	Observations         []string `json:"observations"`
}
