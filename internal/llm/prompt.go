package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed system_prompt.md
var systemPrompt string

// Each file's diff is capped when rendered into the prompt, regardless of
// what the batcher already did, to bound single-file blowups.
const maxRenderedDiffChars = 3000

// SystemPrompt is the fixed instruction sent with every batch.
func SystemPrompt() string {
	return systemPrompt
}

// Prompt renders the request into the user message for the provider.
func (r *AnalysisRequest) Prompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following %d commit(s) from repository '%s'",
		len(r.Commits), r.Context.RepositoryName)
	if desc := r.Context.RepositoryDescription; desc != "" {
		fmt.Fprintf(&b, " (%s)", desc)
	}
	b.WriteString(":\n\n")

	for _, commit := range r.Commits {
		fmt.Fprintf(&b, "## Commit: %s\n", shortSHA(commit.SHA))
		fmt.Fprintf(&b, "Message: %s\n", firstLine(commit.Message))
		fmt.Fprintf(&b, "Stats: +%d -%d\n\n", commit.Additions, commit.Deletions)

		for _, file := range commit.Files {
			fmt.Fprintf(&b, "### File: %s", file.Filename)
			if file.Language != "" {
				fmt.Fprintf(&b, " (%s)", file.Language)
			}
			b.WriteString("\n```\n")
			diff := file.Diff
			if len(diff) > maxRenderedDiffChars {
				diff = diff[:maxRenderedDiffChars] + "...\n[truncated]"
			}
			b.WriteString(diff)
			b.WriteString("\n```\n\n")
		}
	}

	b.WriteString("\nProvide your analysis as JSON:\n")
	return b.String()
}

// EstimateTokens is a rough request size estimate at ~4 chars per token.
func (r *AnalysisRequest) EstimateTokens() int {
	chars := 0
	for _, commit := range r.Commits {
		chars += len(commit.Message)
		for _, file := range commit.Files {
			chars += len(file.Filename) + len(file.Diff)
		}
	}
	return chars / 4
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
