package llm

import (
	"sort"
	"strings"
)

const (
	// Reserved for the system prompt (~1000 tokens) and response headroom
	// (~3000 tokens).
	reservedTokens = 4000

	// Heuristic: ~4 characters per token, plus fixed formatting overhead
	// per commit.
	charsPerToken     = 4
	perCommitOverhead = 100

	// Character overhead charged when truncating: commit message plus
	// fixed framing, and per admitted file its filename plus framing.
	truncateCommitOverhead = 200
	truncateFileOverhead   = 50

	truncationMarker = "\n... [truncated]"
)

// Batcher packs prepared commits into batches whose estimated token cost
// fits the provider's context window.
type Batcher struct {
	maxTokens int
}

// NewBatcher sizes the batcher for a provider context window.
func NewBatcher(maxContextTokens int) *Batcher {
	return &Batcher{maxTokens: maxContextTokens}
}

// CreateBatches packs commits in order. Non-oversized commits keep their
// relative order across batch boundaries; a commit whose estimate alone
// exceeds the budget is file-truncated and emitted as its own single-item
// batch. No emitted batch is empty. The input sequence's order is whatever
// the caller produced; nothing here reorders commits.
func (b *Batcher) CreateBatches(commits []CommitForAnalysis) [][]CommitForAnalysis {
	available := b.maxTokens - reservedTokens
	if available < 0 {
		available = 0
	}

	var batches [][]CommitForAnalysis
	var current []CommitForAnalysis
	currentTokens := 0

	for _, commit := range commits {
		tokens := estimateCommitTokens(commit)

		if tokens > available {
			if len(current) > 0 {
				batches = append(batches, current)
				current = nil
				currentTokens = 0
			}
			batches = append(batches, []CommitForAnalysis{truncateCommit(commit, available)})
			continue
		}

		if currentTokens+tokens > available && len(current) > 0 {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}

		current = append(current, commit)
		currentTokens += tokens
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}

func estimateCommitTokens(commit CommitForAnalysis) int {
	chars := len(commit.Message)
	for _, file := range commit.Files {
		chars += len(file.Filename) + len(file.Diff)
	}
	return chars/charsPerToken + perCommitOverhead
}

// truncateCommit fits an oversized commit into maxTokens by walking its
// files in priority order, keeping each diff's leading portion that still
// fits and dropping files once the character pool is exhausted.
func truncateCommit(commit CommitForAnalysis, maxTokens int) CommitForAnalysis {
	maxChars := maxTokens * charsPerToken
	pool := maxChars - len(commit.Message) - truncateCommitOverhead
	if pool < 0 {
		pool = 0
	}

	files := make([]FileForAnalysis, len(commit.Files))
	copy(files, commit.Files)
	sort.SliceStable(files, func(i, j int) bool {
		return filePriority(files[i].Filename) > filePriority(files[j].Filename)
	})

	used := 0
	kept := files[:0]
	for _, file := range files {
		room := pool - used - len(file.Filename) - truncateFileOverhead
		if room <= 0 {
			break
		}
		if len(file.Diff) > room {
			keep := room - len(truncationMarker)
			if keep < 0 {
				keep = 0
			}
			file.Diff = file.Diff[:keep] + truncationMarker
		}
		used += len(file.Filename) + truncateFileOverhead + len(file.Diff)
		kept = append(kept, file)
	}

	commit.Files = kept
	return commit
}

// filePriority orders files by how much signal their diffs carry for skill
// extraction. Lock files rank lowest, primary source highest.
func filePriority(filename string) int {
	ext := filename
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		ext = filename[idx+1:]
	}
	switch strings.ToLower(ext) {
	case "rs", "py", "ts", "js", "go", "java", "cpp", "c", "rb", "swift", "kt":
		return 100
	case "tsx", "jsx", "vue", "svelte":
		return 90
	case "sql", "graphql":
		return 80
	case "yaml", "yml", "toml", "json":
		return 50
	case "md", "txt", "rst":
		return 30
	case "lock":
		return 0
	default:
		return 40
	}
}
