package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitOfSize builds a commit whose token estimate is close to tokens.
func commitOfSize(sha string, tokens int) CommitForAnalysis {
	diffChars := (tokens - perCommitOverhead) * charsPerToken
	return CommitForAnalysis{
		SHA:        sha,
		Repository: "octo/widget",
		Message:    "change",
		Files: []FileForAnalysis{
			{Filename: "main.go", Diff: strings.Repeat("x", diffChars-len("main.go")-len("change"))},
		},
	}
}

func TestCreateBatchesPacksWithinBudget(t *testing.T) {
	// available budget: 9000 - 4000 = 5000 tokens
	b := NewBatcher(9000)

	commits := []CommitForAnalysis{
		commitOfSize("c1", 2000),
		commitOfSize("c2", 2000),
		commitOfSize("c3", 2000),
	}

	batches := b.CreateBatches(commits)

	require.Len(t, batches, 2)
	require.Len(t, batches[0], 2)
	require.Len(t, batches[1], 1)
	assert.Equal(t, "c1", batches[0][0].SHA)
	assert.Equal(t, "c2", batches[0][1].SHA)
	assert.Equal(t, "c3", batches[1][0].SHA)
}

func TestCreateBatchesNeverEmitsEmptyBatch(t *testing.T) {
	b := NewBatcher(9000)

	batches := b.CreateBatches(nil)
	assert.Empty(t, batches)

	batches = b.CreateBatches([]CommitForAnalysis{commitOfSize("c1", 100)})
	require.Len(t, batches, 1)
	for _, batch := range batches {
		assert.NotEmpty(t, batch)
	}
}

func TestCreateBatchesIsolatesOversizedCommit(t *testing.T) {
	b := NewBatcher(9000)

	commits := []CommitForAnalysis{
		commitOfSize("c1", 1000),
		commitOfSize("huge", 8000),
		commitOfSize("c2", 1000),
	}

	batches := b.CreateBatches(commits)

	require.Len(t, batches, 3)
	assert.Equal(t, "c1", batches[0][0].SHA)
	require.Len(t, batches[1], 1)
	assert.Equal(t, "huge", batches[1][0].SHA)
	assert.Equal(t, "c2", batches[2][0].SHA)

	// The oversized commit must have been cut down to the character budget.
	huge := batches[1][0]
	chars := len(huge.Message)
	for _, f := range huge.Files {
		chars += len(f.Filename) + len(f.Diff)
	}
	assert.LessOrEqual(t, chars, 5000*charsPerToken)
}

func TestTruncateCommitPrefersSourceFiles(t *testing.T) {
	commit := CommitForAnalysis{
		SHA:     "c1",
		Message: "bump deps",
		Files: []FileForAnalysis{
			{Filename: "Cargo.lock", Diff: strings.Repeat("l", 3000)},
			{Filename: "engine.rs", Diff: strings.Repeat("r", 500)},
		},
	}

	// Pool of roughly 600 usable characters after overheads. The source
	// file must survive intact while the lock file is dropped.
	truncated := truncateCommit(commit, (600+len(commit.Message)+truncateCommitOverhead)/charsPerToken)

	require.Len(t, truncated.Files, 1)
	assert.Equal(t, "engine.rs", truncated.Files[0].Filename)
	assert.Equal(t, strings.Repeat("r", 500), truncated.Files[0].Diff)
}

func TestTruncateCommitAppendsMarker(t *testing.T) {
	commit := CommitForAnalysis{
		SHA:     "c1",
		Message: "rework",
		Files: []FileForAnalysis{
			{Filename: "engine.rs", Diff: strings.Repeat("r", 10000)},
		},
	}

	maxTokens := 200
	truncated := truncateCommit(commit, maxTokens)

	require.Len(t, truncated.Files, 1)
	diff := truncated.Files[0].Diff
	assert.True(t, strings.HasSuffix(diff, truncationMarker))

	pool := maxTokens*charsPerToken - len(commit.Message) - truncateCommitOverhead
	room := pool - len("engine.rs") - truncateFileOverhead
	assert.LessOrEqual(t, len(diff), room)
}
