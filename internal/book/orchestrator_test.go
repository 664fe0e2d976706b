package book

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge/internal/chapter"
	"bookforge/internal/db"
	"bookforge/internal/outline"
	"bookforge/internal/provider"
	"bookforge/internal/quality"
	"bookforge/internal/workspace"
)

const outlineText = "Chapter 1: First Steps\nGetting going.\n\nChapter 2: Going Further\nKeeping on."

// routingClient answers by task so one fake backend can serve a whole run.
type routingClient struct {
	prompts  []string
	failWith error
}

func (c *routingClient) Generate(_ context.Context, req provider.Request) (string, error) {
	c.prompts = append(c.prompts, req.Prompt)
	if c.failWith != nil {
		return "", c.failWith
	}

	switch req.Task {
	case provider.TaskOutline:
		return outlineText, nil
	case provider.TaskChapter, provider.TaskContinuation, provider.TaskRewrite:
		return strings.TrimSpace(strings.Repeat("word ", 60)), nil
	case provider.TaskAssessment:
		return "ORIGINALITY_SCORE: 9/10\nPLAGIARISM_RISK: LOW\nCOPYRIGHT_RISK: LOW\nISSUES_FOUND: none", nil
	}
	return "", fmt.Errorf("unexpected task %q", req.Task)
}

func (c *routingClient) Name() string { return "fake-model" }

func newTestOrchestrator(t *testing.T, client *routingClient, store *db.Store) (*Orchestrator, *workspace.Workspace) {
	t.Helper()

	ws, err := workspace.New(t.TempDir())
	require.NoError(t, err)

	selector := provider.NewSelector(provider.SelectorConfig{
		Candidates: []provider.Candidate{{Client: client}},
	})

	builder := outline.NewBuilder(outline.BuilderConfig{
		Generator: selector,
		Chapters:  2,
		MinWords:  50,
		MaxWords:  100,
	})

	pipeline := chapter.NewPipeline(chapter.Config{Generator: selector})

	gate := quality.NewGate(quality.Config{
		Generator: selector,
		Archiver:  ws,
		Extender:  pipeline,
	})

	orch := New(Config{
		Selector:  selector,
		Builder:   builder,
		Pipeline:  pipeline,
		Gate:      gate,
		Workspace: ws,
		Store:     store,
	})
	return orch, ws
}

func testStore(t *testing.T) *db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestRunFullPipeline(t *testing.T) {
	client := &routingClient{}
	store := testStore(t)
	orch, ws := newTestOrchestrator(t, client, store)

	stats, err := orch.Run(context.Background(), Params{
		Topic: "beekeeping", Genre: "how-to", Audience: "beginners",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ChaptersTotal)
	assert.Equal(t, 2, stats.ChaptersGenerated)
	assert.Zero(t, stats.ChaptersSkipped)
	assert.Equal(t, 120, stats.TotalWords)
	// 3 outline passes, 2 drafts, 2 assessments.
	assert.Equal(t, int64(7), stats.APICalls)
	assert.Empty(t, stats.BelowMinimum)
	assert.Empty(t, stats.StillFlagged)

	// Artifacts on disk.
	gotOutline, err := ws.ReadOutline()
	require.NoError(t, err)
	assert.Contains(t, gotOutline, "Chapter 1: First Steps")
	assert.True(t, ws.ChapterExists(1))
	assert.True(t, ws.ChapterExists(2))

	text, err := ws.ReadChapter(2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Chapter 2: Going Further\n\n"))

	// Run and chapters recorded.
	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "completed", runs[0].Status)
	assert.Equal(t, int64(120), runs[0].TotalWords)

	records, err := store.ListChaptersForRun(context.Background(), stats.RunID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(9), records[0].OriginalityScore)
}

func TestRunSecondChapterSeesFirst(t *testing.T) {
	client := &routingClient{}
	orch, _ := newTestOrchestrator(t, client, nil)

	_, err := orch.Run(context.Background(), Params{Topic: "t", Genre: "g", Audience: "a"})
	require.NoError(t, err)

	// Prompt order: 3 outline passes, draft 1, assess 1, draft 2, assess 2.
	require.Len(t, client.prompts, 7)
	draft2 := client.prompts[5]
	assert.Contains(t, draft2, "--- Chapter 1: First Steps ---")
	assert.Contains(t, draft2, "word word")
}

func TestRunResumeSkipsExistingChapters(t *testing.T) {
	client := &routingClient{}
	orch, ws := newTestOrchestrator(t, client, nil)

	require.NoError(t, ws.WriteOutline(outlineText))
	require.NoError(t, ws.WriteChapter(1, "First Steps", "existing chapter one text"))

	stats, err := orch.Run(context.Background(), Params{Topic: "t", Resume: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ChaptersSkipped)
	assert.Equal(t, 1, stats.ChaptersGenerated)

	// No outline calls on resume; chapter 2's draft sees the loaded text.
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[0], "existing chapter one text")
}

func TestRunResumeWithoutOutlineFails(t *testing.T) {
	client := &routingClient{}
	store := testStore(t)
	orch, _ := newTestOrchestrator(t, client, store)

	_, err := orch.Run(context.Background(), Params{Topic: "t", Resume: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume")

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "failed", runs[0].Status)
}

func TestRunFatalProviderErrorStopsRun(t *testing.T) {
	client := &routingClient{failWith: errors.New("backend down")}
	store := testStore(t)
	orch, _ := newTestOrchestrator(t, client, store)

	_, err := orch.Run(context.Background(), Params{Topic: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAllUnavailable)

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "failed", runs[0].Status)
}

func TestRunInterChapterCooldown(t *testing.T) {
	client := &routingClient{}
	orch, _ := newTestOrchestrator(t, client, nil)
	orch.cooldown = 5 * time.Second

	var slept []time.Duration
	orch.SetSleep(func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})

	_, err := orch.Run(context.Background(), Params{Topic: "t"})
	require.NoError(t, err)

	// One pause between the two chapters, none before the first.
	require.Len(t, slept, 1)
	assert.Equal(t, 5*time.Second, slept[0])
}
