// Package pipeline provides the high-level orchestration for the signal lifecycle.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/signal-scout/internal/classify"
	"github.com/jonathan/signal-scout/internal/collect"
	"github.com/jonathan/signal-scout/internal/db"
	"github.com/jonathan/signal-scout/internal/filter"
	"github.com/jonathan/signal-scout/internal/notion"
	"github.com/jonathan/signal-scout/internal/observability"
	"github.com/jonathan/signal-scout/internal/types"
)

// Store is the persistence surface the pipeline depends on. *db.DB
// implements it; tests substitute an in-memory fake.
type Store interface {
	SaveSignal(ctx context.Context, signal *types.Signal) (*types.StoredSignal, bool, error)
	MarkPendingFilter(ctx context.Context, signalID uuid.UUID) error
	ListSignalsByStatus(ctx context.Context, limit int, statuses ...types.SignalStatus) ([]types.StoredSignal, error)
	RecordFilterResult(ctx context.Context, signalID uuid.UUID, result *types.FilterResult) error
	ListFilterResults(ctx context.Context, signalID uuid.UUID) ([]types.FilterResult, error)
	MarkPushed(ctx context.Context, signalID uuid.UUID, pageID string) error
	GetSignalByNotionPage(ctx context.Context, pageID string) (*types.StoredSignal, error)
	RecordUserAction(ctx context.Context, action *types.UserAction) error
	StartCollectorRun(ctx context.Context, source types.SourceAPI) (uuid.UUID, error)
	CompleteCollectorRun(ctx context.Context, runID uuid.UUID, found, newCount int, errMsg string) error
}

// Inbox is the review-inbox surface the pipeline depends on. *notion.Client
// implements it.
type Inbox interface {
	PushSignal(ctx context.Context, stored *types.StoredSignal, result *types.FilterResult) (string, error)
	PollDecisions(ctx context.Context) ([]notion.DecisionRecord, error)
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Pipeline stage names used in progress events
const (
	StageCollect = "collect"
	StageFilter  = "filter"
	StagePush    = "push"
	StagePoll    = "poll"
)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Collectors    []collect.Collector
	Store         Store
	Classifier    classify.Classifier
	Inbox         Inbox
	FilterLimit   int // max signals evaluated per filter pass, 0 for default
	FilterWorkers int // concurrent classifier calls, 0 for default
	Verbose       bool
	OnProgress    ProgressCallback
}

const (
	defaultFilterLimit   = 200
	defaultFilterWorkers = 4
)

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, stage, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Stage: stage, Message: message, Content: content})
	}
}

// CollectStats summarizes one collection stage
type CollectStats struct {
	Found    int
	New      int
	Failures int
}

// FilterStats summarizes one filter stage
type FilterStats struct {
	Evaluated    int
	AutoRejected int
	LLMRejected  int
	Review       int
	AutoApproved int
	Errors       int
}

// PushStats summarizes one push stage
type PushStats struct {
	Pushed int
	Failed int
}

// PollStats summarizes one decision sync stage
type PollStats struct {
	Synced    int
	Conflicts int
	Unknown   int
}

// RunPipeline runs all four stages in order: collect, filter, push, poll.
// Each stage reads its input from stored signal state rather than from the
// previous stage's output, so a failed run picks up where the last one
// left off.
func RunPipeline(ctx context.Context, opts RunOptions) error {
	fmt.Printf("Stage 1/4: Collecting signals from %d sources...\n", len(opts.Collectors))
	collectStats, err := RunCollect(ctx, opts)
	if err != nil {
		return fmt.Errorf("collect stage failed: %w", err)
	}
	fmt.Printf("Collected %d signals (%d new, %d source failures)\n",
		collectStats.Found, collectStats.New, collectStats.Failures)

	fmt.Printf("Stage 2/4: Filtering unprocessed signals...\n")
	filterStats, err := RunFilter(ctx, opts)
	if err != nil {
		return fmt.Errorf("filter stage failed: %w", err)
	}
	fmt.Printf("Evaluated %d signals (%d auto-rejected, %d llm-rejected, %d review, %d auto-approved, %d errors)\n",
		filterStats.Evaluated, filterStats.AutoRejected, filterStats.LLMRejected,
		filterStats.Review, filterStats.AutoApproved, filterStats.Errors)

	fmt.Printf("Stage 3/4: Pushing qualified signals to review inbox...\n")
	pushStats, err := RunPush(ctx, opts)
	if err != nil {
		return fmt.Errorf("push stage failed: %w", err)
	}
	fmt.Printf("Pushed %d signals (%d failed)\n", pushStats.Pushed, pushStats.Failed)

	fmt.Printf("Stage 4/4: Syncing reviewer decisions...\n")
	pollStats, err := RunPoll(ctx, opts)
	if err != nil {
		return fmt.Errorf("poll stage failed: %w", err)
	}
	fmt.Printf("Synced %d decisions (%d conflicts, %d unknown pages)\n",
		pollStats.Synced, pollStats.Conflicts, pollStats.Unknown)

	fmt.Printf("Done!\n")
	return nil
}

// RunCollect runs every configured collector in parallel and stores what
// they find. A failing source is recorded on its collector run and does not
// abort the other sources.
func RunCollect(ctx context.Context, opts RunOptions) (CollectStats, error) {
	var stats CollectStats
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)

	for _, collector := range opts.Collectors {
		collector := collector
		g.Go(func() error {
			found, newCount, err := collectOne(gCtx, opts, collector)
			mu.Lock()
			stats.Found += found
			stats.New += newCount
			if err != nil {
				stats.Failures++
			}
			mu.Unlock()
			if err != nil {
				// Already recorded on the collector run; keep the stage alive.
				fmt.Fprintf(os.Stderr, "Warning: collector %s failed: %v\n", collector.Source(), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// collectOne runs one collector pass end to end, bracketed by its telemetry row.
func collectOne(ctx context.Context, opts RunOptions, collector collect.Collector) (found, newCount int, err error) {
	runID, runErr := opts.Store.StartCollectorRun(ctx, collector.Source())
	if runErr != nil {
		return 0, 0, fmt.Errorf("failed to start collector run: %w", runErr)
	}

	signals, collectErr := collector.Collect(ctx)
	found = len(signals)

	for i := range signals {
		stored, isNew, saveErr := opts.Store.SaveSignal(ctx, &signals[i])
		if saveErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to store signal %s/%s: %v\n",
				signals[i].SourceAPI, signals[i].SourceID, saveErr)
			continue
		}
		if isNew {
			newCount++
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Stored new signal %s: %s\n", stored.ID, stored.Signal.Title)
			}
		}
	}

	errMsg := ""
	if collectErr != nil {
		errMsg = collectErr.Error()
	}
	if completeErr := opts.Store.CompleteCollectorRun(ctx, runID, found, newCount, errMsg); completeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to complete collector run %s: %v\n", runID, completeErr)
	}

	emitProgress(&opts, StageCollect,
		fmt.Sprintf("Collected %d signals from %s (%d new)", found, collector.Source(), newCount), nil)
	return found, newCount, collectErr
}

// RunFilter evaluates stored signals that have not been routed yet. New
// signals are claimed into pending_filter first; signals already pending
// (stranded by a crash or a classifier outage) are picked up as-is, which
// is what makes classification errors retryable.
func RunFilter(ctx context.Context, opts RunOptions) (FilterStats, error) {
	limit := opts.FilterLimit
	if limit <= 0 {
		limit = defaultFilterLimit
	}
	workers := opts.FilterWorkers
	if workers <= 0 {
		workers = defaultFilterWorkers
	}

	signals, err := opts.Store.ListSignalsByStatus(ctx, limit, types.StatusNew, types.StatusPendingFilter)
	if err != nil {
		return FilterStats{}, fmt.Errorf("failed to list unfiltered signals: %w", err)
	}

	pipeline := filter.New(opts.Classifier)
	printer := observability.NewPrinter(os.Stdout)

	var stats FilterStats
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range signals {
		stored := signals[i]
		g.Go(func() error {
			if stored.Status == types.StatusNew {
				if err := opts.Store.MarkPendingFilter(gCtx, stored.ID); err != nil {
					// Another worker claimed it first.
					fmt.Fprintf(os.Stderr, "Warning: failed to claim signal %s: %v\n", stored.ID, err)
					return nil
				}
				stored.Status = types.StatusPendingFilter
			}

			result := pipeline.Evaluate(gCtx, &stored)
			if err := opts.Store.RecordFilterResult(gCtx, stored.ID, &result); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record filter result for %s: %v\n", stored.ID, err)
				return nil
			}

			if opts.Verbose {
				printer.PrintFilterResult(&stored, &result)
			}
			emitProgress(&opts, StageFilter,
				fmt.Sprintf("Signal %s: %s", stored.ID, result.ResultType), &result)

			mu.Lock()
			stats.Evaluated++
			switch result.ResultType {
			case types.ResultAutoReject:
				stats.AutoRejected++
			case types.ResultLLMReject:
				stats.LLMRejected++
			case types.ResultLLMReview:
				stats.Review++
			case types.ResultLLMAutoApprove:
				stats.AutoApproved++
			case types.ResultClassificationError:
				stats.Errors++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// RunPush sends every qualified signal that is not yet in the inbox. Push
// and the in_notion transition are separate operations, so a crash between
// them re-pushes on the next run; the reviewer-side duplicate is visible
// and preferable to a signal that silently never arrives.
func RunPush(ctx context.Context, opts RunOptions) (PushStats, error) {
	signals, err := opts.Store.ListSignalsByStatus(ctx, 0, types.StatusLLMReview, types.StatusLLMApproved)
	if err != nil {
		return PushStats{}, fmt.Errorf("failed to list qualified signals: %w", err)
	}

	var stats PushStats
	for i := range signals {
		stored := signals[i]

		result, err := latestRoutingResult(ctx, opts.Store, stored.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: no filter result for signal %s: %v\n", stored.ID, err)
			stats.Failed++
			continue
		}

		pageID, err := opts.Inbox.PushSignal(ctx, &stored, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to push signal %s: %v\n", stored.ID, err)
			stats.Failed++
			continue
		}

		if err := opts.Store.MarkPushed(ctx, stored.ID, pageID); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to mark signal %s pushed: %v\n", stored.ID, err)
			stats.Failed++
			continue
		}

		stats.Pushed++
		if opts.Verbose {
			fmt.Printf("[VERBOSE] Pushed signal %s as page %s\n", stored.ID, pageID)
		}
		emitProgress(&opts, StagePush,
			fmt.Sprintf("Pushed signal %s to review inbox", stored.ID), nil)
	}

	return stats, nil
}

// latestRoutingResult returns the most recent filter result that actually
// routed the signal, skipping classification_error audit rows.
func latestRoutingResult(ctx context.Context, store Store, signalID uuid.UUID) (*types.FilterResult, error) {
	results, err := store.ListFilterResults(ctx, signalID)
	if err != nil {
		return nil, err
	}
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].ResultType != types.ResultClassificationError {
			return &results[i], nil
		}
	}
	return nil, fmt.Errorf("signal %s has no routing filter result", signalID)
}

// RunPoll reads reviewer decisions from the inbox and applies them. A page
// that does not map back to a signal is skipped, and a decision that
// conflicts with one already recorded is reported but never overwrites it.
func RunPoll(ctx context.Context, opts RunOptions) (PollStats, error) {
	records, err := opts.Inbox.PollDecisions(ctx)
	if err != nil {
		return PollStats{}, fmt.Errorf("failed to poll decisions: %w", err)
	}

	var stats PollStats
	for _, record := range records {
		if !record.Decision.Valid() {
			// Reviewers can add arbitrary select options in the inbox;
			// anything outside the enum must never finalize a signal.
			fmt.Fprintf(os.Stderr, "Warning: page %s has unknown decision %q, skipping\n",
				record.PageID, record.Decision)
			stats.Unknown++
			continue
		}

		stored, err := opts.Store.GetSignalByNotionPage(ctx, record.PageID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to look up page %s: %v\n", record.PageID, err)
			stats.Unknown++
			continue
		}
		if stored == nil {
			fmt.Fprintf(os.Stderr, "Warning: page %s does not map to a stored signal\n", record.PageID)
			stats.Unknown++
			continue
		}

		action := &types.UserAction{
			SignalID:        stored.ID,
			Decision:        record.Decision,
			RejectionReason: record.RejectionReason,
			Notes:           record.Notes,
			SyncedAt:        time.Now().UTC(),
		}
		if err := opts.Store.RecordUserAction(ctx, action); err != nil {
			var conflict *db.ConflictingDecisionError
			if errors.As(err, &conflict) {
				fmt.Fprintf(os.Stderr, "Warning: conflicting decision for signal %s: %v\n", stored.ID, err)
				stats.Conflicts++
				continue
			}
			fmt.Fprintf(os.Stderr, "Warning: failed to record decision for signal %s: %v\n", stored.ID, err)
			stats.Unknown++
			continue
		}

		stats.Synced++
		if opts.Verbose {
			fmt.Printf("[VERBOSE] Synced %s decision for signal %s\n", record.Decision, stored.ID)
		}
		emitProgress(&opts, StagePoll,
			fmt.Sprintf("Recorded %s decision for signal %s", record.Decision, stored.ID), nil)
	}

	return stats, nil
}
