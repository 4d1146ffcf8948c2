// Package harvest consumes the mention feed, scores each mention, and
// persists scored mentions in batches.
package harvest

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/scoring"
	"pumpwatch/internal/storage"
)

// Batching defaults.
const (
	DefaultBatchSize     = 500
	DefaultFlushInterval = 5 * time.Second

	// highEngagementFloor is the combined counter total above which a
	// mention counts as high engagement for scoring context.
	highEngagementFloor = 100
)

// defaultPromotionSources are community names where promotion density is
// high enough to bias the score.
var defaultPromotionSources = []string{
	"pennystocks",
	"wallstreetbetsnew",
	"stockspiking",
}

// Runner scores mentions off a feed channel and writes them in batches.
type Runner struct {
	store            storage.MentionStore
	scorer           *scoring.Scorer
	threshold        int
	batchSize        int
	flushInterval    time.Duration
	promotionSources map[string]struct{}
	logger           *log.Logger
}

// NewRunner creates a harvest runner with default scoring and batching.
func NewRunner(store storage.MentionStore) *Runner {
	r := &Runner{
		store:         store,
		scorer:        scoring.NewScorer(nil),
		threshold:     scoring.DefaultPromotionThreshold,
		batchSize:     DefaultBatchSize,
		flushInterval: DefaultFlushInterval,
		logger:        log.New(io.Discard, "", 0),
	}
	r.promotionSources = make(map[string]struct{})
	for _, source := range defaultPromotionSources {
		r.promotionSources[source] = struct{}{}
	}
	return r
}

// WithScorer sets a custom scorer.
func (r *Runner) WithScorer(scorer *scoring.Scorer) *Runner {
	r.scorer = scorer
	return r
}

// WithThreshold sets the promotional classification cutoff.
func (r *Runner) WithThreshold(threshold int) *Runner {
	r.threshold = threshold
	return r
}

// WithBatchSize sets the insert batch size.
func (r *Runner) WithBatchSize(size int) *Runner {
	r.batchSize = size
	return r
}

// WithFlushInterval sets the maximum time a partial batch is held.
func (r *Runner) WithFlushInterval(interval time.Duration) *Runner {
	r.flushInterval = interval
	return r
}

// WithPromotionSources replaces the promotion-heavy community list.
func (r *Runner) WithPromotionSources(sources []string) *Runner {
	r.promotionSources = make(map[string]struct{}, len(sources))
	for _, source := range sources {
		r.promotionSources[strings.ToLower(source)] = struct{}{}
	}
	return r
}

// WithLogger sets a custom logger.
func (r *Runner) WithLogger(logger *log.Logger) *Runner {
	r.logger = logger
	return r
}

// Run consumes mentions until the channel closes or the context is canceled.
// Mentions are scored as they arrive and written in batches of batchSize,
// or sooner when the flush interval elapses. The pending batch is flushed
// before returning, including on cancellation.
func (r *Runner) Run(ctx context.Context, mentions <-chan domain.SocialMention) error {
	batch := make([]*domain.SocialMention, 0, r.batchSize)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case mention, ok := <-mentions:
			if !ok {
				return r.flush(context.WithoutCancel(ctx), &batch)
			}
			scored := r.ScoreMention(mention)
			batch = append(batch, scored)
			if len(batch) >= r.batchSize {
				if err := r.flush(ctx, &batch); err != nil {
					return err
				}
			}

		case <-ticker.C:
			if err := r.flush(ctx, &batch); err != nil {
				return err
			}

		case <-ctx.Done():
			if err := r.flush(context.WithoutCancel(ctx), &batch); err != nil {
				return err
			}
			return ctx.Err()
		}
	}
}

// ScoreMention scores one mention and returns a copy with the score fields
// populated. The input is not modified.
func (r *Runner) ScoreMention(mention domain.SocialMention) *domain.SocialMention {
	text := mention.Title
	if mention.Content != "" {
		text = text + "\n" + mention.Content
	}

	_, promoSource := r.promotionSources[strings.ToLower(mention.Source)]
	result := r.scorer.Score(text, &scoring.Context{
		IsPromotionSubreddit: promoSource,
		HasHighEngagement:    totalEngagement(mention.Engagement) >= highEngagementFloor,
	})

	mention.PromotionScore = result.Score
	mention.IsPromotional = result.Score >= r.threshold
	mention.RedFlags = result.Flags

	observability.RecordMentionScored(mention.Platform, result.Score, mention.IsPromotional)
	return &mention
}

// flush writes the pending batch and resets it.
func (r *Runner) flush(ctx context.Context, batch *[]*domain.SocialMention) error {
	if len(*batch) == 0 {
		return nil
	}

	start := time.Now()
	err := r.store.InsertBulk(ctx, *batch)
	observability.RecordDBQuery("clickhouse", "insert_mentions", time.Since(start).Seconds(), err)
	if err != nil {
		observability.RecordHarvestError("store_insert")
		return fmt.Errorf("insert mention batch: %w", err)
	}

	observability.DefaultMetrics.MentionsStored.Add(float64(len(*batch)))
	observability.DefaultMetrics.LastSuccessfulHarvest.SetToCurrentTime()
	r.logger.Printf("stored %d mentions", len(*batch))

	*batch = (*batch)[:0]
	return nil
}

func totalEngagement(e domain.Engagement) int {
	return e.Upvotes + e.Comments + e.Likes + e.Shares
}
