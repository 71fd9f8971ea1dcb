// Package discovery implements ingredient-based recipe search: the primary
// candidate query, per-candidate detail and pairing enrichment, and the
// aggregation of both into ordered results.
package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
)

// Outcome tells whether an enrichment call produced data.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDegraded Outcome = "degraded"
)

// Metric source labels.
const (
	sourceDetails = "details"
	sourceDrink   = "drink"
	sourceDessert = "dessert"
)

// Details is the normalized detail payload of one recipe.
type Details struct {
	Ingredients  []string
	Instructions []string
	SourceURL    *string
}

func emptyDetails() Details {
	return Details{Ingredients: []string{}, Instructions: []string{}}
}

// DetailResult carries the details together with how they were obtained.
// Err holds the cause of a degraded outcome.
type DetailResult struct {
	Details Details
	Outcome Outcome
	Err     error
}

// DetailFetcher loads ingredients, instructions and source link for a
// recipe. It never fails: upstream problems yield empty details.
type DetailFetcher struct {
	client  outbound.RecipeSearchClient
	metrics outbound.DiscoveryMetrics
	timeout time.Duration
	logger  *zap.Logger
}

// NewDetailFetcher creates a detail fetcher. A zero timeout leaves the
// caller's deadline in charge.
func NewDetailFetcher(client outbound.RecipeSearchClient, metrics outbound.DiscoveryMetrics, timeout time.Duration, logger *zap.Logger) *DetailFetcher {
	if metrics == nil {
		metrics = outbound.NopDiscoveryMetrics{}
	}
	return &DetailFetcher{
		client:  client,
		metrics: metrics,
		timeout: timeout,
		logger:  logger.Named("detail-fetcher"),
	}
}

// Fetch retrieves details for recipeID.
func (f *DetailFetcher) Fetch(ctx context.Context, recipeID string) DetailResult {
	ctx, cancel := withOptionalTimeout(ctx, f.timeout)
	defer cancel()

	info, err := f.client.RecipeInformation(ctx, recipeID)
	if err != nil {
		f.logger.Warn("Recipe details unavailable",
			zap.String("recipe_id", recipeID),
			zap.String("source", sourceDetails),
			zap.Error(err),
		)
		f.metrics.ObserveEnrichment(sourceDetails, string(OutcomeDegraded))
		return DetailResult{Details: emptyDetails(), Outcome: OutcomeDegraded, Err: err}
	}

	details := Details{
		Ingredients:  nonBlank(info.Ingredients),
		Instructions: SplitInstructions(info.Instructions),
	}
	if info.SourceURL != "" {
		source := info.SourceURL
		details.SourceURL = &source
	}

	f.metrics.ObserveEnrichment(sourceDetails, string(OutcomeSuccess))
	return DetailResult{Details: details, Outcome: OutcomeSuccess}
}

// SplitInstructions breaks newline-delimited instruction text into steps,
// dropping blank lines.
func SplitInstructions(text string) []string {
	steps := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
