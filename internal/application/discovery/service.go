package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCandidateLimit is how many candidates the primary search asks for.
const DefaultCandidateLimit = 10

// Options tunes the orchestrator.
type Options struct {
	// CandidateLimit is passed to the search provider as the result count.
	CandidateLimit int
	// MaxConcurrency caps concurrently enriched candidates; 0 means no cap.
	MaxConcurrency int
	// Clock stamps CreatedAt and UpdatedAt.
	Clock func() time.Time
}

// Service is the search orchestrator.
type Service struct {
	search   outbound.RecipeSearchClient
	details  *DetailFetcher
	pairings *PairingFetcher
	opts     Options
	metrics  outbound.DiscoveryMetrics
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewService creates the discovery service
func NewService(
	search outbound.RecipeSearchClient,
	details *DetailFetcher,
	pairings *PairingFetcher,
	opts Options,
	metrics outbound.DiscoveryMetrics,
	logger *zap.Logger,
) inbound.DiscoveryService {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = DefaultCandidateLimit
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if metrics == nil {
		metrics = outbound.NopDiscoveryMetrics{}
	}
	return &Service{
		search:   search,
		details:  details,
		pairings: pairings,
		opts:     opts,
		metrics:  metrics,
		tracer:   otel.Tracer("github.com/alchemorsel/recipe-explorer/discovery"),
		logger:   logger.Named("discovery-service"),
	}
}

// Search finds recipes that use the given ingredients and enriches each
// one with details, a food group and pairings. Results keep the order of
// the primary search. Only a failed primary search is an error.
func (s *Service) Search(ctx context.Context, ingredients []string) ([]recipe.Recipe, error) {
	started := time.Now()
	ingredients = cleanIngredients(ingredients)
	if len(ingredients) == 0 {
		return nil, errors.NewValidationError("Please select at least one ingredient")
	}

	ctx, span := s.tracer.Start(ctx, "discovery.Search",
		trace.WithAttributes(attribute.StringSlice("ingredients", ingredients)))
	defer span.End()

	s.logger.Info("Searching recipes",
		zap.Strings("ingredients", ingredients),
		zap.Int("limit", s.opts.CandidateLimit),
	)

	candidates, err := s.search.FindByIngredients(ctx, ingredients, s.opts.CandidateLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "primary search failed")
		s.logger.Error("Recipe search failed", zap.Error(err))
		s.metrics.ObserveSearch("failed", 0, time.Since(started))
		return nil, errors.NewUpstreamSearchError(err)
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	results := make([]recipe.Recipe, len(candidates))
	var g errgroup.Group
	if s.opts.MaxConcurrency > 0 {
		g.SetLimit(s.opts.MaxConcurrency)
	}
	for i, candidate := range candidates {
		g.Go(func() error {
			results[i] = s.enrich(ctx, candidate)
			return nil
		})
	}
	_ = g.Wait()

	s.metrics.ObserveSearch("success", len(results), time.Since(started))
	s.logger.Info("Recipe search completed",
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return results, nil
}

// enrich fetches details and pairings for one candidate concurrently and
// assembles the final Recipe.
func (s *Service) enrich(ctx context.Context, c outbound.Candidate) recipe.Recipe {
	ctx, span := s.tracer.Start(ctx, "discovery.Enrich", trace.WithAttributes(attribute.String("recipe_id", c.ID)))
	defer span.End()

	var (
		detail  DetailResult
		pairing PairingResult
		g       errgroup.Group
	)
	g.Go(func() error {
		detail = s.details.Fetch(ctx, c.ID)
		return nil
	})
	g.Go(func() error {
		pairing = s.pairings.Fetch(ctx, c.ID)
		return nil
	})
	_ = g.Wait()

	span.SetAttributes(
		attribute.String("details", string(detail.Outcome)),
		attribute.String("drink", string(pairing.Drink)),
		attribute.String("dessert", string(pairing.Dessert)),
	)

	used := copyOrEmpty(c.UsedIngredients)
	missed := copyOrEmpty(c.MissedIngredients)
	now := s.opts.Clock()

	return recipe.Recipe{
		ID:                    c.ID,
		Title:                 c.Title,
		ImageURL:              c.Image,
		Ingredients:           detail.Details.Ingredients,
		Instructions:          detail.Details.Instructions,
		UsedIngredients:       used,
		MissedIngredients:     missed,
		UsedIngredientCount:   len(used),
		MissedIngredientCount: len(missed),
		FoodGroup:             recipe.Classify(detail.Details.Ingredients),
		SourceURL:             detail.Details.SourceURL,
		Pairings:              pairing.Pairings,
		IsFavorite:            false,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func cleanIngredients(ingredients []string) []string {
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			out = append(out, ing)
		}
	}
	return out
}

func copyOrEmpty(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
