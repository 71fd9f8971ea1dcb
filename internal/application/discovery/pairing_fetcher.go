package discovery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/domain/recipe"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Picker returns an index in [0, n). Tests inject a fixed picker.
type Picker func(n int) int

// PairingResult holds the pairings that could be sourced plus the
// outcome of each sub-call. Pairings lists the drink before the dessert.
type PairingResult struct {
	Pairings []recipe.Pairing
	Drink    Outcome
	Dessert  Outcome
}

// PairingFetcher suggests a random drink and a random dessert.
type PairingFetcher struct {
	drinks   outbound.DrinkClient
	desserts outbound.DessertClient
	pick     Picker
	metrics  outbound.DiscoveryMetrics
	timeout  time.Duration
	logger   *zap.Logger
}

// NewPairingFetcher creates a pairing fetcher. A nil picker defaults to a
// uniform random index.
func NewPairingFetcher(
	drinks outbound.DrinkClient,
	desserts outbound.DessertClient,
	pick Picker,
	metrics outbound.DiscoveryMetrics,
	timeout time.Duration,
	logger *zap.Logger,
) *PairingFetcher {
	if pick == nil {
		pick = rand.IntN
	}
	if metrics == nil {
		metrics = outbound.NopDiscoveryMetrics{}
	}
	return &PairingFetcher{
		drinks:   drinks,
		desserts: desserts,
		pick:     pick,
		metrics:  metrics,
		timeout:  timeout,
		logger:   logger.Named("pairing-fetcher"),
	}
}

// Fetch sources pairings for a recipe. The recipe id only identifies the
// request in logs; both sources are random. The two sub-calls run
// concurrently and fail independently, so the result holds zero, one or
// two pairings.
func (f *PairingFetcher) Fetch(ctx context.Context, recipeID string) PairingResult {
	ctx, cancel := withOptionalTimeout(ctx, f.timeout)
	defer cancel()

	var (
		drink, dessert *recipe.Pairing
		g              errgroup.Group
	)

	g.Go(func() error {
		p, err := f.fetchDrink(ctx)
		if err != nil {
			f.degraded(recipeID, sourceDrink, err)
			return nil
		}
		drink = p
		return nil
	})
	g.Go(func() error {
		p, err := f.fetchDessert(ctx)
		if err != nil {
			f.degraded(recipeID, sourceDessert, err)
			return nil
		}
		dessert = p
		return nil
	})
	_ = g.Wait()

	result := PairingResult{Pairings: []recipe.Pairing{}, Drink: OutcomeDegraded, Dessert: OutcomeDegraded}
	if drink != nil {
		result.Pairings = append(result.Pairings, *drink)
		result.Drink = OutcomeSuccess
		f.metrics.ObserveEnrichment(sourceDrink, string(OutcomeSuccess))
	}
	if dessert != nil {
		result.Pairings = append(result.Pairings, *dessert)
		result.Dessert = OutcomeSuccess
		f.metrics.ObserveEnrichment(sourceDessert, string(OutcomeSuccess))
	}
	return result
}

func (f *PairingFetcher) fetchDrink(ctx context.Context) (*recipe.Pairing, error) {
	d, err := f.drinks.RandomDrink(ctx)
	if err != nil {
		return nil, err
	}
	return &recipe.Pairing{
		ID:          d.ID,
		Type:        recipe.PairingTypeDrink,
		Name:        d.Name,
		Description: d.Instructions,
		ImageURL:    d.ImageURL,
	}, nil
}

func (f *PairingFetcher) fetchDessert(ctx context.Context) (*recipe.Pairing, error) {
	listing, err := f.desserts.ListDesserts(ctx)
	if err != nil {
		return nil, err
	}
	if len(listing) == 0 {
		return nil, fmt.Errorf("dessert listing: %w", outbound.ErrNotFound)
	}

	idx := f.pick(len(listing))
	if idx < 0 || idx >= len(listing) {
		return nil, fmt.Errorf("picker returned index %d for %d desserts", idx, len(listing))
	}

	meal, err := f.desserts.LookupMeal(ctx, listing[idx].ID)
	if err != nil {
		return nil, err
	}
	return &recipe.Pairing{
		ID:          meal.ID,
		Type:        recipe.PairingTypeDessert,
		Name:        meal.Name,
		Description: meal.Instructions,
		ImageURL:    meal.ImageURL,
	}, nil
}

func (f *PairingFetcher) degraded(recipeID, source string, err error) {
	f.logger.Warn("Pairing unavailable",
		zap.String("recipe_id", recipeID),
		zap.String("source", source),
		zap.Error(err),
	)
	f.metrics.ObserveEnrichment(source, string(OutcomeDegraded))
}
