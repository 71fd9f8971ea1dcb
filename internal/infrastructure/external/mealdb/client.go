// Package mealdb adapts TheMealDB (via RapidAPI) to the dessert port.
package mealdb

import (
	"context"
	"net/url"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/httpx"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
)

// DessertCategory is the category name used for dessert listings
const DessertCategory = "Dessert"

// Client implements outbound.DessertClient
type Client struct {
	http   *httpx.Client
	logger *zap.Logger
}

var _ outbound.DessertClient = (*Client)(nil)

// NewClient creates a meal client authenticated with RapidAPI headers
func NewClient(cfg httpx.Config, rapidAPIKey, host string, observer httpx.CallObserver, logger *zap.Logger) *Client {
	cfg.Service = "mealdb"
	headers := map[string]string{
		"X-RapidAPI-Key":  rapidAPIKey,
		"X-RapidAPI-Host": host,
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers

	return &Client{
		http:   httpx.New(cfg, observer, logger),
		logger: logger.Named("mealdb"),
	}
}

type mealRecord struct {
	ID           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	Instructions string `json:"strInstructions"`
	Thumb        string `json:"strMealThumb"`
}

type mealsResponse struct {
	Meals []mealRecord `json:"meals"`
}

// ListDesserts returns every meal in the dessert category. TheMealDB
// answers an unknown category with "meals": null, which maps to an empty
// slice.
func (c *Client) ListDesserts(ctx context.Context) ([]outbound.MealSummary, error) {
	q := url.Values{}
	q.Set("c", DessertCategory)

	var resp mealsResponse
	if err := c.http.GetJSON(ctx, "filter", "/filter.php", q, &resp); err != nil {
		return nil, err
	}

	out := make([]outbound.MealSummary, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		out = append(out, outbound.MealSummary{ID: m.ID, Name: m.Name, ImageURL: m.Thumb})
	}
	return out, nil
}

// LookupMeal returns the full record for mealID, or outbound.ErrNotFound
func (c *Client) LookupMeal(ctx context.Context, mealID string) (*outbound.Meal, error) {
	q := url.Values{}
	q.Set("i", mealID)

	var resp mealsResponse
	if err := c.http.GetJSON(ctx, "lookup", "/lookup.php", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		c.logger.Debug("Meal not found", zap.String("meal_id", mealID))
		return nil, outbound.ErrNotFound
	}

	m := resp.Meals[0]
	return &outbound.Meal{
		ID:           m.ID,
		Name:         m.Name,
		Instructions: m.Instructions,
		ImageURL:     m.Thumb,
	}, nil
}
