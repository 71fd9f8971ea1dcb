// Package spoonacular adapts the Spoonacular recipe API to the recipe
// search and ingredient detection ports.
package spoonacular

import (
	"context"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/httpx"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
)

// MinDetectionProbability is the confidence an image annotation must
// exceed to count as a detected ingredient.
const MinDetectionProbability = 0.5

// Client implements outbound.RecipeSearchClient and outbound.IngredientDetector
type Client struct {
	http   *httpx.Client
	apiKey string
	logger *zap.Logger
}

var (
	_ outbound.RecipeSearchClient = (*Client)(nil)
	_ outbound.IngredientDetector = (*Client)(nil)
)

// NewClient creates a Spoonacular client
func NewClient(cfg httpx.Config, apiKey string, observer httpx.CallObserver, logger *zap.Logger) *Client {
	cfg.Service = "spoonacular"
	if apiKey == "" {
		logger.Warn("Spoonacular API key not configured; upstream calls will be rejected")
	}
	return &Client{
		http:   httpx.New(cfg, observer, logger),
		apiKey: apiKey,
		logger: logger.Named("spoonacular"),
	}
}

type ingredientRef struct {
	Name     string `json:"name"`
	Original string `json:"original"`
}

type findByIngredientsItem struct {
	ID                    int64           `json:"id"`
	Title                 string          `json:"title"`
	Image                 string          `json:"image"`
	UsedIngredientCount   int             `json:"usedIngredientCount"`
	MissedIngredientCount int             `json:"missedIngredientCount"`
	UsedIngredients       []ingredientRef `json:"usedIngredients"`
	MissedIngredients     []ingredientRef `json:"missedIngredients"`
}

type informationResponse struct {
	ExtendedIngredients []ingredientRef `json:"extendedIngredients"`
	Instructions        *string         `json:"instructions"`
	SourceURL           *string         `json:"sourceUrl"`
}

type analyzeRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

type analyzeResponse struct {
	Annotations []struct {
		Annotation  string  `json:"annotation"`
		Probability float64 `json:"probability"`
	} `json:"annotations"`
}

func (c *Client) query() url.Values {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	return q
}

// FindByIngredients returns up to number recipes that use the ingredients
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string, number int) ([]outbound.Candidate, error) {
	q := c.query()
	q.Set("ingredients", strings.Join(ingredients, ","))
	q.Set("number", strconv.Itoa(number))

	var items []findByIngredientsItem
	if err := c.http.GetJSON(ctx, "findByIngredients", "/recipes/findByIngredients", q, &items); err != nil {
		return nil, err
	}

	candidates := make([]outbound.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, outbound.Candidate{
			ID:                    strconv.FormatInt(item.ID, 10),
			Title:                 item.Title,
			Image:                 item.Image,
			UsedIngredients:       names(item.UsedIngredients),
			MissedIngredients:     names(item.MissedIngredients),
			UsedIngredientCount:   item.UsedIngredientCount,
			MissedIngredientCount: item.MissedIngredientCount,
		})
	}

	c.logger.Debug("Candidates fetched", zap.Int("count", len(candidates)))
	return candidates, nil
}

// RecipeInformation returns ingredient lines, raw instructions and source link
func (c *Client) RecipeInformation(ctx context.Context, recipeID string) (*outbound.RecipeInformation, error) {
	var resp informationResponse
	path := "/recipes/" + url.PathEscape(recipeID) + "/information"
	if err := c.http.GetJSON(ctx, "information", path, c.query(), &resp); err != nil {
		return nil, err
	}

	info := &outbound.RecipeInformation{Ingredients: make([]string, 0, len(resp.ExtendedIngredients))}
	for _, ing := range resp.ExtendedIngredients {
		info.Ingredients = append(info.Ingredients, ing.Original)
	}
	if resp.Instructions != nil {
		info.Instructions = *resp.Instructions
	}
	if resp.SourceURL != nil {
		info.SourceURL = *resp.SourceURL
	}
	return info, nil
}

// DetectIngredients sends a photo to the image analysis endpoint and keeps
// annotations above MinDetectionProbability, in response order.
func (c *Client) DetectIngredients(ctx context.Context, image []byte) ([]string, error) {
	body := analyzeRequest{ImageBase64: base64.StdEncoding.EncodeToString(image)}

	var resp analyzeResponse
	if err := c.http.PostJSON(ctx, "analyze", "/food/images/analyze", c.query(), body, &resp); err != nil {
		return nil, err
	}

	detected := []string{}
	for _, a := range resp.Annotations {
		if a.Probability > MinDetectionProbability && strings.TrimSpace(a.Annotation) != "" {
			detected = append(detected, a.Annotation)
		}
	}
	return detected, nil
}

func names(refs []ingredientRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}
