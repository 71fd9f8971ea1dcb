// Package cocktaildb adapts TheCocktailDB (via RapidAPI) to the drink port.
package cocktaildb

import (
	"context"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/httpx"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
)

// Client implements outbound.DrinkClient
type Client struct {
	http   *httpx.Client
	logger *zap.Logger
}

var _ outbound.DrinkClient = (*Client)(nil)

// NewClient creates a cocktail client authenticated with RapidAPI headers
func NewClient(cfg httpx.Config, rapidAPIKey, host string, observer httpx.CallObserver, logger *zap.Logger) *Client {
	cfg.Service = "cocktaildb"
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
		logger: logger.Named("cocktaildb"),
	}
}

type drinksResponse struct {
	Drinks []struct {
		ID           string `json:"idDrink"`
		Name         string `json:"strDrink"`
		Instructions string `json:"strInstructions"`
		Thumb        string `json:"strDrinkThumb"`
	} `json:"drinks"`
}

// RandomDrink returns the first drink of the random endpoint. An empty or
// null drinks array yields outbound.ErrNotFound.
func (c *Client) RandomDrink(ctx context.Context) (*outbound.Drink, error) {
	var resp drinksResponse
	if err := c.http.GetJSON(ctx, "random", "/random.php", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Drinks) == 0 {
		return nil, outbound.ErrNotFound
	}

	d := resp.Drinks[0]
	c.logger.Debug("Random drink fetched", zap.String("drink_id", d.ID))
	return &outbound.Drink{
		ID:           d.ID,
		Name:         d.Name,
		Instructions: d.Instructions,
		ImageURL:     d.Thumb,
	}, nil
}
