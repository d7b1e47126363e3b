package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const marketValueColumns = `pokemon_key, dex_number, lowest_market, true_lowest, listing_seen, updated_at`

// MarketValueRepository stores observed market prices per pokemon
type MarketValueRepository struct {
	q queryable
}

// NewMarketValueRepository creates a new market value repository
func NewMarketValueRepository(db *database.DB) *MarketValueRepository {
	return &MarketValueRepository{q: db.Pool}
}

// Upsert records supplied prices. true_lowest only ever moves down; every
// other supplied column is overwritten.
func (r *MarketValueRepository) Upsert(ctx context.Context, pokemonKey string, patch models.MarketPatch) (*models.MarketValue, error) {
	u := upsert{
		table:     "market_values",
		keys:      []column{{name: "pokemon_key", value: pokemonKey}},
		touch:     true,
		returning: marketValueColumns,
	}
	if err := firstErr(
		field(&u, "dex_number", patch.DexNumber, false),
		field(&u, "lowest_market", patch.LowestMarket, true),
		mergedField(&u, "true_lowest", patch.TrueLowest, false, mergeLeast),
		field(&u, "listing_seen", patch.ListingSeen, true),
	); err != nil {
		return nil, err
	}

	query, args := u.sql()
	value, err := collectOne[models.MarketValue](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert market value %s: %w", pokemonKey, err)
	}
	if value == nil {
		return nil, fmt.Errorf("failed to upsert market value %s: no row returned", pokemonKey)
	}
	return value, nil
}

// Get retrieves the market value of a pokemon
func (r *MarketValueRepository) Get(ctx context.Context, pokemonKey string) (*models.MarketValue, error) {
	value, err := collectOne[models.MarketValue](r.q.Query(ctx,
		`SELECT `+marketValueColumns+` FROM market_values WHERE pokemon_key = $1`, pokemonKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get market value %s: %w", pokemonKey, err)
	}
	return value, nil
}

// ListAll returns every market value
func (r *MarketValueRepository) ListAll(ctx context.Context) ([]models.MarketValue, error) {
	values, err := collectAll[models.MarketValue](r.q.Query(ctx, `SELECT `+marketValueColumns+` FROM market_values`))
	if err != nil {
		return nil, fmt.Errorf("failed to list market values: %w", err)
	}
	return values, nil
}
