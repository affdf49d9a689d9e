package movierec

import (
	"context"
	"fmt"
	"time"
)

// Facets returns the genres and year bounds of the full catalog.
func (c *Client) Facets(ctx context.Context) (f Facets, err error) {
	start := time.Now()
	defer func() { c.obs.observe("facets", start, err) }()

	uf, err := c.catalogSvc.Facets(ctx)
	if err != nil {
		return Facets{}, fmt.Errorf("facets: %w", err)
	}
	return facetsFromUseCase(uf), nil
}

// Movies returns the catalog entries selected by f in catalog order.
// An empty slice means nothing matched.
func (c *Client) Movies(ctx context.Context, f Filter) (movies []Movie, err error) {
	start := time.Now()
	defer func() { c.obs.observe("movies", start, err) }()

	df, err := f.toDomain()
	if err != nil {
		return nil, err
	}
	view, err := c.catalogSvc.Filter(ctx, df)
	if err != nil {
		return nil, fmt.Errorf("movies: %w", err)
	}

	movies = make([]Movie, view.Len())
	for i, m := range view.Movies() {
		movies[i] = movieFromDomain(m)
	}
	return movies, nil
}

// Recommend returns up to k movies most similar to title within f.
// k <= 0 uses the configured default. Returns ErrTitleNotFound when title is
// not in the filtered catalog; metadata failures degrade to placeholder fields.
func (c *Client) Recommend(ctx context.Context, title string, f Filter, k int) (recs Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	df, err := f.toDomain()
	if err != nil {
		return Recommendations{}, err
	}
	res, err := c.recommendSvc.Recommend(ctx, title, df, k)
	if err != nil {
		return Recommendations{}, fmt.Errorf("recommend: %w", err)
	}

	cards := make([]Card, len(res.Cards))
	for i, card := range res.Cards {
		cards[i] = cardFromDomain(card)
	}
	return Recommendations{Title: res.Title, Cards: cards, NoMatches: res.NoMatches}, nil
}
