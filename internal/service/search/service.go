package search

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/config"
	searchmodel "github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/search"
)

// Service proxies query strings to Google Custom Search.
type Service struct {
	cse      *customsearch.Service
	engineID string
	logger   zerolog.Logger
}

// NewService builds a Custom Search client from the configured API key.
func NewService(ctx context.Context, cfg config.SearchConfig, logger zerolog.Logger, opts ...option.ClientOption) (*Service, error) {
	clientOpts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	cse, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search client: %w", err)
	}

	return &Service{cse: cse, engineID: cfg.EngineID, logger: logger}, nil
}

// Search runs one API call per query and returns the result sets in query
// order. Any failed call aborts the whole batch.
func (s *Service) Search(ctx context.Context, queries []string) ([]searchmodel.ResultSet, error) {
	sets := make([]searchmodel.ResultSet, 0, len(queries))

	for _, query := range queries {
		resp, err := s.cse.Cse.List().Q(query).Cx(s.engineID).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("custom search for %q: %w", query, err)
		}

		set := searchmodel.ResultSet{Results: make([]searchmodel.Result, 0, len(resp.Items))}
		for _, item := range resp.Items {
			set.Results = append(set.Results, searchmodel.Result{
				SourceTitle: item.Title,
				URL:         item.Link,
				Snippet:     item.Snippet,
			})
		}

		s.logger.Debug().Str("query", query).Int("results", len(set.Results)).Msg("search completed")
		sets = append(sets, set)
	}

	return sets, nil
}
