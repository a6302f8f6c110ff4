package snowflake

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// searchColumns are the attributes returned for each hit.
var searchColumns = []string{"chunk", "relative_path", "category", "file_url"}

// searchRequest builds the SEARCH_PREVIEW query object.
func searchRequest(query string, opts domain.SearchOptions) (string, error) {
	req := `{}`
	var err error
	if req, err = sjson.Set(req, "query", query); err != nil {
		return "", err
	}
	if req, err = sjson.Set(req, "columns", searchColumns); err != nil {
		return "", err
	}
	if req, err = sjson.Set(req, "limit", opts.Limit); err != nil {
		return "", err
	}
	if opts.Category != "" {
		filter := map[string]any{"@eq": map[string]string{"category": string(opts.Category)}}
		if req, err = sjson.Set(req, "filter", filter); err != nil {
			return "", err
		}
	}
	return req, nil
}

// parseSearchResponse reads the results array of a SEARCH_PREVIEW response.
func parseSearchResponse(body string) ([]domain.SearchResult, error) {
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("invalid search response: %.80q", body)
	}
	hits := gjson.Get(body, "results").Array()
	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		fields := hit.Map()
		results = append(results, domain.SearchResult{
			Chunk:        fields["chunk"].String(),
			RelativePath: fields["relative_path"].String(),
			Category:     domain.Category(fields["category"].String()),
			FileURL:      fields["file_url"].String(),
			Score:        fields["@scores"].Get("cosine_similarity").Float(),
		})
	}
	return results, nil
}

// Search queries the Cortex Search service.
func (s *Store) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if s.cfg.SearchService == "" {
		return nil, fmt.Errorf("%w: no search service configured", domain.ErrSearchUnavailable)
	}
	if opts.Limit <= 0 {
		return nil, nil
	}

	req, err := searchRequest(query, opts)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}

	// SEARCH_PREVIEW only accepts literal arguments.
	stmt := fmt.Sprintf("SELECT SNOWFLAKE.CORTEX.SEARCH_PREVIEW(%s, %s)",
		sqlLiteral(s.serviceName()), sqlLiteral(req))
	logger.Debug("snowflake: search %s", req)

	var body string
	if err := s.db.QueryRowContext(ctx, stmt).Scan(&body); err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.cfg.SearchService, err)
	}
	return parseSearchResponse(body)
}
