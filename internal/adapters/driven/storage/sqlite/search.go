package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// candidate is a chunk row considered by local search.
type candidate struct {
	id     int64
	result domain.SearchResult
	vector []float32
}

// Search ranks chunk rows by cosine similarity when vectors for the current
// embedding model exist, otherwise by query term frequency.
func (s *Store) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if opts.Limit <= 0 {
		return nil, nil
	}

	model := ""
	if s.embedder != nil {
		model = s.embedder.ModelName()
	}

	candidates, err := s.candidates(ctx, opts.Category, model)
	if err != nil {
		return nil, err
	}

	scored := false
	if s.embedder != nil && hasVectors(candidates) {
		qv, err := s.embedder.Embed(ctx, query)
		if err != nil {
			logger.Warn("search: embedding query failed, using term match: %v", err)
		} else {
			scoreCosine(candidates, qv)
			scored = true
		}
	}
	if !scored {
		candidates = scoreTerms(candidates, query)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].result.Score > candidates[j].result.Score
	})
	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	return results, nil
}

// candidates loads chunk rows, restricted to one category when set, with
// the vectors stored for model.
func (s *Store) candidates(ctx context.Context, category domain.Category, model string) ([]candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.relative_path, c.file_url, c.chunk, c.category, v.vector
		FROM docs_chunks_table c
		LEFT JOIN chunk_vectors v ON v.chunk_id = c.id AND v.model = ?
		WHERE ? = '' OR c.category = ?
		ORDER BY c.id
	`, model, string(category), string(category))
	if err != nil {
		return nil, queryErr("querying chunks", err)
	}
	defer rows.Close()

	var out []candidate
	for rows.Next() {
		var c candidate
		var cat sql.NullString
		var blob []byte
		if err := rows.Scan(&c.id, &c.result.RelativePath, &c.result.FileURL,
			&c.result.Chunk, &cat, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.result.Category = domain.Category(cat.String)
		c.vector = bytesToFloat32Slice(blob)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return out, nil
}

func hasVectors(candidates []candidate) bool {
	for _, c := range candidates {
		if len(c.vector) > 0 {
			return true
		}
	}
	return false
}

// scoreCosine sets each candidate's score to its cosine similarity with qv.
// Candidates without a vector score zero.
func scoreCosine(candidates []candidate, qv []float32) {
	for i := range candidates {
		candidates[i].result.Score = cosine(qv, candidates[i].vector)
	}
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// scoreTerms keeps candidates containing at least one query term, scored
// by total term occurrences.
func scoreTerms(candidates []candidate, query string) []candidate {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	out := candidates[:0]
	for _, c := range candidates {
		text := strings.ToLower(c.result.Chunk + " " + c.result.RelativePath)
		score := 0
		for _, t := range terms {
			score += strings.Count(text, t)
		}
		if score > 0 {
			c.result.Score = float64(score)
			out = append(out, c)
		}
	}
	return out
}

// tokenize lower-cases the query and splits it into distinct words of two
// or more characters.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	var terms []string
	for _, f := range fields {
		if len([]rune(f)) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
