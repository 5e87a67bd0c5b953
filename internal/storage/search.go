package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// ErrEmptyQuery is returned when a search query has no searchable terms
var ErrEmptyQuery = errors.New("empty search query")

// searchText performs BM25 full-text search using FTS5
func searchText(ctx context.Context, q querier, programID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	// Sanitize query for FTS5
	sanitized := sanitizeFTSQuery(query)
	if sanitized == "" {
		return nil, ErrEmptyQuery
	}

	// Handle edge case: negative or zero limit
	if limit <= 0 {
		return []TextResult{}, nil
	}

	sqlQuery := `
		SELECT
			d.id AS declaration_id,
			bm25(declarations_fts) AS score
		FROM declarations_fts
		INNER JOIN declarations d ON declarations_fts.rowid = d.id
		WHERE declarations_fts MATCH ?
		AND d.program_id = ?
	`
	args := []interface{}{sanitized, programID}

	sqlQuery, args = applyTextFilters(sqlQuery, args, filters)

	// Order by BM25 score (lower is better), then payload order
	sqlQuery += " ORDER BY score, d.position LIMIT ?"
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]TextResult, 0)
	for rows.Next() {
		var result TextResult
		if err := rows.Scan(&result.DeclarationID, &result.BM25Score); err != nil {
			return nil, err
		}

		// Convert BM25 score (negative, lower is better) to a (0, 1] relevance.
		// BM25 scores are typically in range [-50, 0]
		result.BM25Score = 1.0 / (1.0 + math.Abs(result.BM25Score)/50.0)

		if filters != nil && filters.MinRelevance > 0 && result.BM25Score < filters.MinRelevance {
			continue
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// applyTextFilters adds WHERE clause filters for text search
func applyTextFilters(query string, args []interface{}, filters *SearchFilters) (string, []interface{}) {
	if filters == nil {
		return query, args
	}

	if len(filters.Kinds) > 0 {
		query += " AND d.kind IN ("
		for i, kind := range filters.Kinds {
			if i > 0 {
				query += ","
			}
			query += "?"
			args = append(args, int(kind))
		}
		query += ")"
	}

	if filters.Namespace != "" {
		query += " AND d.namespace = ?"
		args = append(args, filters.Namespace)
	}

	return query, args
}

// sanitizeFTSQuery turns free text into an FTS5 query. Each term becomes a
// quoted string so operators and punctuation match literally; terms are
// ANDed together.
func sanitizeFTSQuery(query string) string {
	terms := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}
