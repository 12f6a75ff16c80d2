package sqlite

import (
	"context"
	"fmt"
)

// Stats counts the stored rows.
type Stats struct {
	Documents  int `json:"documents"`
	Entries    int `json:"entries"`
	Snippets   int `json:"snippets"`
	References int `json:"references"`
}

// SnippetRow is one code snippet joined with its entry.
type SnippetRow struct {
	Document string
	Category string
	Title    string
	Language string
	Code     string
}

// Stats returns row counts for every table.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	if r.db == nil {
		return Stats{}, fmt.Errorf("repository not initialized")
	}

	var s Stats
	err := r.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM documents),
		(SELECT COUNT(*) FROM entries),
		(SELECT COUNT(*) FROM snippets),
		(SELECT COUNT(*) FROM references_)`,
	).Scan(&s.Documents, &s.Entries, &s.Snippets, &s.References)
	if err != nil {
		return Stats{}, fmt.Errorf("count rows: %w", err)
	}
	return s, nil
}

// SnippetsByLanguage returns all snippets labelled with language,
// in document then entry order.
func (r *Repository) SnippetsByLanguage(ctx context.Context, language string) ([]SnippetRow, error) {
	if r.db == nil {
		return nil, fmt.Errorf("repository not initialized")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT e.document_id, e.category, e.title, s.language, s.code
		FROM snippets s
		JOIN entries e ON e.id = s.entry_id
		WHERE s.language = ?
		ORDER BY e.document_id, e.position, s.position`, language)
	if err != nil {
		return nil, fmt.Errorf("query snippets: %w", err)
	}
	defer rows.Close()

	var out []SnippetRow
	for rows.Next() {
		var row SnippetRow
		if err := rows.Scan(&row.Document, &row.Category, &row.Title, &row.Language, &row.Code); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
