package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/thinxi/thinxi-admin/internal/docstore"
)

// DocumentStore implements docstore.Store on a single JSON document table.
// Nested fields are addressed with SQLite's JSON1 path syntax.
type DocumentStore struct {
	db *sql.DB
}

var _ docstore.Store = (*DocumentStore)(nil)

func (s *DocumentStore) Query(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	if err := docstore.ValidatePath(q.Field); err != nil {
		return nil, err
	}

	value, err := bindValue(q.Value)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, data FROM documents
		WHERE collection = ? AND json_extract(data, ?) = ?
		ORDER BY id`
	args := []any{collection, jsonPath(q.Field), value}
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s where %s: %w", collection, q.Field, err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		data, err := decodeData(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, docstore.Document{ID: id, Data: data})
	}
	return docs, rows.Err()
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &docstore.Document{ID: id, Data: data}, nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(raw),
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO NOTHING`,
		collection, id, string(raw),
	)
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrAlreadyExists)
	}
	return nil
}

func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	var set strings.Builder
	set.WriteString("json_set(data")
	args := make([]any, 0, 2*len(fields)+2)
	for path, v := range fields {
		if err := docstore.ValidatePath(path); err != nil {
			return err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal field %s: %w", path, err)
		}
		set.WriteString(", ?, json(?)")
		args = append(args, jsonPath(path), string(raw))
	}
	set.WriteString(")")
	args = append(args, collection, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = `+set.String()+`, updated_at = CURRENT_TIMESTAMP
		WHERE collection = ? AND id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return requireRow(res, collection, id)
}

func (s *DocumentStore) Increment(ctx context.Context, collection, id, path string, delta int) error {
	if err := docstore.ValidatePath(path); err != nil {
		return err
	}
	p := jsonPath(path)

	// A single UPDATE statement is atomic in SQLite.
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		SET data = json_set(data, ?, COALESCE(json_extract(data, ?), 0) + ?),
		    updated_at = CURRENT_TIMESTAMP
		WHERE collection = ? AND id = ?`,
		p, p, delta, collection, id,
	)
	if err != nil {
		return fmt.Errorf("increment %s/%s %s: %w", collection, id, path, err)
	}
	return requireRow(res, collection, id)
}

// Close is a no-op; the owning Store closes the database.
func (s *DocumentStore) Close() error {
	return nil
}

func requireRow(res sql.Result, collection, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

func jsonPath(field string) string {
	return "$." + field
}

// bindValue converts a query value to something SQLite compares equal to
// the result of json_extract.
func bindValue(v any) (any, error) {
	switch x := v.(type) {
	case string, int, int64, float64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return nil, fmt.Errorf("unsupported query value type %T", v)
	}
}

func decodeData(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
