package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/taskpad/taskpad-api/internal/model"
)

type PostgresItemRepository struct {
	db *sql.DB
}

func NewPostgresItem(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

func (r *PostgresItemRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	query := `
		INSERT INTO items (owner_id, kind, content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, kind, content, status, created_at`

	row := r.db.QueryRowContext(ctx, query,
		item.OwnerID, item.Kind, item.Content, item.Status,
	)

	return scanItem(row)
}

func (r *PostgresItemRepository) GetByID(ctx context.Context, ownerID, itemID string) (model.Item, error) {
	query := `
		SELECT id, owner_id, kind, content, status, created_at
		FROM items
		WHERE id = $1 AND owner_id = $2`

	row := r.db.QueryRowContext(ctx, query, itemID, ownerID)
	return scanItem(row)
}

func (r *PostgresItemRepository) UpdateStatus(ctx context.Context, ownerID, itemID, status string) (model.Item, error) {
	query := `
		UPDATE items
		SET status = $1
		WHERE id = $2 AND owner_id = $3
		RETURNING id, owner_id, kind, content, status, created_at`

	row := r.db.QueryRowContext(ctx, query, status, itemID, ownerID)
	return scanItem(row)
}

func (r *PostgresItemRepository) Delete(ctx context.Context, ownerID, itemID string) error {
	query := `DELETE FROM items WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PostgresItemRepository) ListByKind(ctx context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error) {
	query := `
		SELECT id, owner_id, kind, content, status, created_at
		FROM items
		WHERE owner_id = $1 AND kind = $2
		ORDER BY created_at DESC`

	return r.queryItems(ctx, query, ownerID, string(kind))
}

func (r *PostgresItemRepository) ListCompleted(ctx context.Context, ownerID string) ([]model.Item, error) {
	query := `
		SELECT id, owner_id, kind, content, status, created_at
		FROM items
		WHERE owner_id = $1 AND kind = 'task' AND status = ANY($2)
		ORDER BY created_at DESC`

	return r.queryItems(ctx, query, ownerID, pq.Array([]string{model.StatusCompleted, model.StatusDone}))
}

func (r *PostgresItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", mapQueryError(err))
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// mapQueryError translates a missing relation or object into the distinct
// index-required sentinel so the affected list can say so, instead of
// reporting a generic load failure.
func mapQueryError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42P01", "42704": // undefined_table, undefined_object
			return fmt.Errorf("%s: %w", pqErr.Message, ErrIndexRequired)
		}
	}
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (model.Item, error) {
	var i model.Item
	err := row.Scan(
		&i.ID, &i.OwnerID, &i.Kind, &i.Content, &i.Status, &i.CreatedAt,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to scan item: %w", err)
	}
	return i, nil
}

func scanItemFromRows(rows *sql.Rows) (model.Item, error) {
	var i model.Item
	err := rows.Scan(
		&i.ID, &i.OwnerID, &i.Kind, &i.Content, &i.Status, &i.CreatedAt,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to scan item row: %w", err)
	}
	return i, nil
}

var _ ItemRepository = (*PostgresItemRepository)(nil)
