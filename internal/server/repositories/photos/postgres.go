package photos

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/datingapp/internal/dbx"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Load returns the user's full collection ordered by id, so the first-found
// main photo is deterministic.
func (r *PostgresRepository) Load(ctx context.Context, userID string) (models.PhotoCollection, error) {
	query :=
		`SELECT id, user_id, url, storage_key, is_main, created_at FROM photos
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var collection models.PhotoCollection
	for rows.Next() {
		p := &models.Photo{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.StorageKey, &p.IsMain, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		collection = append(collection, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collection, nil
}

// Replace makes the stored collection equal to the given one: rows missing
// from the collection are deleted, rows with id 0 are inserted (the id is
// written back), the rest are updated. The caller is expected to run this
// inside a transaction so readers never observe a partial collection.
func (r *PostgresRepository) Replace(ctx context.Context, userID string, collection models.PhotoCollection) error {

	keep := make(map[int64]struct{}, len(collection))
	for _, p := range collection {
		if p.ID != 0 {
			keep[p.ID] = struct{}{}
		}
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM photos WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("db error: %w", err)
		}
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("db error: %w", err)
	}
	rows.Close()

	for _, id := range stale {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM photos WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	for _, p := range collection {
		if p.ID == 0 {
			err := r.db.QueryRowContext(ctx,
				`INSERT INTO photos (user_id, url, storage_key, is_main)
				 VALUES ($1, $2, $3, $4)
				 RETURNING id, created_at
				 `,
				userID, p.URL, p.StorageKey, p.IsMain).Scan(&p.ID, &p.CreatedAt)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			p.UserID = userID
			continue
		}

		if _, err := r.db.ExecContext(ctx,
			`UPDATE photos SET url = $1, storage_key = $2, is_main = $3
			 WHERE id = $4 AND user_id = $5
			 `,
			p.URL, p.StorageKey, p.IsMain, p.ID, userID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}
