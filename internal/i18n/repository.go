package i18n

import (
	"context"
	"fmt"

	"roadsaver_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const translationNotFoundMessage = "translation not found"

// Store persists translation overrides.
type Store interface {
	List(ctx context.Context) ([]Override, error)
	Upsert(ctx context.Context, o Override) error
	Delete(ctx context.Context, key string) error
	// InsertMissing inserts the overrides whose keys do not exist yet and
	// reports how many were added.
	InsertMissing(ctx context.Context, overrides []Override) (int, error)
}

// Repository is the PostgreSQL Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a translations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) List(ctx context.Context) ([]Override, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT key, english_text, bulgarian_text, category, context
		FROM translations
		ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.Key, &o.English, &o.Bulgarian, &o.Category, &o.Context); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}
	return out, nil
}

func (r *Repository) Upsert(ctx context.Context, o Override) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO translations (key, english_text, bulgarian_text, category, context)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			english_text = EXCLUDED.english_text,
			bulgarian_text = EXCLUDED.bulgarian_text,
			category = EXCLUDED.category,
			context = EXCLUDED.context,
			updated_at = now()`,
		o.Key, o.English, o.Bulgarian, categoryOrDefault(o.Category), o.Context)
	if err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM translations WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete translation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(translationNotFoundMessage)
	}
	return nil
}

func (r *Repository) InsertMissing(ctx context.Context, overrides []Override) (int, error) {
	if len(overrides) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, o := range overrides {
		batch.Queue(`
			INSERT INTO translations (key, english_text, bulgarian_text, category, context)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (key) DO NOTHING`,
			o.Key, o.English, o.Bulgarian, categoryOrDefault(o.Category), o.Context)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range overrides {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert translation: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func categoryOrDefault(category string) string {
	if category == "" {
		return "general"
	}
	return category
}
