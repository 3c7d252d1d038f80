package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seo-optimizer/advisor/models"
)

// SaveContent inserts or replaces a content item. The cached score is kept.
func (s *Store) SaveContent(ctx context.Context, item *models.ContentItem) error {
	meta := item.Meta
	if meta == nil {
		meta = map[string]string{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO contents (id, type, title, body, format, excerpt, permalink, edit_url, status, meta, published_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			body = excluded.body,
			format = excluded.format,
			excerpt = excluded.excerpt,
			permalink = excluded.permalink,
			edit_url = excluded.edit_url,
			status = excluded.status,
			meta = excluded.meta,
			published_at = excluded.published_at,
			modified_at = excluded.modified_at`,
		item.ID, string(item.Type), item.Title, item.Body, item.Format, item.Excerpt, item.Permalink,
		item.EditURL, item.Status, string(metaJSON), toUnix(item.PublishedAt), toUnix(item.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}
	return nil
}

// GetContent returns a content item or models.ErrNotFound.
func (s *Store) GetContent(ctx context.Context, id int64) (*models.ContentItem, error) {
	var (
		item                    models.ContentItem
		contentType, meta       string
		publishedAt, modifiedAt int64
	)
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, type, title, body, format, excerpt, permalink, edit_url, status, meta, published_at, modified_at
		FROM contents WHERE id = ?`, id,
	).Scan(&item.ID, &contentType, &item.Title, &item.Body, &item.Format, &item.Excerpt, &item.Permalink,
		&item.EditURL, &item.Status, &meta, &publishedAt, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	item.Type = models.ContentType(contentType)
	item.PublishedAt = fromUnix(publishedAt)
	item.ModifiedAt = fromUnix(modifiedAt)
	if err := json.Unmarshal([]byte(meta), &item.Meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meta of content %d: %w", id, err)
	}
	return &item, nil
}

func (s *Store) contentColumn(ctx context.Context, id int64, column string) (string, error) {
	var v string
	err := s.conn.QueryRowContext(ctx, `SELECT `+column+` FROM contents WHERE id = ?`, id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("content %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", column, err)
	}
	return v, nil
}

// Permalink returns the public URL of a content item.
func (s *Store) Permalink(ctx context.Context, id int64) (string, error) {
	return s.contentColumn(ctx, id, "permalink")
}

// EditURL returns the editor URL of a content item.
func (s *Store) EditURL(ctx context.Context, id int64) (string, error) {
	return s.contentColumn(ctx, id, "edit_url")
}

// CachedScore returns the score recorded on the content row, if any.
func (s *Store) CachedScore(ctx context.Context, id int64) (int, time.Time, bool, error) {
	var (
		score sql.NullInt64
		at    sql.NullInt64
	)
	err := s.conn.QueryRowContext(ctx, `SELECT seo_score, seo_updated_at FROM contents WHERE id = ?`, id).Scan(&score, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, false, fmt.Errorf("content %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("failed to read cached score: %w", err)
	}
	if !score.Valid {
		return 0, time.Time{}, false, nil
	}
	return int(score.Int64), fromUnix(at.Int64), true, nil
}

// SaveProduct inserts or replaces a product record.
func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO products (content_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(content_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.ID, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// GetProduct returns a product record or models.ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM products WHERE content_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var p models.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product %d: %w", id, err)
	}
	p.ID = id
	return &p, nil
}
