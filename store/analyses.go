package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/scoring"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveAnalysis stores the latest analysis of a content item and caches its
// score on the content row in one transaction. Either both writes land or neither.
func (s *Store) SaveAnalysis(ctx context.Context, rec models.StoredAnalysis) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertAnalysis(ctx, tx, rec); err != nil {
		return err
	}
	if err := recordScore(ctx, tx, rec.ContentID, rec.Score, rec.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis: %w", err)
	}
	return nil
}

// upsertAnalysis keeps created_at from the first insert.
func upsertAnalysis(ctx context.Context, ex execer, rec models.StoredAnalysis) error {
	data, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO analyses (content_id, content_type, title, status, seo_score, analysis_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_id) DO UPDATE SET
			content_type = excluded.content_type,
			title = excluded.title,
			status = excluded.status,
			seo_score = excluded.seo_score,
			analysis_data = excluded.analysis_data,
			updated_at = excluded.updated_at`,
		rec.ContentID, string(rec.ContentType), rec.Title, rec.Status, rec.Score, string(data),
		toUnix(rec.CreatedAt), toUnix(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert analysis: %w", err)
	}
	return nil
}

func recordScore(ctx context.Context, ex execer, id int64, score int, at time.Time) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE contents SET seo_score = ?, seo_updated_at = ? WHERE id = ?`,
		score, toUnix(at), id)
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("content %d: %w", id, models.ErrNotFound)
	}
	return nil
}

const analysisColumns = `content_id, content_type, title, status, seo_score, analysis_data, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*models.StoredAnalysis, error) {
	var (
		rec                  models.StoredAnalysis
		contentType, data    string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&rec.ContentID, &contentType, &rec.Title, &rec.Status, &rec.Score, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.ContentType = models.ContentType(contentType)
	rec.CreatedAt = fromUnix(createdAt)
	rec.UpdatedAt = fromUnix(updatedAt)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis of content %d: %w", rec.ContentID, err)
	}
	rec.Result = &result
	return &rec, nil
}

// GetAnalysis returns the stored analysis of a content item.
func (s *Store) GetAnalysis(ctx context.Context, contentID int64) (*models.StoredAnalysis, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE content_id = ?`, contentID)
	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis of content %d: %w", contentID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// RecentAnalyses returns up to limit analyses, most recently updated first.
// An empty contentType matches every type.
func (s *Store) RecentAnalyses(ctx context.Context, limit int, contentType models.ContentType) ([]models.StoredAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses`
	args := []any{}
	if contentType != "" {
		query += ` WHERE content_type = ?`
		args = append(args, string(contentType))
	}
	query += ` ORDER BY updated_at DESC, analysis_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	out := []models.StoredAnalysis{}
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// AverageScore returns the rounded mean score, or 0 without analyses.
func (s *Store) AverageScore(ctx context.Context, contentType models.ContentType) (int, error) {
	query := `SELECT AVG(seo_score) FROM analyses`
	args := []any{}
	if contentType != "" {
		query += ` WHERE content_type = ?`
		args = append(args, string(contentType))
	}

	var avg sql.NullFloat64
	if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average scores: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return int(math.Round(avg.Float64)), nil
}

// Distribution counts stored analyses per score band.
func (s *Store) Distribution(ctx context.Context) (models.ScoreDistribution, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT seo_score FROM analyses`)
	if err != nil {
		return models.ScoreDistribution{}, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return models.ScoreDistribution{}, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return models.ScoreDistribution{}, fmt.Errorf("failed to compute distribution: %w", err)
	}
	return scoring.Distribution(scores), nil
}

// BestOrWorst ranks published content by stored score. Ties keep insertion order.
func (s *Store) BestOrWorst(ctx context.Context, dir scoring.Direction, limit int, contentType models.ContentType) ([]models.ScoredContent, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT a.content_id, a.content_type, COALESCE(NULLIF(c.title, ''), a.title), a.seo_score,
			COALESCE(c.edit_url, ''), COALESCE(c.permalink, ''), a.updated_at
		FROM analyses a
		LEFT JOIN contents c ON c.id = a.content_id
		WHERE COALESCE(c.status, a.status) = ?
		ORDER BY a.analysis_id ASC`, models.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to rank content: %w", err)
	}
	defer rows.Close()

	var entries []models.ScoredContent
	for rows.Next() {
		var (
			e           models.ScoredContent
			contentType string
			updatedAt   int64
		)
		if err := rows.Scan(&e.ContentID, &contentType, &e.Title, &e.Score, &e.EditURL, &e.ViewURL, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranked content: %w", err)
		}
		e.ContentType = models.ContentType(contentType)
		e.UpdatedAt = fromUnix(updatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to rank content: %w", err)
	}
	return scoring.BestOrWorst(entries, dir, limit, contentType), nil
}

// ScoreHistory returns the current score as a single entry. Re-analysis
// overwrites the stored row, so there is no older point to report.
func (s *Store) ScoreHistory(ctx context.Context, contentID int64) ([]models.HistoryEntry, error) {
	rec, err := s.GetAnalysis(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return []models.HistoryEntry{{Date: rec.UpdatedAt, Score: rec.Score}}, nil
}

// ProductScores returns every analyzed product with its categories.
func (s *Store) ProductScores(ctx context.Context) ([]models.ProductScore, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT a.content_id, a.title, a.seo_score, p.data
		FROM analyses a
		JOIN products p ON p.content_id = a.content_id
		WHERE a.content_type = ?
		ORDER BY a.analysis_id`, string(models.TypeProduct))
	if err != nil {
		return nil, fmt.Errorf("failed to list product scores: %w", err)
	}
	defer rows.Close()

	out := []models.ProductScore{}
	for rows.Next() {
		var (
			ps   models.ProductScore
			data string
			p    models.Product
		)
		if err := rows.Scan(&ps.ContentID, &ps.Title, &ps.Score, &data); err != nil {
			return nil, fmt.Errorf("failed to scan product score: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product %d: %w", ps.ContentID, err)
		}
		ps.Categories = p.Categories
		out = append(out, ps)
	}
	return out, rows.Err()
}
