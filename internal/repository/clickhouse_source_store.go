package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	domrepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	pkgch "github.com/rakeshcr92/InsiderNet/pkg/clickhouse"
	applogger "github.com/rakeshcr92/InsiderNet/pkg/logger"
)

// SourceTables names the raw tables the collectors materialize. Every table
// carries a ticker column; trends also carry fetched_at so later fetches win.
type SourceTables struct {
	Prices string
	Social string
	Trends string
}

// CHSourceStore reads raw records from ClickHouse.
type CHSourceStore struct {
	db     *sql.DB
	tables SourceTables
	l      *applogger.Logger
}

var _ domrepo.SourceStore = (*CHSourceStore)(nil)

func NewCHSourceStore(ch *pkgch.Client, tables SourceTables) *CHSourceStore {
	return &CHSourceStore{db: ch.DB(), tables: tables}
}

// SetLogger injects a structured logger.
func (s *CHSourceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSourceStore) Prices(ctx context.Context, ticker string) ([]models.PriceRecord, error) {
	q := fmt.Sprintf(`
        SELECT toString(date) AS date, open, high, low, close, volume, dividends, splits
        FROM %s
        WHERE ticker = ?
        ORDER BY date ASC
    `, s.tables.Prices)

	out := make([]models.PriceRecord, 0, 512)
	err := s.query(ctx, "prices", q, ticker, func(rows *sql.Rows) error {
		var r models.PriceRecord
		if err := rows.Scan(&r.Date, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume, &r.Dividends, &r.Splits); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *CHSourceStore) SocialPosts(ctx context.Context, ticker string) ([]models.SocialRecord, error) {
	q := fmt.Sprintf(`
        SELECT id, title, created_utc, score, num_comments
        FROM %s
        WHERE ticker = ?
        ORDER BY created_utc ASC
    `, s.tables.Social)

	out := make([]models.SocialRecord, 0, 256)
	err := s.query(ctx, "social", q, ticker, func(rows *sql.Rows) error {
		var r models.SocialRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.CreatedUTC, &r.Score, &r.NumComments); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *CHSourceStore) Trends(ctx context.Context, ticker string) ([]models.TrendRecord, error) {
	q := trendsQuery(s.tables.Trends)

	out := make([]models.TrendRecord, 0, 512)
	err := s.query(ctx, "trends", q, ticker, func(rows *sql.Rows) error {
		var r models.TrendRecord
		if err := rows.Scan(&r.Query, &r.Date, &r.Interest, &r.IsPartial); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *CHSourceStore) query(ctx context.Context, what, q, ticker string, scan func(*sql.Rows) error) error {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, ticker)
	if err != nil {
		s.logErr("clickhouse source query error", what, ticker, err)
		return fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			s.logErr("clickhouse source scan error", what, ticker, err)
			return fmt.Errorf("scan %s: %w", what, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		s.logErr("clickhouse source rows error", what, ticker, err)
		return fmt.Errorf("rows %s: %w", what, err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse source read",
			applogger.String("source", what),
			applogger.String("ticker", ticker),
			applogger.Int("rows", n),
			applogger.Duration("elapsed", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSourceStore) logErr(msg, what, ticker string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("source", what),
		applogger.String("ticker", ticker),
		applogger.Error(err),
	)
}

// trendsQuery returns trend rows in fetch order. Rows of one fetch share
// fetched_at, so date and then is_partial (final after partial) break ties
// and the last row for a date is the one that wins downstream.
func trendsQuery(table string) string {
	return fmt.Sprintf(`
        SELECT query, toString(date) AS date, interest, is_partial
        FROM %s
        WHERE ticker = ?
        ORDER BY fetched_at ASC, date ASC, is_partial DESC, query ASC
    `, table)
}
