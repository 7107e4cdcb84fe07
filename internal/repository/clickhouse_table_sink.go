package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	domrepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
	applogger "github.com/rakeshcr92/InsiderNet/pkg/logger"
	"github.com/rakeshcr92/InsiderNet/pkg/util"
)

// RowInserter is the subset of pkg/clickhouse.Client the sink needs.
type RowInserter interface {
	InitSchema(ctx context.Context, stmts []string) error
	InsertRows(ctx context.Context, table string, columns []string, rows [][]interface{}) error
}

// CHTableSink writes feature and label tables into ClickHouse. Every row is
// prefixed with run_id and ticker so runs never overwrite each other.
type CHTableSink struct {
	ch       RowInserter
	features string
	labels   string
	l        *applogger.Logger
}

var _ domrepo.TableSink = (*CHTableSink)(nil)

func NewCHTableSink(ch RowInserter, featuresTable, labelsTable string) *CHTableSink {
	return &CHTableSink{ch: ch, features: featuresTable, labels: labelsTable}
}

// SetLogger injects a structured logger.
func (s *CHTableSink) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTableSink) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, []string{
		createTableDDL(s.features, models.FeatureColumns(), models.FeatureRow{}.Values()),
		createTableDDL(s.labels, models.LabelColumns, models.LabelRow{}.Values()),
	})
}

func (s *CHTableSink) WriteFeatures(ctx context.Context, runID, ticker string, t models.FeatureTable) error {
	rows := make([][]interface{}, 0, len(t.Rows))
	for _, r := range t.Rows {
		row, err := sinkRow(runID, ticker, r.Values())
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return s.write(ctx, s.features, t.Columns(), rows)
}

func (s *CHTableSink) WriteLabels(ctx context.Context, runID, ticker string, t models.LabelTable) error {
	rows := make([][]interface{}, 0, len(t.Rows))
	for _, r := range t.Rows {
		row, err := sinkRow(runID, ticker, r.Values())
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return s.write(ctx, s.labels, t.Columns(), rows)
}

func (s *CHTableSink) Close() error { return nil }

func (s *CHTableSink) write(ctx context.Context, table string, cols []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	start := time.Now()
	columns := append([]string{"run_id", "ticker"}, cols...)
	if err := s.ch.InsertRows(ctx, table, columns, rows); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse sink insert error",
				applogger.String("table", table),
				applogger.Int("rows", len(rows)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("write %s: %w", table, err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse sink insert",
			applogger.String("table", table),
			applogger.Int("rows", len(rows)),
			applogger.Duration("elapsed", time.Since(start)),
		)
	}
	return nil
}

// sinkRow prepends run_id and ticker and turns the leading date string into
// a time.Time for the Date column.
func sinkRow(runID, ticker string, vals []any) ([]interface{}, error) {
	day, err := util.ParseDay(vals[0].(string))
	if err != nil {
		return nil, fmt.Errorf("sink row date: %w", err)
	}
	row := make([]interface{}, 0, len(vals)+2)
	row = append(row, runID, ticker, day)
	return append(row, vals[1:]...), nil
}

// createTableDDL derives column types from a zero row. The first column is
// always the date.
func createTableDDL(table string, cols []string, sample []any) string {
	defs := []string{"run_id String", "ticker LowCardinality(String)"}
	for i, c := range cols {
		defs = append(defs, c+" "+chType(i, sample[i]))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = MergeTree ORDER BY (ticker, date, run_id)",
		table, strings.Join(defs, ", "))
}

func chType(i int, v any) string {
	if i == 0 {
		return "Date"
	}
	switch v.(type) {
	case int:
		return "Int64"
	case bool:
		return "Bool"
	case string:
		return "String"
	default:
		return "Float64"
	}
}
