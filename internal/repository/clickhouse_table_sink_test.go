package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

type fakeInserter struct {
	stmts   []string
	table   string
	columns []string
	rows    [][]interface{}
}

func (f *fakeInserter) InitSchema(_ context.Context, stmts []string) error {
	f.stmts = append(f.stmts, stmts...)
	return nil
}

func (f *fakeInserter) InsertRows(_ context.Context, table string, columns []string, rows [][]interface{}) error {
	f.table, f.columns, f.rows = table, columns, rows
	return nil
}

func TestCHTableSink_Init(t *testing.T) {
	f := &fakeInserter{}
	s := NewCHTableSink(f, "features", "labels")
	require.NoError(t, s.Init(context.Background()))
	require.Len(t, f.stmts, 2)

	assert.True(t, strings.HasPrefix(f.stmts[0], "CREATE TABLE IF NOT EXISTS features (run_id String, ticker LowCardinality(String), date Date, open Float64"))
	assert.Contains(t, f.stmts[0], "gap_up Int64")
	assert.Contains(t, f.stmts[1], "binary_label Int64")
	assert.Contains(t, f.stmts[1], "ORDER BY (ticker, date, run_id)")
}

func TestCHTableSink_WriteLabels(t *testing.T) {
	f := &fakeInserter{}
	s := NewCHTableSink(f, "features", "labels")
	tbl := models.LabelTable{Rows: []models.LabelRow{
		{Date: "2024-03-01", Close: 10, FutureClose: 11, PctChange: 0.1, BinaryLabel: 1},
	}}
	require.NoError(t, s.WriteLabels(context.Background(), "run-1", "AAPL", tbl))

	assert.Equal(t, "labels", f.table)
	assert.Equal(t, append([]string{"run_id", "ticker"}, models.LabelColumns...), f.columns)
	require.Len(t, f.rows, 1)
	assert.Equal(t, "run-1", f.rows[0][0])
	assert.Equal(t, "AAPL", f.rows[0][1])
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.rows[0][2])
	assert.Equal(t, 1, f.rows[0][6])
}

func TestCHTableSink_EmptyTableSkipsInsert(t *testing.T) {
	f := &fakeInserter{}
	s := NewCHTableSink(f, "features", "labels")
	require.NoError(t, s.WriteFeatures(context.Background(), "run-1", "AAPL", models.FeatureTable{}))
	assert.Empty(t, f.table)
}
