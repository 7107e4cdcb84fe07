package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{
		Host:        "ch",
		Port:        9000,
		Database:    "insidernet",
		User:        "default",
		Password:    "pw",
		DialTimeout: 5 * time.Second,
		MaxExecTime: 30 * time.Second,
		AsyncInsert: true,
	})
	assert.Equal(t, "clickhouse://default:pw@ch:9000/insidernet?dial_timeout=5s&max_execution_time=30&async_insert=1", dsn)

	dsn = buildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "db", UseHTTP: true})
	assert.Equal(t, "http://:@ch:8123/db", dsn)
}

func TestBuildInsert(t *testing.T) {
	q, args, err := BuildInsert("features", []string{"date", "close"}, [][]interface{}{
		{"2024-03-01", 10.5},
		{"2024-03-04", 11.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO features (date, close) VALUES (?, ?),(?, ?)", q)
	assert.Equal(t, []interface{}{"2024-03-01", 10.5, "2024-03-04", 11.0}, args)

	_, _, err = BuildInsert("features", []string{"date", "close"}, [][]interface{}{{"2024-03-01"}})
	assert.Error(t, err)

	_, _, err = BuildInsert("features", nil, nil)
	assert.Error(t, err)
}
