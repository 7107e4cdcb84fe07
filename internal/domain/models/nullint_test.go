package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullInt_KeyPresence(t *testing.T) {
	var recs []TrendRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"query":"q","date":"2024-03-01","interest":42},
		{"query":"q","date":"2024-03-01","interest":null},
		{"query":"q","date":"2024-03-01"}
	]`), &recs))

	assert.Equal(t, IntOf(42), recs[0].Interest)
	assert.Equal(t, NullInt{Present: true}, recs[1].Interest)
	assert.Equal(t, NullInt{}, recs[2].Interest)
	assert.Nil(t, recs[1].Interest.Ptr())
	assert.Equal(t, 42, *recs[0].Interest.Ptr())
}

func TestNullInt_Scan(t *testing.T) {
	var n NullInt
	require.NoError(t, n.Scan(uint8(7)))
	assert.Equal(t, IntOf(7), n)

	require.NoError(t, n.Scan(nil))
	assert.True(t, n.Present)
	assert.False(t, n.Valid)
}

func TestNullInt_MarshalJSON(t *testing.T) {
	b, err := json.Marshal([]NullInt{IntOf(3), {Present: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `[3, null]`, string(b))
}
