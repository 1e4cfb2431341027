package dtos

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchProbe struct {
	Notes   Optional[string]    `json:"notes"`
	DueDate Optional[time.Time] `json:"due_date"`
}

func TestOptional_DistinguishesAbsentNullAndValue(t *testing.T) {
	var p patchProbe
	require.NoError(t, json.Unmarshal([]byte(`{"notes": null}`), &p))
	assert.True(t, p.Notes.Set)
	assert.Nil(t, p.Notes.Value)
	assert.False(t, p.DueDate.Set)

	var q patchProbe
	require.NoError(t, json.Unmarshal([]byte(`{"notes": "hi", "due_date": "2026-01-02T00:00:00Z"}`), &q))
	require.NotNil(t, q.Notes.Value)
	assert.Equal(t, "hi", *q.Notes.Value)
	require.NotNil(t, q.DueDate.Value)
	assert.Equal(t, 2026, q.DueDate.Value.Year())
}

func TestOptional_Apply(t *testing.T) {
	eq := func(a, b string) bool { return a == b }
	old := "old"
	dst := &old

	assert.False(t, Optional[string]{}.Apply(&dst, eq))
	assert.Equal(t, "old", *dst)

	assert.False(t, Some("old").Apply(&dst, eq))

	assert.True(t, Some("new").Apply(&dst, eq))
	assert.Equal(t, "new", *dst)

	assert.True(t, Null[string]().Apply(&dst, eq))
	assert.Nil(t, dst)

	assert.False(t, Null[string]().Apply(&dst, eq))
}
