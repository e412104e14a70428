package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeEvent_Operation(t *testing.T) {
	tests := []struct {
		rawType string
		want    string
	}{
		{"created", "CREATED"},
		{"updated", "UPDATED"},
		{"deleted", "DELETED"},
		{"Replaced", "REPLACED"},
		{"", ""},
	}

	for _, tt := range tests {
		evt := ChangeEvent{Type: tt.rawType}
		assert.Equal(t, tt.want, evt.Operation())
		// The verb itself stays untouched.
		assert.Equal(t, tt.rawType, evt.Type)
	}
}

func TestDecodeEntity(t *testing.T) {
	type project struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Stars    int    `json:"stars"`
		Archived bool   `json:"archived"`
	}

	rec := EntityRecord{
		"id":       "p1",
		"title":    "Phoenix",
		"stars":    float64(42), // JSON numbers arrive as float64
		"archived": true,
		MetaKey:    map[string]any{"self": "/apps/a/e/projects/p1"},
	}

	var p project
	require.NoError(t, DecodeEntity(rec, &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Phoenix", p.Title)
	assert.Equal(t, 42, p.Stars)
	assert.True(t, p.Archived)
}

func TestDecodeEntity_IgnoresUnknownFields(t *testing.T) {
	type small struct {
		Title string `json:"title"`
	}

	rec := EntityRecord{"title": "T", "extra": "ignored"}

	var s small
	require.NoError(t, DecodeEntity(rec, &s))
	assert.Equal(t, "T", s.Title)
}
