package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityCollection_UnmarshalJSON(t *testing.T) {
	raw := `{
		"projects": [
			{"id": "a1", "title": "Phoenix", "__meta": {"self": "/apps/myapp/dev/projects/a1"}},
			{"id": "a2", "title": "Pegasus", "__meta": {"self": "/apps/myapp/dev/projects/a2"}}
		],
		"__meta": {
			"totalCount": 5,
			"items": 2,
			"pages": 3,
			"page": 1,
			"next": 2,
			"current_page": "/apps/myapp/dev/projects?__page=1&__per_page=2",
			"next_page": "/apps/myapp/dev/projects?__page=2&__per_page=2",
			"first_page": "/apps/myapp/dev/projects?__page=1&__per_page=2",
			"last_page": "/apps/myapp/dev/projects?__page=3&__per_page=2"
		}
	}`

	var coll EntityCollection
	require.NoError(t, json.Unmarshal([]byte(raw), &coll))

	assert.Equal(t, "projects", coll.EntityName)
	require.Len(t, coll.Records, 2)
	assert.Equal(t, "a1", coll.Records[0].ID())
	assert.Equal(t, "Phoenix", coll.Records[0]["title"])
	assert.Equal(t, "/apps/myapp/dev/projects/a1", coll.Records[0].SelfLink())

	assert.Equal(t, 5, coll.Meta.TotalCount)
	assert.Equal(t, coll.Meta.Items, len(coll.Records))
	assert.Equal(t, 3, coll.Meta.Pages)
	assert.Equal(t, 1, coll.Meta.Page)
	require.NotNil(t, coll.Meta.Next)
	assert.Equal(t, 2, *coll.Meta.Next)
	assert.Nil(t, coll.Meta.Previous)
	require.NotNil(t, coll.Meta.NextPage)
	assert.Nil(t, coll.Meta.PreviousPage)
}

func TestEntityCollection_UnmarshalJSON_Empty(t *testing.T) {
	var coll EntityCollection
	require.NoError(t, json.Unmarshal([]byte(`{"__meta": {"totalCount": 0, "items": 0, "pages": 0, "page": 1, "current_page": "/x"}}`), &coll))

	assert.Empty(t, coll.EntityName)
	assert.Empty(t, coll.Records)
	assert.Zero(t, coll.Meta.TotalCount)
}

func TestEntityCollection_RoundTrip(t *testing.T) {
	coll := EntityCollection{
		EntityName: "books",
		Records:    []EntityRecord{{"id": "b1", "title": "Dune"}},
		Meta:       CollectionMeta{TotalCount: 1, Items: 1, Pages: 1, Page: 1, CurrentPage: "/apps/a/e/books"},
	}

	data, err := json.Marshal(coll)
	require.NoError(t, err)

	var decoded EntityCollection
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, coll.EntityName, decoded.EntityName)
	assert.Equal(t, coll.Records, decoded.Records)
	assert.Equal(t, coll.Meta, decoded.Meta)
}

func TestEntityRecord_Helpers(t *testing.T) {
	rec := EntityRecord{
		"id":    "r1",
		"title": "T",
		MetaKey: map[string]any{"self": "/apps/a/e/things/r1"},
	}

	assert.Equal(t, "r1", rec.ID())
	assert.Equal(t, "/apps/a/e/things/r1", rec.SelfLink())

	assert.Empty(t, EntityRecord{"title": "T"}.ID())
	assert.Empty(t, EntityRecord{"id": "x"}.SelfLink())
}
