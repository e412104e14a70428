package models

import (
	"encoding/json"
	"fmt"
)

// CollectionMeta is the pagination block returned under MetaKey on every
// collection response. Counts are service-computed: Items always equals the
// number of records returned and Pages is ceil(TotalCount / per_page).
type CollectionMeta struct {
	TotalCount int `json:"totalCount"`
	Items      int `json:"items"`
	Pages      int `json:"pages"`
	Page       int `json:"page"`

	// Next and Previous are page numbers, present only when such a page
	// exists.
	Next     *int `json:"next,omitempty"`
	Previous *int `json:"previous,omitempty"`

	// Page links, as returned by the service.
	CurrentPage  string  `json:"current_page"`
	PreviousPage *string `json:"previous_page,omitempty"`
	NextPage     *string `json:"next_page,omitempty"`
	FirstPage    *string `json:"first_page,omitempty"`
	LastPage     *string `json:"last_page,omitempty"`
}

// EntityCollection is one page of records of a single entity kind. The wire
// shape keys the record array by the entity kind name, next to the MetaKey
// pagination block:
//
//	{"myEntity": [...records...], "__meta": {...}}
type EntityCollection struct {
	// EntityName is the entity kind key the records arrived under.
	EntityName string

	Records []EntityRecord
	Meta    CollectionMeta
}

// UnmarshalJSON splits the entity-kind key from the MetaKey block. Exactly
// one non-meta key is expected; a response without one yields an empty
// collection rather than an error so that a fresh entity kind lists cleanly.
func (c *EntityCollection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if metaRaw, ok := raw[MetaKey]; ok {
		if err := json.Unmarshal(metaRaw, &c.Meta); err != nil {
			return fmt.Errorf("failed to parse collection meta: %w", err)
		}
	}

	for key, val := range raw {
		if key == MetaKey {
			continue
		}
		var records []EntityRecord
		if err := json.Unmarshal(val, &records); err != nil {
			return fmt.Errorf("failed to parse records under %q: %w", key, err)
		}
		c.EntityName = key
		c.Records = records
		break
	}

	return nil
}

// MarshalJSON restores the wire shape, keyed by EntityName.
func (c EntityCollection) MarshalJSON() ([]byte, error) {
	name := c.EntityName
	if name == "" {
		name = "entities"
	}
	records := c.Records
	if records == nil {
		records = []EntityRecord{}
	}
	return json.Marshal(map[string]any{
		name:    records,
		MetaKey: c.Meta,
	})
}
