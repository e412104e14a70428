package models

// MetaKey is the reserved field under which the service stores the record
// envelope (self link) on single entities and the pagination block on
// collections. It is never a user field.
const MetaKey = "__meta"

// EntityRecord is a single schemaless record as stored by the service.
// Field names map to arbitrary JSON values. Persisted records additionally
// carry a server-assigned "id" and a MetaKey envelope; the client never
// invents either.
type EntityRecord map[string]any

// ID returns the server-assigned record id, or "" if the record has not
// been persisted yet.
func (r EntityRecord) ID() string {
	id, _ := r["id"].(string)
	return id
}

// SelfLink returns the canonical path to the record from the MetaKey
// envelope, or "" when the envelope is absent.
func (r EntityRecord) SelfLink() string {
	meta, ok := r[MetaKey].(map[string]any)
	if !ok {
		return ""
	}
	self, _ := meta["self"].(string)
	return self
}
