package models

import "strings"

// ChangeEvent is a single change notification decoded from an inbound
// socket frame.
type ChangeEvent struct {
	// Type is the operation verb as sent by the service (e.g. "created",
	// "updated", "deleted"). It is preserved verbatim.
	Type string `json:"type"`

	AppName string `json:"appName"`
	EnvName string `json:"envName"`

	// Data is the operation payload; its shape depends on the operation.
	Data any `json:"data"`
}

// Operation returns the uppercased operation verb for display. The
// underlying Type is left untouched.
func (e ChangeEvent) Operation() string {
	return strings.ToUpper(e.Type)
}
