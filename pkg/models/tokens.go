package models

// Permission is the access level attached to a service token.
type Permission string

const (
	PermissionAll      Permission = "ALL"
	PermissionReadOnly Permission = "READ_ONLY"
)

// TokenDescriptor is a token as issued by the application/environment
// token-creation endpoints. The client treats the key as opaque beyond
// passing it back as a credential.
type TokenDescriptor struct {
	Key        string     `json:"key"`
	Permission Permission `json:"permission"`
}

// ApplicationTokens is the response to creating an application, including
// the token sets for the application and its bootstrapped first environment
// (if one was requested).
type ApplicationTokens struct {
	ApplicationName   string            `json:"applicationName"`
	EnvironmentName   string            `json:"environmentName,omitempty"`
	ApplicationTokens []TokenDescriptor `json:"applicationTokens"`
	EnvironmentTokens []TokenDescriptor `json:"environmentTokens,omitempty"`
}

// EnvironmentTokens is the response to creating an environment within an
// existing application.
type EnvironmentTokens struct {
	EnvironmentName string            `json:"environmentName"`
	Tokens          []TokenDescriptor `json:"tokens"`
}
