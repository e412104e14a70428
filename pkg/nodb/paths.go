package nodb

import "fmt"

// Resource path templates. These are pure string builders: no URL encoding
// beyond what the transport performs, and names containing "/" are a caller
// error, not sanitized here.

// EntityPath returns the collection path for an entity kind within an
// application environment, or the record path when id is non-empty.
func EntityPath(appName, envName, entityName, id string) string {
	base := fmt.Sprintf("/apps/%s/%s/%s", appName, envName, entityName)
	if id == "" {
		return base
	}
	return base + "/" + id
}

// AppPath returns the path for application-level operations.
func AppPath(appName string) string {
	return "/apps/" + appName
}

// EnvPath returns the path for environment-level operations.
func EnvPath(appName, envName string) string {
	return fmt.Sprintf("/apps/%s/%s", appName, envName)
}

// AppTokensPath returns the path for creating application-scoped tokens.
func AppTokensPath(appName string) string {
	return "/tokens/" + appName
}

// EnvTokensPath returns the path for creating environment-scoped tokens.
func EnvTokensPath(appName, envName string) string {
	return fmt.Sprintf("/tokens/%s/%s", appName, envName)
}

// RevokeAppTokenPath returns the path for revoking an application-scoped
// token.
func RevokeAppTokenPath(appName, token string) string {
	return fmt.Sprintf("/tokens/%s/%s", appName, token)
}

// RevokeEnvTokenPath returns the path for revoking an environment-scoped
// token.
func RevokeEnvTokenPath(appName, envName, token string) string {
	return fmt.Sprintf("/tokens/%s/%s/%s", appName, envName, token)
}

// KnowledgeBasePath returns the path for natural-language inquiries against
// an environment's data.
func KnowledgeBasePath(appName, envName string) string {
	return fmt.Sprintf("/knowledgebase/%s/%s", appName, envName)
}

// SocketPath returns the change-event socket path for an application, or
// for a single environment when envName is non-empty.
func SocketPath(appName, envName string) string {
	if envName == "" {
		return "/ws/" + appName
	}
	return fmt.Sprintf("/ws/%s/%s", appName, envName)
}
