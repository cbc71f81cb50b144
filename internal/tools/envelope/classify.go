package envelope

import (
	"errors"
	"strings"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

// AuthGuidance is the details text of authentication failures. It names
// tokenEnv, the variable the token is read from; empty means
// todoist.TokenEnvVar.
func AuthGuidance(tokenEnv string) string {
	if tokenEnv == "" {
		tokenEnv = todoist.TokenEnvVar
	}
	return "Authentication with Todoist failed. Check that " + tokenEnv +
		" is set to a valid Todoist API token and that it has not been revoked."
}

// authMarkers are matched case-insensitively against failures that carry
// no structured information.
var authMarkers = []string{"401", "403", "unauthorized", "forbidden", "authentication", "token"}

// Classifier builds error envelopes for one server. TokenEnv is the
// configured token variable, used in the guidance for rejected tokens.
type Classifier struct {
	TokenEnv string
}

// Classify builds the error envelope for err raised by operation, naming
// itemID when one is given. Authentication failures get AuthGuidance as
// details instead of the raw error text.
func (c Classifier) Classify(err error, operation, itemID string) ErrorEnvelope {
	summary := "Error in " + operation
	if itemID != "" {
		summary += " for item " + itemID
	}

	details := ""
	if err != nil {
		details = err.Error()
	}
	if IsAuthError(err) {
		variable := c.TokenEnv
		var cfgErr *todoist.ConfigurationError
		if errors.As(err, &cfgErr) && cfgErr.Variable != "" {
			variable = cfgErr.Variable
		}
		details = AuthGuidance(variable)
	}

	return ErrorEnvelope{Error: summary, Details: details}
}

// Classify is Classifier.Classify for the default token variable.
func Classify(err error, operation, itemID string) ErrorEnvelope {
	return Classifier{}.Classify(err, operation, itemID)
}

// IsAuthError reports whether err means the credential is missing or was
// rejected. Typed errors decide first; any other error whose text mentions
// one of the auth markers also counts, which can misfire on unrelated
// messages (a task whose content contains "token", say).
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var cfgErr *todoist.ConfigurationError
	if errors.As(err, &cfgErr) {
		return true
	}
	var apiErr *todoist.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsAuth()
	}

	text := strings.ToLower(err.Error())
	for _, marker := range authMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
