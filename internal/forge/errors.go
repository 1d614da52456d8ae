package forge

import (
	stderrors "errors"
	"net/http"

	gh "github.com/google/go-github/v66/github"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// ErrUsernameRequired signals that a listing was requested without an account name.
var ErrUsernameRequired = errors.ValidationError("username is required").Build()

// classifyAPIError maps a provider API failure onto a classified error.
func classifyAPIError(err error, op, username string) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse

	switch {
	case stderrors.As(err, &rateErr), stderrors.As(err, &abuseErr):
		return errors.NetworkError("GitHub API rate limit exceeded").
			WithCause(err).
			RateLimit().
			WithContext("operation", op).
			WithContext("user", username).
			Build()
	case stderrors.As(err, &respErr) && respErr.Response != nil:
		status := respErr.Response.StatusCode
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return errors.AuthError("GitHub API rejected the credentials").
				WithCause(err).
				WithContext("operation", op).
				WithContext("status", status).
				Build()
		case status == http.StatusNotFound:
			return errors.NotFoundError("user not found").
				WithCause(err).
				WithContext("operation", op).
				WithContext("user", username).
				Build()
		case status < http.StatusInternalServerError:
			return errors.ForgeError("GitHub API request failed").
				WithCause(err).
				WithRetry(errors.RetryNever).
				WithContext("operation", op).
				WithContext("status", status).
				Build()
		}
	}
	return errors.ForgeError("GitHub API request failed").
		WithCause(err).
		WithContext("operation", op).
		WithContext("user", username).
		Build()
}
