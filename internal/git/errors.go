package git

import (
	stderrors "errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// ErrPathEscape signals a tree entry resolving outside the destination directory.
var ErrPathEscape = errors.ContentError("path escapes checkout directory").Build()

// GitError simplifies creating a git-scoped ClassifiedError.
func GitError(message string) *errors.ErrorBuilder {
	return errors.GitError(message)
}

// ClassifyGitError translates go-git errors into ClassifiedErrors. Known
// sentinel errors are matched first, then the message is inspected.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)

	var noRef gogit.NoMatchingRefSpecError
	l := strings.ToLower(err.Error())
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed),
		stderrors.Is(err, transport.ErrInvalidAuthMethod),
		strings.Contains(l, "authentication failed"), strings.Contains(l, "could not read username"):
		builder.WithCategory(errors.CategoryAuth).UserAction()
	case stderrors.Is(err, transport.ErrRepositoryNotFound),
		stderrors.Is(err, gogit.ErrRepositoryNotExists),
		stderrors.Is(err, plumbing.ErrReferenceNotFound),
		stderrors.As(err, &noRef),
		strings.Contains(l, "not found"), strings.Contains(l, "does not exist"),
		strings.Contains(l, "couldn't find remote ref"):
		builder.WithCategory(errors.CategoryNotFound).WithRetry(errors.RetryNever)
	case stderrors.Is(err, transport.ErrEmptyRemoteRepository):
		builder.WithCategory(errors.CategoryNotFound).WithRetry(errors.RetryNever).WithContext("empty", true)
	case strings.Contains(l, "rate limit"), strings.Contains(l, "too many requests"):
		builder.WithCategory(errors.CategoryNetwork).RateLimit()
	case strings.Contains(l, "remote hung up"), strings.Contains(l, "connection reset"),
		strings.Contains(l, "timeout"), strings.Contains(l, "no route to host"),
		strings.Contains(l, "connection refused"):
		builder.WithCategory(errors.CategoryNetwork).Retryable()
	case strings.Contains(l, "unsupported scheme"), strings.Contains(l, "unsupported protocol"),
		strings.Contains(l, "protocol not supported"):
		builder.WithCategory(errors.CategoryConfig).WithRetry(errors.RetryNever)
	}
	return builder.Build()
}

// isPermanent reports whether retrying err cannot help.
func isPermanent(err error) bool {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return false
	}
	return !ce.CanRetry()
}
