// Package errors classifies docpress failures.
//
// Every error that crosses a package boundary is a ClassifiedError built with
// one of the category constructors:
//
//	err := errors.GitError("sparse checkout failed").
//		WithCause(cause).
//		WithContext("repository", name).
//		Build()
//
// The category picks the CLI exit code. The retry strategy tells
// retry.Do whether another attempt is worth making.
package errors
