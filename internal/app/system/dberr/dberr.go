// internal/app/system/dberr/dberr.go
package dberr

// Classification of MongoDB errors at the store boundary. Handlers decide
// what to do from the class, not from driver error strings:
//
//   - NotFound:     the document does not exist (deletes treat this as a no-op)
//   - AccessDenied: the server rejected the operation for authorization
//     reasons; distinct from NotFound and never worth an automatic retry
//   - Unavailable:  network / server-selection trouble; a manual retry may
//     succeed later

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrAccessDenied = errors.New("access denied")
	ErrUnavailable  = errors.New("database unavailable")
)

// mongoUnauthorized is the server code for an authorization failure.
const mongoUnauthorized = 13

// Classify maps a driver error onto the store-level taxonomy. Errors that
// fit no class (bad BSON, write conflicts, ...) pass through unchanged so
// callers still see the original cause.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if ce.Code == mongoUnauthorized {
			return errors.Join(ErrAccessDenied, err)
		}
		if ce.HasErrorLabel("NetworkError") {
			return errors.Join(ErrUnavailable, err)
		}
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrUnavailable, err)
	}

	var sse mongo.ServerError
	if errors.As(err, &sse) && sse.HasErrorCode(mongoUnauthorized) {
		return errors.Join(ErrAccessDenied, err)
	}

	return err
}

// IsNotFound reports whether err classifies as a missing document.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAccessDenied reports whether err classifies as an authorization failure.
func IsAccessDenied(err error) bool { return errors.Is(err, ErrAccessDenied) }

// IsUnavailable reports whether err classifies as a transient outage.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
