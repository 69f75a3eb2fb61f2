// internal/app/system/dberr/dberr_test.go
package dberr

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassifyNil(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatal("Classify(nil) should be nil")
	}
}

func TestClassifyNoDocuments(t *testing.T) {
	err := Classify(mongo.ErrNoDocuments)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if IsAccessDenied(err) || IsUnavailable(err) {
		t.Fatal("NotFound must not match other classes")
	}
}

func TestClassifyUnauthorized(t *testing.T) {
	err := Classify(mongo.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized on labsite"})
	if !IsAccessDenied(err) {
		t.Fatalf("expected AccessDenied, got %v", err)
	}
	if IsNotFound(err) {
		t.Fatal("AccessDenied must be distinct from NotFound")
	}
}

func TestClassifyDeadline(t *testing.T) {
	err := Classify(context.DeadlineExceeded)
	if !IsUnavailable(err) {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestClassifyPassthrough(t *testing.T) {
	cause := errors.New("some other failure")
	if got := Classify(cause); !errors.Is(got, cause) {
		t.Fatalf("unclassified errors must pass through, got %v", got)
	}
}
