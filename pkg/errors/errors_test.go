package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeSoldOut); meta.HTTPStatus != http.StatusConflict {
		t.Fatalf("sold out should map to 409, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeStateConflict); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("state conflict should map to 422, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("BOGUS")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should fall back to 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "loading offering")
	if err.Unwrap() != cause {
		t.Fatal("expected cause to be preserved")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestNilErrorAccessors(t *testing.T) {
	t.Parallel()

	var err *Error
	if err.Code() != CodeInternal {
		t.Fatal("nil error should report internal code")
	}
	if err.Error() != "" || err.Message() != "" {
		t.Fatal("nil error should render empty strings")
	}
}
