package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_UnwrapsCause(t *testing.T) {
	err := error(&Error{Op: OpGet, Err: context.DeadlineExceeded})

	if err.Error() != "GET: context deadline exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to reach the cause")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpGet {
		t.Errorf("errors.As failed: %v", dbErr)
	}
}
