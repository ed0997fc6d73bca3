package errors_test

import (
	stderrors "errors"
	"testing"

	pkgerrors "civicboard/pkg/errors"
)

func TestErrorCodeMessages(t *testing.T) {
	cases := []struct {
		code pkgerrors.ErrorCode
		want string
	}{
		{pkgerrors.ProblemNotFound, "Problem not found"},
		{pkgerrors.RequiredFieldEmpty, "Please provide all required fields"},
		{pkgerrors.InvalidStatusValue, "Invalid status. Must be: open, in-progress, or resolved"},
		{pkgerrors.InternalServerError, "Something went wrong!"},
		{pkgerrors.NotFound, "Route not found"},
	}

	for _, tc := range cases {
		if got := tc.code.Message(); got != tc.want {
			t.Errorf("code %d: got %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestErrorCodeHTTPStatus(t *testing.T) {
	cases := []struct {
		code pkgerrors.ErrorCode
		want int
	}{
		{pkgerrors.Success, 200},
		{pkgerrors.InvalidParams, 400},
		{pkgerrors.RequiredFieldEmpty, 400},
		{pkgerrors.InvalidStatusValue, 400},
		{pkgerrors.NotFound, 404},
		{pkgerrors.ProblemNotFound, 404},
		{pkgerrors.InternalServerError, 500},
		{pkgerrors.StoreError, 500},
	}

	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("code %d: got status %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	base := stderrors.New("connection refused")
	wrapped := pkgerrors.Wrap(base, pkgerrors.StoreError)

	if wrapped.Code != pkgerrors.StoreError {
		t.Fatalf("got code %d, want %d", wrapped.Code, pkgerrors.StoreError)
	}
	if !stderrors.Is(wrapped, base) {
		t.Fatal("wrapped error must unwrap to the base error")
	}
	if wrapped.Error() != "connection refused" {
		t.Fatalf("got message %q", wrapped.Error())
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := pkgerrors.New(pkgerrors.ProblemNotFound)

	if !pkgerrors.Is(err, pkgerrors.ProblemNotFound) {
		t.Fatal("Is must match the code")
	}
	if pkgerrors.Is(err, pkgerrors.InvalidParams) {
		t.Fatal("Is must not match a different code")
	}
	if pkgerrors.Is(nil, pkgerrors.ProblemNotFound) {
		t.Fatal("Is on nil must be false")
	}
}

func TestGetErrorWrapsForeignErrors(t *testing.T) {
	base := stderrors.New("boom")
	got := pkgerrors.GetError(base)

	if got.Code != pkgerrors.InternalServerError {
		t.Fatalf("got code %d, want internal", got.Code)
	}
	if pkgerrors.GetError(nil) != nil {
		t.Fatal("GetError(nil) must be nil")
	}
}
