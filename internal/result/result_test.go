package result

import (
	"net/http"
	"testing"
)

func TestErrorCodeHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{None, http.StatusOK},
		{NotFound, http.StatusNotFound},
		{Validation, http.StatusBadRequest},
		{Conflict, http.StatusConflict},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{InternalServerError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestSuccessCarriesValue(t *testing.T) {
	res := Success("payload")
	if !res.IsSuccess() {
		t.Fatal("expected success")
	}
	if res.Value != "payload" {
		t.Fatalf("unexpected value: %q", res.Value)
	}
	if res.Code != None {
		t.Fatalf("unexpected code: %v", res.Code)
	}
}

func TestFailureCarriesCodeAndMessage(t *testing.T) {
	res := Failure[string](Conflict, "already exists")
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Code != Conflict {
		t.Fatalf("unexpected code: %v", res.Code)
	}
	if len(res.Errors) != 1 || res.Errors[0] != "already exists" {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestFailureListKeepsAllMessages(t *testing.T) {
	messages := []string{"name is required", "price must be positive"}
	res := FailureList[int](Validation, messages)
	if len(res.Errors) != 2 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestOKIsEmptySuccess(t *testing.T) {
	res := OK()
	if !res.IsSuccess() {
		t.Fatal("expected success")
	}
}
