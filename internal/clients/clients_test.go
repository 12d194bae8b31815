package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserStatusClientConfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/7/status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"userId":         7,
			"emailConfirmed": true,
			"isActive":       true,
		})
	}))
	defer server.Close()

	client := NewUserStatusClient(server.URL)

	if !client.Exists(context.Background(), 7) {
		t.Fatal("expected user to exist")
	}
	if !client.IsEmailConfirmed(context.Background(), 7) {
		t.Fatal("expected email to be confirmed")
	}
}

func TestUserStatusClientUnconfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"userId":         7,
			"emailConfirmed": false,
			"isActive":       true,
		})
	}))
	defer server.Close()

	client := NewUserStatusClient(server.URL)
	if client.IsEmailConfirmed(context.Background(), 7) {
		t.Fatal("expected unconfirmed answer")
	}
}

func TestUserStatusClientMissingUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewUserStatusClient(server.URL)
	if client.Exists(context.Background(), 99) {
		t.Fatal("missing user should not exist")
	}
	if client.IsEmailConfirmed(context.Background(), 99) {
		t.Fatal("missing user should not be confirmed")
	}
}

func TestUserStatusClientUnreachableFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down before use

	client := NewUserStatusClient(server.URL)
	if client.Exists(context.Background(), 7) {
		t.Fatal("unreachable service must answer false")
	}
	if client.IsEmailConfirmed(context.Background(), 7) {
		t.Fatal("unreachable service must answer false")
	}
}

func TestProductSyncClientPushesBooleanBody(t *testing.T) {
	var gotPath, gotMethod, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewProductSyncClient(server.URL)
	if err := client.PushOwnerStatus(context.Background(), 7, false); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	if gotPath != "/api/products/internal/user-status/7" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("unexpected method: %s", gotMethod)
	}
	if gotBody != "false" {
		t.Errorf("unexpected body: %q", gotBody)
	}
}

func TestProductSyncClientSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewProductSyncClient(server.URL)
	if err := client.PushOwnerStatus(context.Background(), 7, true); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
