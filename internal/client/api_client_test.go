package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/kakeibo/internal/model"
)

func TestAPIClient_List_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"e-1","category":"Food & Dining","description":"lunch","date":"2025-11-15","vendor":"Blue Cafe","amount":28.5,"createdAt":"2025-11-15T12:00:00Z","updatedAt":"2025-11-15T12:00:00Z"}]`))
	}))
	defer server.Close()

	c := NewAPIClient(server.Client(), server.URL, "test-token")

	list, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", gotAuth)
	}
	if len(list) != 1 || list[0].ID != "e-1" || list[0].Amount != 28.5 {
		t.Errorf("list = %+v, want decoded expense", list)
	}
}

func TestAPIClient_Create_PostsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/expenses" {
			t.Errorf("request = %s %s, want POST /api/expenses", r.Method, r.URL.Path)
		}

		var input ExpenseInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if input.Vendor != "Staples" || input.Amount != 45.99 {
			t.Errorf("input = %+v", input)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "e-2", "category": input.Category, "description": input.Description,
			"date": input.Date, "vendor": input.Vendor, "amount": input.Amount,
		})
	}))
	defer server.Close()

	c := NewAPIClient(server.Client(), server.URL, "test-token")

	created, err := c.Create(context.Background(), ExpenseInput{
		Category: "Shopping", Description: "paper", Date: "2025-11-13", Vendor: "Staples", Amount: 45.99,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "e-2" {
		t.Errorf("id = %q, want e-2", created.ID)
	}
}

// APIのエラーレスポンスがAPIErrorに変換されること
func TestAPIClient_ErrorResponse_MappedToAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"EXPENSE_NOT_FOUND","error":"Expense not found","category":"expense"}`))
	}))
	defer server.Close()

	c := NewAPIClient(server.Client(), server.URL, "test-token")

	_, err := c.Get(context.Background(), "no-such-id")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeExpenseNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeExpenseNotFound)
	}
	if apiErr.Message != "Expense not found" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestAPIClient_NonJSONError_ReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewAPIClient(server.Client(), server.URL, "test-token")

	_, err := c.List(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("expected plain error for non-JSON body, got APIError %v", apiErr)
	}
}

func TestAPIClient_Delete_NoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewAPIClient(server.Client(), server.URL, "test-token")

	if err := c.Delete(context.Background(), "e-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}
