// Copyright (c) 2025 ChatAI Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =============================================================================
// GENERATE TESTS
// =============================================================================

func TestClient_Generate(t *testing.T) {
	var gotReq GenerateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(GenerateResponse{
			Model:    gotReq.Model,
			Response: "Paris.",
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	text, err := client.Generate(context.Background(), "llama3.2:1b", "Human: capital of France?\nAssistant:")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Paris." {
		t.Errorf("response = %q, want %q", text, "Paris.")
	}

	if gotReq.Model != "llama3.2:1b" {
		t.Errorf("request model = %q, want llama3.2:1b", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("request should not ask for streaming")
	}
}

func TestClient_Generate_DefaultModel(t *testing.T) {
	var gotModel string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		json.NewEncoder(w).Encode(GenerateResponse{Response: "ok", Done: true})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	if _, err := client.Generate(context.Background(), "", "prompt"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if gotModel != "llama3.2:1b" {
		t.Errorf("model = %q, want default llama3.2:1b", gotModel)
	}
}

func TestClient_Generate_MissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{Done: true})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	_, err := client.Generate(context.Background(), "m", "p")
	if !IsEmptyResponse(err) {
		t.Errorf("expected empty-response error, got %v", err)
	}
}

func TestClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(APIError{Error: "model failed to load"})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	_, err := client.Generate(context.Background(), "m", "p")
	if err == nil {
		t.Fatal("expected error on 500 status")
	}

	clientErr, ok := err.(*ClientError)
	if !ok {
		t.Fatalf("expected *ClientError, got %T", err)
	}
	if clientErr.Type != ErrTypeInvalidResponse {
		t.Errorf("error type = %d, want ErrTypeInvalidResponse", clientErr.Type)
	}
	if clientErr.Message != "model failed to load" {
		t.Errorf("error message = %q, want server-provided message", clientErr.Message)
	}
}

func TestClient_Generate_NotRunning(t *testing.T) {
	// A closed server address refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	_, err := client.Generate(context.Background(), "m", "p")
	if !IsNotRunning(err) {
		t.Errorf("expected not-running error, got %v", err)
	}
}

func TestClient_Generate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(GenerateResponse{Response: "late", Done: true})
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "m", "p")
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestClient_CheckRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})
	if err := client.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning failed: %v", err)
	}

	server.Close()
	if err := client.CheckRunning(context.Background()); !IsNotRunning(err) {
		t.Errorf("expected not-running error after close, got %v", err)
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})

	cfg := client.GetConfig()
	if cfg.BaseURL != "http://127.0.0.1:11434" {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.DefaultModel != "llama3.2:1b" {
		t.Errorf("DefaultModel = %q, want llama3.2:1b", cfg.DefaultModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
}

func TestNewClientWithConfig_NilConfig(t *testing.T) {
	client := NewClientWithConfig(nil)
	if client.GetConfig().BaseURL == "" {
		t.Error("nil config should fall back to defaults")
	}
}
