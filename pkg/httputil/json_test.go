package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("unexpected content type %q", ct)
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out["hello"] != "world" {
		t.Errorf("unexpected body: %v", out)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "bad input")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	var payload ErrorPayload
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error != "bad input" {
		t.Errorf("unexpected error field %q", payload.Error)
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"n":7}`)))
	w := httptest.NewRecorder()

	var out struct {
		N int `json:"n"`
	}
	if err := DecodeJSON(w, req, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.N != 7 {
		t.Errorf("expected 7, got %d", out.N)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte("!bad")))
	w := httptest.NewRecorder()

	var out map[string]any
	if err := DecodeJSON(w, req, &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeJSON_BoundsBodySize(t *testing.T) {
	huge := append([]byte(`{"v":"`), bytes.Repeat([]byte("x"), MaxBodyBytes+1)...)
	huge = append(huge, []byte(`"}`)...)
	req := httptest.NewRequest("POST", "/", bytes.NewReader(huge))
	w := httptest.NewRecorder()

	var out map[string]any
	if err := DecodeJSON(w, req, &out); err == nil {
		t.Fatal("expected error for oversized body")
	}
}
