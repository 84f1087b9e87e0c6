package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return w, decoded
}

func TestNewHandlerUnknownService(t *testing.T) {
	if _, err := NewHandler("ocr", EchoGenerator{}); err == nil {
		t.Error("expected error for unknown service")
	}
}

func TestHealthEndpoint(t *testing.T) {
	for _, service := range []string{"translate", "summary", "analytics", "improve", "keywords"} {
		h, err := NewHandler(service, EchoGenerator{})
		if err != nil {
			t.Fatalf("%s: %v", service, err)
		}
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", service, w.Code)
		}
		var body map[string]string
		json.NewDecoder(w.Body).Decode(&body)
		if body["status"] != "healthy" {
			t.Errorf("%s: expected healthy, got %q", service, body["status"])
		}
	}
}

func TestTranslateContract(t *testing.T) {
	h, _ := NewHandler("translate", EchoGenerator{})
	w, body := post(t, h, "/translate", `{"text":"hello","target_language":"fr"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["original_text"] != "hello" {
		t.Errorf("expected original_text echo, got %v", body["original_text"])
	}
	if body["translated_text"] == "" {
		t.Error("expected non-empty translated_text")
	}
	if body["target_language"] != "fr" {
		t.Errorf("expected target_language fr, got %v", body["target_language"])
	}
	if body["source_language"] != "auto" {
		t.Errorf("expected source_language auto, got %v", body["source_language"])
	}
}

func TestSummarizeContract(t *testing.T) {
	h, _ := NewHandler("summary", EchoGenerator{})
	w, body := post(t, h, "/summarize", `{"text":"one two three four five","max_length":3}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["summary"] != "one two three" {
		t.Errorf("expected truncated summary, got %v", body["summary"])
	}
	if body["original_length"] != float64(5) {
		t.Errorf("expected original_length 5, got %v", body["original_length"])
	}
	if body["summary_length"] != float64(3) {
		t.Errorf("expected summary_length 3, got %v", body["summary_length"])
	}
}

func TestAnalyzeContract(t *testing.T) {
	h, _ := NewHandler("analytics", EchoGenerator{})
	w, body := post(t, h, "/analyze", `{"text":"Hello there. How are you?"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, key := range []string{"sentiment", "entities", "topics", "word_count", "sentence_count", "complexity"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if body["word_count"] != float64(5) {
		t.Errorf("expected word_count 5, got %v", body["word_count"])
	}
	if body["sentence_count"] != float64(2) {
		t.Errorf("expected sentence_count 2, got %v", body["sentence_count"])
	}
}

func TestImproveContract(t *testing.T) {
	h, _ := NewHandler("improve", EchoGenerator{})
	w, body := post(t, h, "/improve", `{"text":"helo wrld"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["improved_text"] == "" {
		t.Error("expected non-empty improved_text")
	}
	if body["style"] != "professional" {
		t.Errorf("expected default style, got %v", body["style"])
	}
}

func TestExtractContract(t *testing.T) {
	h, _ := NewHandler("keywords", EchoGenerator{})
	w, body := post(t, h, "/extract", `{"text":"gateway gateway service routing text","max_keywords":2}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	keywords, ok := body["keywords"].([]any)
	if !ok || len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %v", body["keywords"])
	}
	if keywords[0] != "gateway" {
		t.Errorf("expected most frequent word first, got %v", keywords[0])
	}
	scores, ok := body["relevance_scores"].([]any)
	if !ok || len(scores) != len(keywords) {
		t.Errorf("expected one score per keyword, got %v", body["relevance_scores"])
	}
}

func TestBadRequestBody(t *testing.T) {
	h, _ := NewHandler("translate", EchoGenerator{})
	w, _ := post(t, h, "/translate", "not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
