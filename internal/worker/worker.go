// Package worker implements the backend collaborator contract: one health
// endpoint plus one processing endpoint per logical service. The text
// generation itself sits behind the Generator interface so any conforming
// implementation can be swapped in; the default is a deterministic stand-in.
package worker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Analysis is the structured result of the analytics service.
type Analysis struct {
	Sentiment  string
	Entities   []string
	Topics     []string
	Complexity string
}

// Generator produces the processed text for each service.
type Generator interface {
	Translate(text, targetLanguage string) string
	Summarize(text string, maxLength int) string
	Analyze(text string) Analysis
	Improve(text, style string) string
	Keywords(text string, maxKeywords int) []string
}

// NewHandler returns the HTTP handler for one logical service backed by gen.
// Unknown service names are a caller bug.
func NewHandler(service string, gen Generator) (http.Handler, error) {
	w := &worker{service: service, gen: gen}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", w.handleHealth)

	switch service {
	case "translate":
		mux.HandleFunc("POST /translate", w.handleTranslate)
	case "summary":
		mux.HandleFunc("POST /summarize", w.handleSummarize)
	case "analytics":
		mux.HandleFunc("POST /analyze", w.handleAnalyze)
	case "improve":
		mux.HandleFunc("POST /improve", w.handleImprove)
	case "keywords":
		mux.HandleFunc("POST /extract", w.handleExtract)
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}

	return mux, nil
}

type worker struct {
	service string
	gen     Generator
}

func (wk *worker) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, map[string]string{"status": "healthy"})
}

func (wk *worker) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "es"
	}
	respond(w, map[string]any{
		"original_text":   req.Text,
		"translated_text": wk.gen.Translate(req.Text, req.TargetLanguage),
		"source_language": "auto",
		"target_language": req.TargetLanguage,
	})
}

func (wk *worker) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		MaxLength int    `json:"max_length"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.MaxLength <= 0 {
		req.MaxLength = 100
	}
	summary := wk.gen.Summarize(req.Text, req.MaxLength)
	respond(w, map[string]any{
		"original_text":   req.Text,
		"summary":         summary,
		"original_length": len(strings.Fields(req.Text)),
		"summary_length":  len(strings.Fields(summary)),
	})
}

func (wk *worker) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	a := wk.gen.Analyze(req.Text)
	respond(w, map[string]any{
		"text":           req.Text,
		"sentiment":      a.Sentiment,
		"entities":       a.Entities,
		"topics":         a.Topics,
		"word_count":     len(strings.Fields(req.Text)),
		"sentence_count": sentenceCount(req.Text),
		"complexity":     a.Complexity,
	})
}

func (wk *worker) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text  string `json:"text"`
		Style string `json:"style"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Style == "" {
		req.Style = "professional"
	}
	respond(w, map[string]any{
		"original_text": req.Text,
		"improved_text": wk.gen.Improve(req.Text, req.Style),
		"style":         req.Style,
	})
}

func (wk *worker) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text        string `json:"text"`
		MaxKeywords int    `json:"max_keywords"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.MaxKeywords <= 0 {
		req.MaxKeywords = 10
	}
	keywords := wk.gen.Keywords(req.Text, req.MaxKeywords)
	scores := make([]float64, len(keywords))
	for i := range scores {
		scores[i] = 1.0 - float64(i)*0.05
	}
	respond(w, map[string]any{
		"text":             req.Text,
		"keywords":         keywords,
		"relevance_scores": scores,
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn().Err(err).Msg("worker: bad request body")
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func sentenceCount(text string) int {
	n := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if n < 1 {
		return 1
	}
	return n
}
