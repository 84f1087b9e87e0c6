package backend

import (
	"fmt"
	"sort"
	"strings"
)

// Options carries the optional per-service parameters from a client request.
// Values arrive as decoded JSON, so numbers are float64.
type Options map[string]any

func (o Options) str(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func (o Options) num(key string, def int) int {
	switch v := o[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// Service is one logical backend: it knows its processing route, how to
// build the backend-specific request payload, and how to shape the parsed
// response body into display text.
type Service interface {
	Name() string
	Route() string
	Payload(text string, opts Options) map[string]any
	Display(body map[string]any) string
}

var services = map[string]Service{
	"translate": translateService{},
	"summary":   summaryService{},
	"analytics": analyticsService{},
	"improve":   improveService{},
	"keywords":  keywordsService{},
}

// Lookup returns the Service for a logical name.
func Lookup(name string) (Service, bool) {
	svc, ok := services[name]
	return svc, ok
}

// ServiceNames returns the fixed set of logical service names, sorted.
func ServiceNames() []string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type translateService struct{}

func (translateService) Name() string  { return "translate" }
func (translateService) Route() string { return "/translate" }

func (translateService) Payload(text string, opts Options) map[string]any {
	return map[string]any{
		"text":            text,
		"target_language": opts.str("target_language", "es"),
	}
}

func (translateService) Display(body map[string]any) string {
	return field(body, "translated_text")
}

type summaryService struct{}

func (summaryService) Name() string  { return "summary" }
func (summaryService) Route() string { return "/summarize" }

func (summaryService) Payload(text string, opts Options) map[string]any {
	return map[string]any{
		"text":       text,
		"max_length": opts.num("max_length", 100),
	}
}

func (summaryService) Display(body map[string]any) string {
	return field(body, "summary")
}

type analyticsService struct{}

func (analyticsService) Name() string  { return "analytics" }
func (analyticsService) Route() string { return "/analyze" }

func (analyticsService) Payload(text string, _ Options) map[string]any {
	return map[string]any{"text": text}
}

func (analyticsService) Display(body map[string]any) string {
	return fmt.Sprintf("Sentiment: %s\nEntities: %s\nTopics: %s\nComplexity: %s\nWord count: %d",
		field(body, "sentiment"),
		strings.Join(list(body, "entities"), ", "),
		strings.Join(list(body, "topics"), ", "),
		field(body, "complexity"),
		count(body, "word_count"))
}

type improveService struct{}

func (improveService) Name() string  { return "improve" }
func (improveService) Route() string { return "/improve" }

func (improveService) Payload(text string, opts Options) map[string]any {
	return map[string]any{
		"text":  text,
		"style": opts.str("style", "professional"),
	}
}

func (improveService) Display(body map[string]any) string {
	return field(body, "improved_text")
}

type keywordsService struct{}

func (keywordsService) Name() string  { return "keywords" }
func (keywordsService) Route() string { return "/extract" }

func (keywordsService) Payload(text string, opts Options) map[string]any {
	return map[string]any{
		"text":         text,
		"max_keywords": opts.num("max_keywords", 10),
	}
}

func (keywordsService) Display(body map[string]any) string {
	return "Keywords: " + strings.Join(list(body, "keywords"), ", ")
}

// field reads a string field, defaulting to empty when missing or mistyped.
func field(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

// list reads a string array field, defaulting to empty.
func list(body map[string]any, key string) []string {
	raw, _ := body[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// count reads a numeric field, defaulting to zero.
func count(body map[string]any, key string) int {
	n, _ := body[key].(float64)
	return int(n)
}
