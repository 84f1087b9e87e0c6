package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/texthub/textproc-gateway/internal/backend"
	"github.com/texthub/textproc-gateway/internal/db"
)

// Version is reported on the health and index endpoints.
const Version = "2.0.0"

// Gateway fans a client request out to one of the text-processing backends,
// normalizes the response, and persists the result.
type Gateway struct {
	registry backend.Registry
	client   *backend.Client
	store    *db.Store
}

func New(registry backend.Registry, client *backend.Client, store *db.Store) *Gateway {
	return &Gateway{registry: registry, client: client, store: store}
}

// ProcessRequest is one client submission.
type ProcessRequest struct {
	Text    string
	Service string
	Options backend.Options
}

// Process validates the request, invokes the selected backend, normalizes
// its response, persists the record, and returns it. Failures abort before
// the insert; no partial rows are ever written.
func (g *Gateway) Process(ctx context.Context, req ProcessRequest) (*db.TextRequest, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, clientErrorf("text cannot be empty")
	}

	svc, ok := backend.Lookup(req.Service)
	if !ok {
		return nil, clientErrorf("invalid service %q, available: %s",
			req.Service, strings.Join(backend.ServiceNames(), ", "))
	}
	addr, ok := g.registry.Resolve(req.Service)
	if !ok {
		return nil, clientErrorf("invalid service %q, available: %s",
			req.Service, strings.Join(g.registry.Names(), ", "))
	}

	raw, err := g.client.Post(ctx, addr+svc.Route(), svc.Payload(req.Text, req.Options))
	if err != nil {
		log.Error().Err(err).Str("service", req.Service).Msg("backend call failed")
		return nil, backendError(req.Service, err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Error().Err(err).Str("service", req.Service).Msg("backend returned malformed JSON")
		return nil, serverError(fmt.Sprintf("invalid response from %s service", req.Service), err)
	}

	processed := svc.Display(body)
	if processed == "" {
		log.Error().Str("service", req.Service).RawJSON("body", raw).Msg("backend returned empty result")
		return nil, serverError("microservice returned empty response", nil)
	}

	rec := &db.TextRequest{
		OriginalText:  req.Text,
		ProcessedText: processed,
		ServiceUsed:   req.Service,
		Status:        db.StatusCompleted,
		Metadata:      string(raw),
	}
	if err := g.store.Insert(ctx, rec); err != nil {
		log.Error().Err(err).Str("service", req.Service).Msg("failed to persist record")
		return nil, serverError("failed to save result", err)
	}

	log.Info().Uint("id", rec.ID).Str("service", req.Service).Msg("request processed")
	return rec, nil
}

// HealthReport is the aggregate liveness view.
type HealthReport struct {
	Status        string            `json:"status"`
	Database      string            `json:"database"`
	Version       string            `json:"version"`
	Microservices map[string]string `json:"microservices"`
}

// CheckHealth probes the store and every backend. The backend probes run
// concurrently and report independently; one failing probe does not affect
// the others. Overall status tracks store connectivity only.
func (g *Gateway) CheckHealth(ctx context.Context) HealthReport {
	report := HealthReport{
		Version:       Version,
		Microservices: make(map[string]string, len(g.registry.Names())),
	}

	if err := g.store.Ping(ctx); err != nil {
		report.Database = fmt.Sprintf("error: %v", err)
		report.Status = "unhealthy"
	} else {
		report.Database = "connected"
		report.Status = "healthy"
	}

	var mu sync.Mutex
	var eg errgroup.Group
	for _, name := range g.registry.Names() {
		addr, _ := g.registry.Resolve(name)
		eg.Go(func() error {
			status := probe(ctx, g.client, addr)
			mu.Lock()
			report.Microservices[name] = status
			mu.Unlock()
			return nil
		})
	}
	eg.Wait()

	return report
}

func probe(ctx context.Context, client *backend.Client, addr string) string {
	code, err := client.CheckHealth(ctx, addr)
	switch {
	case err != nil:
		return fmt.Sprintf("error: %v", err)
	case code >= 200 && code < 300:
		return "healthy"
	default:
		return "unhealthy"
	}
}

// History returns the most recent records, newest first.
func (g *Gateway) History(ctx context.Context, limit int) ([]db.TextRequest, error) {
	records, err := g.store.History(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list history")
		return nil, serverError("failed to load history", err)
	}
	return records, nil
}

// Stats returns per-service counts and the grand total.
func (g *Gateway) Stats(ctx context.Context) (db.Stats, error) {
	stats, err := g.store.ComputeStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute stats")
		return db.Stats{}, serverError("failed to compute stats", err)
	}
	return stats, nil
}

// Services lists the logical backend names the gateway can dispatch to.
func (g *Gateway) Services() []string {
	return g.registry.Names()
}
