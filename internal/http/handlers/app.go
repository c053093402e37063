// Package handlers holds the HTTP endpoints. Every handler hangs off App,
// which carries the shared dependencies.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"brandforge/internal/credits"
	"brandforge/internal/imagefetch"
	"brandforge/internal/infra"
	"brandforge/internal/middleware"
	"brandforge/internal/providers/genai"
	"brandforge/internal/providers/plan"
	"brandforge/internal/storage"
)

// Planner abstracts render-plan generation for handler tests.
type Planner interface {
	Generate(ctx context.Context, req plan.Request) *plan.RenderPlan
}

// ImageModel abstracts the image-generation provider.
type ImageModel interface {
	Configured() bool
	GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.ImageResult, error)
}

// AssetFetcher abstracts asset download for handler tests.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) (*imagefetch.Image, error)
}

// CreditLedger abstracts credit movement for handler tests.
type CreditLedger interface {
	Balance(ctx context.Context, userID string) (int, error)
	ChargeGeneration(ctx context.Context, userID string, cc credits.ChargeContext) error
	ChargeEdit(ctx context.Context, userID string, editCount int, cc credits.ChargeContext) error
}

type App struct {
	SQL      infra.SQLExecutor
	Config   infra.Config
	Logger   infra.Logger
	Planner  Planner
	Images   ImageModel
	Fetcher  AssetFetcher
	Credits  CreditLedger
	Store    storage.ObjectStore
	Reporter infra.ErrorReporter
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"success": false,
		"error":   slug,
		"message": message,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) report(ctx context.Context, err error, message string) {
	if a.Reporter != nil {
		a.Reporter.Report(ctx, err, message)
	}
}
