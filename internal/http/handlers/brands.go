package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"brandforge/internal/branding"
	"brandforge/internal/domain"
	"brandforge/internal/sqlinline"
)

// loadBrand reads a brand row. Scalar columns live beside a properties jsonb
// blob that carries the structured branding fields; the blob is decoded
// first so the columns win on overlap.
func (a *App) loadBrand(ctx context.Context, brandID string) (*domain.Brand, error) {
	var (
		brand      domain.Brand
		properties []byte
	)
	row := a.SQL.QueryRow(ctx, sqlinline.QSelectBrandByID, brandID)
	var id, name, slogan, domainName, description string
	if err := row.Scan(&id, &name, &slogan, &domainName, &description, &properties); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, err
	}
	if len(properties) > 0 {
		if err := json.Unmarshal(properties, &brand); err != nil {
			a.Logger.Warn().Err(err).Str("brand_id", brandID).Msg("brands: malformed properties blob")
		}
	}
	brand.ID = id
	brand.Name = name
	brand.Slogan = slogan
	brand.Domain = domainName
	brand.Description = description
	return &brand, nil
}

// loadImage reads an image record scoped to its owner.
func (a *App) loadImage(ctx context.Context, imageID, userID string) (*domain.ImageRecord, error) {
	var (
		rec          domain.ImageRecord
		conversation []byte
		versions     []byte
		metadata     []byte
	)
	row := a.SQL.QueryRow(ctx, sqlinline.QSelectImageForUser, imageID, userID)
	err := row.Scan(&rec.ID, &rec.BrandID, &rec.UserID, &rec.Status, &rec.ImageURL,
		&rec.EditCount, &conversation, &versions, &metadata, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(conversation, &rec.Conversation)
	_ = json.Unmarshal(versions, &rec.Versions)
	_ = json.Unmarshal(metadata, &rec.Metadata)
	return &rec, nil
}

// BrandTemplates returns the template catalog filtered to the brand's style
// profile.
func (a *App) BrandTemplates(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brand_id")
	brand, err := a.loadBrand(r.Context(), brandID)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "brand not found")
			return
		}
		a.report(r.Context(), err, "brands: load failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load brand")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"brand_id":  brand.ID,
		"templates": branding.SelectTemplates(brand),
	})
}

// CreditsBalance returns the caller's current credit balance.
func (a *App) CreditsBalance(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	balance, err := a.Credits.Balance(r.Context(), userID)
	if err != nil {
		a.report(r.Context(), err, "credits: balance read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read balance")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "credits": balance})
}
