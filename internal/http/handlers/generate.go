package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandforge/internal/branding"
	"brandforge/internal/credits"
	"brandforge/internal/domain"
	"brandforge/internal/imagefetch"
	"brandforge/internal/middleware"
	"brandforge/internal/providers/genai"
	"brandforge/internal/providers/plan"
	"brandforge/internal/sqlinline"
)

const (
	// maxMustIncludeAssets caps the assets that must appear in the output.
	maxMustIncludeAssets = 6
	// maxTotalImages caps every inline image sent to the model: brand
	// collateral, must-include assets, references, and the edit source.
	maxTotalImages = 14
)

type generateRequest struct {
	BrandID              string            `json:"brand_id"`
	ImageID              string            `json:"image_id"`
	Prompt               string            `json:"prompt"`
	AspectRatio          string            `json:"aspect_ratio"`
	EditMode             bool              `json:"edit_mode"`
	IncludeLogoReference *bool             `json:"include_logo_reference"`
	Assets               []domain.AssetRef `json:"assets"`
	References           []domain.AssetRef `json:"reference_images"`
}

func (r generateRequest) wantsLogo() bool {
	return r.IncludeLogoReference == nil || *r.IncludeLogoReference
}

type generateResponse struct {
	Success       bool           `json:"success"`
	ImageURL      string         `json:"image_url"`
	ImageBase64   string         `json:"image_base64"`
	MIMEType      string         `json:"mime_type"`
	TextResponse  string         `json:"text_response,omitempty"`
	GPTPromptInfo *gptPromptInfo `json:"gpt_prompt_info,omitempty"`
}

type gptPromptInfo struct {
	Channel     string `json:"channel,omitempty"`
	Objective   string `json:"objective,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	FinalPrompt string `json:"final_prompt,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ImagesGenerate creates a new brand image or, when edit_mode is set, edits
// the existing record named by image_id. A generate request may also carry an
// image_id to persist the result into a record created ahead of time.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	if req.BrandID == "" && req.ImageID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "brand_id or image_id is required")
		return
	}
	if req.EditMode && req.ImageID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_id is required in edit mode")
		return
	}
	// Anything that is not one of the supported labels, including "auto",
	// falls back to letting the model pick the shape.
	req.AspectRatio = branding.NormalizeRatio(req.AspectRatio)
	if len(req.Assets) > maxMustIncludeAssets {
		a.error(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("too many assets: %d exceeds the maximum of %d", len(req.Assets), maxMustIncludeAssets))
		return
	}
	for i := range req.Assets {
		req.Assets[i].Role = domain.AssetRoleMustInclude
	}
	for i := range req.References {
		req.References[i].Role = domain.AssetRoleStyleReference
	}
	if !a.Images.Configured() {
		a.error(w, http.StatusInternalServerError, "internal", "image provider not configured")
		return
	}

	ctx := r.Context()
	editing := req.EditMode

	var record *domain.ImageRecord
	if req.ImageID != "" {
		rec, err := a.loadImage(ctx, req.ImageID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrImageNotFound) {
				a.error(w, http.StatusNotFound, "not_found", "image not found")
				return
			}
			a.report(ctx, err, "images: load failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load image")
			return
		}
		record = rec
		if req.BrandID == "" {
			req.BrandID = rec.BrandID
		}
	}

	brand, err := a.loadBrand(ctx, req.BrandID)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "brand not found")
			return
		}
		a.report(ctx, err, "brands: load failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load brand")
		return
	}

	slots := buildSlots(brand, record, req)
	if len(slots) > maxTotalImages {
		a.error(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("too many images: %d exceeds the maximum of %d", len(slots), maxTotalImages))
		return
	}

	chargeCtx := credits.ChargeContext{
		RequestID: middleware.RequestIDFromContext(ctx),
		ClientIP:  middleware.ClientIP(r),
		ImageID:   req.ImageID,
	}
	if editing {
		err = a.Credits.ChargeEdit(ctx, userID, record.EditCount, chargeCtx)
	} else {
		err = a.Credits.ChargeGeneration(ctx, userID, chargeCtx)
	}
	if err != nil {
		var insufficient *domain.InsufficientCreditsError
		switch {
		case errors.As(err, &insufficient):
			a.json(w, http.StatusPaymentRequired, map[string]any{
				"success": false,
				"error":   "insufficient_credits",
				"message": "not enough credits for this request",
				"credits": insufficient.Balance,
			})
		case errors.Is(err, domain.ErrCreditConflict):
			a.error(w, http.StatusConflict, "credit_conflict", "credit balance is changing, retry shortly")
		default:
			a.report(ctx, err, "credits: charge failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to charge credits")
		}
		return
	}

	renderPlan := a.Planner.Generate(ctx, plan.Request{
		UserPrompt:  req.Prompt,
		Brand:       brand,
		Assets:      req.Assets,
		References:  req.References,
		AspectRatio: req.AspectRatio,
	})

	var editSource *domain.ImageRecord
	if editing {
		editSource = record
	}
	parts, fetched, sniffedRatio := a.assembleParts(ctx, editSource, slots, renderPlan.FinalPrompt)
	// An edit with no explicit ratio keeps the source image's shape. The
	// ratio archived at generation time wins over the one sniffed from the
	// fetched pixels, which is absent for formats without header parsing.
	if editing && req.AspectRatio == "" {
		preserved := ""
		if stored, ok := record.Metadata["aspect_ratio"].(string); ok {
			preserved = branding.NormalizeRatio(stored)
		}
		if preserved == "" {
			preserved = sniffedRatio
		}
		if preserved != "" {
			renderPlan.AspectRatio = preserved
		}
	}

	result, err := a.Images.GenerateImage(ctx, genai.ImageRequest{
		Parts:       parts,
		AspectRatio: renderPlan.AspectRatio,
		Resolution:  branding.Resolution2K,
	})
	if err != nil {
		switch {
		case errors.Is(err, genai.ErrSafetyBlocked):
			a.error(w, http.StatusBadRequest, "safety_blocked", "the request was blocked by content safety filters; rephrase the prompt")
		case errors.Is(err, genai.ErrRecitationBlocked):
			a.error(w, http.StatusBadRequest, "recitation_blocked", "the request was blocked for reproducing protected content; make the prompt more original")
		case errors.Is(err, genai.ErrNoImage):
			a.report(ctx, err, "genai: no image in response")
			a.error(w, http.StatusInternalServerError, "internal", "the model returned no image")
		default:
			a.report(ctx, err, "genai: image generation failed")
			a.error(w, http.StatusInternalServerError, "internal", "image generation failed")
		}
		return
	}

	imageID := req.ImageID
	if imageID == "" {
		imageID = uuid.NewString()
	}
	key := fmt.Sprintf("brands/%s/images/%s-%d.%s", req.BrandID, imageID, time.Now().Unix(), mimeExt(result.MIMEType))
	publicURL, err := a.Store.Put(ctx, key, result.Data, result.MIMEType)
	if err != nil {
		a.report(ctx, err, "storage: put failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store image")
		return
	}

	metadata := map[string]any{
		"channel":      renderPlan.Channel,
		"objective":    renderPlan.Objective,
		"aspect_ratio": renderPlan.AspectRatio,
		"resolution":   branding.Resolution2K,
		"plan_source":  renderPlan.Source,
		"final_prompt": renderPlan.FinalPrompt,
		"image_count":  fetched,
	}
	if editing {
		err = a.persistEdit(ctx, record, req.Prompt, publicURL, renderPlan.FinalPrompt, metadata)
	} else {
		err = a.persistGeneration(ctx, record, imageID, req.BrandID, userID, req.Prompt, publicURL, metadata)
	}
	if err != nil {
		a.report(ctx, err, "images: persist failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist image record")
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		Success:      true,
		ImageURL:     publicURL,
		ImageBase64:  imagefetch.Encode(result.Data),
		MIMEType:     result.MIMEType,
		TextResponse: result.Text,
		GPTPromptInfo: &gptPromptInfo{
			Channel:     renderPlan.Channel,
			Objective:   renderPlan.Objective,
			AspectRatio: renderPlan.AspectRatio,
			Resolution:  branding.Resolution2K,
			FinalPrompt: renderPlan.FinalPrompt,
			Source:      renderPlan.Source,
		},
	})
}

type imageSlot struct {
	url   string
	label string
}

// buildSlots orders every inline image the model will see: edit source
// first, then brand collateral, must-include assets, and references. The
// caller checks the slot count against the cap before anything is charged
// or fetched.
func buildSlots(brand *domain.Brand, record *domain.ImageRecord, req generateRequest) []imageSlot {
	var slots []imageSlot
	if req.EditMode && record != nil && record.ImageURL != "" {
		slots = append(slots, imageSlot{record.ImageURL, "This is the current image to edit."})
	}
	if req.wantsLogo() && brand.Logos.Primary != "" {
		slots = append(slots, imageSlot{brand.Logos.Primary, "This is the brand's primary logo."})
	}
	for _, asset := range req.Assets {
		slots = append(slots, imageSlot{asset.URL, branding.AssetInstruction(asset)})
	}
	if len(brand.Backdrops) > 0 {
		slots = append(slots, imageSlot{brand.Backdrops[0], "This is a brand backdrop for style reference only."})
	}
	if brand.Screenshot != "" {
		slots = append(slots, imageSlot{brand.Screenshot, "This is a screenshot of the brand's product for style reference only."})
	}
	for _, ref := range req.References {
		slots = append(slots, imageSlot{ref.URL, branding.AssetInstruction(ref)})
	}
	return slots
}

// assembleParts fetches the slotted images and interleaves each with its
// instruction text, ending with the final prompt. Returns the parts, the
// count of images that actually attached, and the aspect ratio recovered
// from the edit source's pixel dimensions. source is nil outside edit mode.
func (a *App) assembleParts(ctx context.Context, source *domain.ImageRecord, slots []imageSlot, finalPrompt string) ([]genai.Part, int, string) {
	urls := make([]string, len(slots))
	for i, s := range slots {
		urls[i] = s.url
	}
	fetched := a.fetchAll(ctx, urls)

	sniffedRatio := ""
	if source != nil && source.ImageURL != "" && len(fetched) > 0 && fetched[0] != nil {
		sniffedRatio = branding.RatioFromDimensions(fetched[0].Width, fetched[0].Height)
	}

	var parts []genai.Part
	attached := 0
	for i, img := range fetched {
		if img == nil {
			continue
		}
		data, err := imagefetch.Decode(img.Base64)
		if err != nil {
			a.Logger.Warn().Err(err).Str("url", img.URL).Msg("images: undecodable asset skipped")
			continue
		}
		parts = append(parts, genai.TextPart(slots[i].label))
		parts = append(parts, genai.ImagePart(img.MIMEType, data))
		attached++
	}
	parts = append(parts, genai.TextPart(finalPrompt))
	return parts, attached, sniffedRatio
}

func (a *App) fetchAll(ctx context.Context, urls []string) []*imagefetch.Image {
	if batch, ok := a.Fetcher.(interface {
		FetchAll(ctx context.Context, urls []string) []*imagefetch.Image
	}); ok {
		return batch.FetchAll(ctx, urls)
	}
	results := make([]*imagefetch.Image, len(urls))
	for i, url := range urls {
		results[i], _ = a.Fetcher.Fetch(ctx, url)
	}
	return results
}

// persistGeneration marks the image record ready. When the caller did not
// name a pre-created record, a pending one is inserted first.
func (a *App) persistGeneration(ctx context.Context, record *domain.ImageRecord, imageID, brandID, userID, prompt, publicURL string, metadata map[string]any) error {
	metadataJSON, _ := json.Marshal(metadata)
	if record == nil {
		conversation := []domain.ConversationEntry{{
			Role:      "user",
			Content:   prompt,
			CreatedAt: time.Now().UTC(),
		}}
		conversationJSON, _ := json.Marshal(conversation)
		if _, err := a.SQL.Exec(ctx, sqlinline.QInsertPendingImage, imageID, brandID, userID, string(conversationJSON), string(metadataJSON)); err != nil {
			return err
		}
	}
	_, err := a.SQL.Exec(ctx, sqlinline.QMarkImageReady, imageID, publicURL, string(metadataJSON))
	return err
}

func (a *App) persistEdit(ctx context.Context, record *domain.ImageRecord, prompt, publicURL, finalPrompt string, metadata map[string]any) error {
	now := time.Now().UTC()
	conversation := append(record.Conversation,
		domain.ConversationEntry{Role: "user", Content: prompt, CreatedAt: now},
		domain.ConversationEntry{Role: "assistant", Content: "Edited image.", ImageURL: publicURL, CreatedAt: now},
	)
	versions := record.Versions
	if record.ImageURL != "" {
		versions = append(versions, domain.ImageVersion{
			ImageURL:   record.ImageURL,
			Prompt:     finalPrompt,
			ReplacedAt: now,
		})
	}
	conversationJSON, _ := json.Marshal(conversation)
	versionsJSON, _ := json.Marshal(versions)
	metadataJSON, _ := json.Marshal(metadata)
	_, err := a.SQL.Exec(ctx, sqlinline.QApplyImageEdit, record.ID, publicURL,
		record.EditCount+1, string(conversationJSON), string(versionsJSON), string(metadataJSON))
	return err
}

func mimeExt(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	return "bin"
}
