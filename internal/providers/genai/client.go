package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandforge/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a lightweight facade over the Gemini REST API covering the two
// calls this service makes: JSON-mode text completion for render planning
// and multi-part image generation.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	httpClient *http.Client
	logger     *infra.Logger
}

// Sentinel errors that handlers map to tailored client messages.
var (
	// ErrSafetyBlocked indicates the provider's safety filters blocked the
	// request or the response.
	ErrSafetyBlocked = errors.New("genai: blocked by safety filters")
	// ErrRecitationBlocked indicates the response was withheld because it
	// reproduced copyrighted training material.
	ErrRecitationBlocked = errors.New("genai: blocked for recitation")
	// ErrNoImage indicates a terminal response that carried no extractable
	// image payload.
	ErrNoImage = errors.New("genai: no image in response")
	// ErrNotConfigured indicates no API key is set.
	ErrNotConfigured = errors.New("genai: api key not configured")
)

// Part is one entry of the ordered multi-part content array. Exactly one of
// Text or Data is set.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart builds a text content part.
func TextPart(text string) Part { return Part{Text: text} }

// ImagePart builds an inline image content part.
func ImagePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// ImageRequest describes one image-generation call. AspectRatio may be empty
// ("let the model decide"); Resolution is a tier label (1K/2K/4K).
type ImageRequest struct {
	Parts       []Part
	AspectRatio string
	Resolution  string
}

// ImageResult is the extracted image plus any accompanying text.
type ImageResult struct {
	Data     []byte
	MIMEType string
	Text     string
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature        float64            `json:"temperature,omitempty"`
	MaxOutputTokens    int                `json:"maxOutputTokens,omitempty"`
	CandidateCount     int                `json:"candidateCount,omitempty"`
	ResponseMimeType   string             `json:"responseMimeType,omitempty"`
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	ImageConfig        *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generous timeout is
// created (image generation routinely takes tens of seconds).
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		textModel:  textModel,
		imageModel: imageModel,
		httpClient: client,
		logger:     logger,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GenerateText runs a single-turn JSON-mode completion against the text
// model and returns the first non-empty text part.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.4,
			CandidateCount:   1,
			MaxOutputTokens:  2048,
			ResponseMimeType: "application/json",
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.textModel, payload, &response); err != nil {
		return "", err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("genai: empty completion response")
}

// GenerateImage sends the ordered multi-part request to the image model and
// extracts the returned image plus any accompanying text. Part order is
// preserved exactly as supplied.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	parts := make([]geminiPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{
				MimeType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		parts = append(parts, geminiPart{Text: p.Text})
	}

	genCfg := &geminiGenerationConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if req.AspectRatio != "" || req.Resolution != "" {
		genCfg.ImageConfig = &geminiImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.Resolution,
		}
	}

	payload := geminiGenerateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: genCfg,
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, c.imageModel, payload, &response); err != nil {
		return nil, err
	}
	return extractImage(response)
}

// extractImage classifies the upstream response. Absent candidates, a
// non-terminal finish reason, or safety blocking are all failures; a
// terminal finish with no inline image payload is ErrNoImage.
func extractImage(response geminiGenerateContentResponse) (*ImageResult, error) {
	if len(response.Candidates) == 0 {
		if fb := response.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return nil, fmt.Errorf("%w: %s", ErrSafetyBlocked, fb.BlockReason)
		}
		return nil, fmt.Errorf("genai: no candidates in response")
	}

	candidate := response.Candidates[0]
	switch strings.ToUpper(candidate.FinishReason) {
	case "", "STOP", "MAX_TOKENS":
		// terminal; fall through to extraction
	case "SAFETY", "IMAGE_SAFETY", "PROHIBITED_CONTENT":
		return nil, fmt.Errorf("%w: finish reason %s", ErrSafetyBlocked, candidate.FinishReason)
	case "RECITATION":
		return nil, ErrRecitationBlocked
	default:
		return nil, fmt.Errorf("genai: generation stopped: %s", candidate.FinishReason)
	}

	result := &ImageResult{}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" && len(result.Data) == 0 {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("genai: decode inline data: %w", err)
			}
			result.Data = data
			result.MIMEType = part.InlineData.MimeType
			if result.MIMEType == "" {
				result.MIMEType = "image/png"
			}
			continue
		}
		if part.Text != "" {
			if result.Text != "" {
				result.Text += "\n"
			}
			result.Text += part.Text
		}
	}
	if len(result.Data) == 0 {
		return nil, ErrNoImage
	}
	return result, nil
}

func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("model", model).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("genai: generateContent")

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
