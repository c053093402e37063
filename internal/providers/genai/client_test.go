package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func TestGenerateTextReturnsFirstTextPart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if !strings.Contains(r.URL.Path, "generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": `{"channel":"linkedin"}`}},
				},
				"finishReason": "STOP",
			}},
		})
	})

	got, err := client.GenerateText(context.Background(), "plan something")
	if err != nil {
		t.Fatalf("GenerateText() error: %v", err)
	}
	if got != `{"channel":"linkedin"}` {
		t.Fatalf("GenerateText() = %q", got)
	}
}

func TestGenerateTextUnconfigured(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.GenerateText(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGenerateImageSuccess(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["generationConfig"] == nil {
			t.Errorf("expected generationConfig in request")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "here is your image"},
						{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(payload),
						}},
					},
				},
				"finishReason": "STOP",
			}},
		})
	})

	result, err := client.GenerateImage(context.Background(), ImageRequest{
		Parts:       []Part{TextPart("prompt"), ImagePart("image/png", []byte{1, 2, 3})},
		AspectRatio: "1:1",
		Resolution:  "2K",
	})
	if err != nil {
		t.Fatalf("GenerateImage() error: %v", err)
	}
	if result.MIMEType != "image/png" {
		t.Fatalf("MIMEType = %q", result.MIMEType)
	}
	if string(result.Data) != string(payload) {
		t.Fatalf("unexpected image payload: %v", result.Data)
	}
	if result.Text != "here is your image" {
		t.Fatalf("Text = %q", result.Text)
	}
}

func TestGenerateImageSafetyFinish(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{},
				"finishReason": "IMAGE_SAFETY",
			}},
		})
	})
	_, err := client.GenerateImage(context.Background(), ImageRequest{Parts: []Part{TextPart("x")}})
	if !errors.Is(err, ErrSafetyBlocked) {
		t.Fatalf("expected ErrSafetyBlocked, got %v", err)
	}
}

func TestGenerateImagePromptBlocked(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})
	_, err := client.GenerateImage(context.Background(), ImageRequest{Parts: []Part{TextPart("x")}})
	if !errors.Is(err, ErrSafetyBlocked) {
		t.Fatalf("expected ErrSafetyBlocked, got %v", err)
	}
}

func TestGenerateImageNoInlineData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "sorry, text only"}},
				},
				"finishReason": "STOP",
			}},
		})
	})
	_, err := client.GenerateImage(context.Background(), ImageRequest{Parts: []Part{TextPart("x")}})
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestGenerateImageUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exhausted"},
		})
	})
	_, err := client.GenerateImage(context.Background(), ImageRequest{Parts: []Part{TextPart("x")}})
	if err == nil || !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected upstream error message, got %v", err)
	}
}
