// Package imagefetch downloads remote brand assets and prepares them for
// inline transport to the image model: base64 payload, MIME type, and where
// cheaply possible the pixel dimensions.
package imagefetch

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// chunkSize is divisible by 3 so per-chunk base64 emits no padding and the
// concatenated chunks decode as one stream.
const chunkSize = 49152

// maxBodyBytes bounds a single asset download.
const maxBodyBytes = 20 << 20

// fetchConcurrency bounds parallel downloads in FetchAll.
const fetchConcurrency = 4

var allowedTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/heic": {},
	"image/heif": {},
	"image/gif":  {},
}

// Image is a fetched, transport-ready asset.
type Image struct {
	URL      string
	MIMEType string
	Base64   string
	Width    int
	Height   int
}

// Fetcher downloads assets over HTTP. The zero client gets a sane timeout.
type Fetcher struct {
	client *http.Client
	logger zerolog.Logger
}

func NewFetcher(client *http.Client, logger zerolog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads one asset. Any failure, including a disallowed content
// type, returns (nil, nil): a missing asset degrades the prompt rather than
// failing the generation. The cause is logged at warn level.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	img, err := f.fetch(ctx, url)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("imagefetch: asset skipped")
		return nil, nil
	}
	return img, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	mime := normalizeContentType(resp.Header.Get("Content-Type"))
	if _, ok := allowedTypes[mime]; !ok {
		return nil, fmt.Errorf("unsupported content type %q", mime)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	img := &Image{
		URL:      url,
		MIMEType: mime,
		Base64:   encodeChunked(body),
	}
	img.Width, img.Height = sniffDimensions(mime, body)
	return img, nil
}

// FetchAll downloads assets with bounded concurrency, preserving input
// order. Failed slots come back nil; the caller filters.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*Image {
	results := make([]*Image, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			img, _ := f.Fetch(ctx, url)
			results[i] = img
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Decode reverses the chunked encoding back to raw bytes.
func Decode(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// Encode base64-encodes raw bytes in chunks so large payloads never hold
// two full copies in flight at once.
func Encode(data []byte) string {
	return encodeChunked(data)
}

func encodeChunked(data []byte) string {
	var b strings.Builder
	b.Grow(base64.StdEncoding.EncodedLen(len(data)))
	for len(data) > 0 {
		n := chunkSize
		if n > len(data) {
			n = len(data)
		}
		b.WriteString(base64.StdEncoding.EncodeToString(data[:n]))
		data = data[n:]
	}
	return b.String()
}

func normalizeContentType(raw string) string {
	mime := strings.TrimSpace(strings.ToLower(raw))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	return mime
}

// sniffDimensions reads dimensions from PNG and JPEG headers without a full
// decode. Other formats report zero; downstream treats that as unknown.
func sniffDimensions(mime string, data []byte) (int, int) {
	switch mime {
	case "image/png":
		return pngDimensions(data)
	case "image/jpeg":
		return jpegDimensions(data)
	}
	return 0, 0
}

// pngDimensions reads the IHDR width/height at fixed offsets 16..23.
func pngDimensions(data []byte) (int, int) {
	if len(data) < 24 || !strings.HasPrefix(string(data), "\x89PNG\r\n\x1a\n") {
		return 0, 0
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	return int(w), int(h)
}

// jpegDimensions walks segment markers until a SOF0/SOF1/SOF2 frame header.
func jpegDimensions(data []byte) (int, int) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0
	}
	i := 2
	for i+9 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xC0 || marker == 0xC1 || marker == 0xC2 {
			h := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			w := int(binary.BigEndian.Uint16(data[i+7 : i+9]))
			return w, h
		}
		if marker == 0xD8 || marker == 0xD9 || (marker >= 0xD0 && marker <= 0xD7) || marker == 0xFF {
			i += 2
			continue
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 {
			return 0, 0
		}
		i += 2 + segLen
	}
	return 0, 0
}
