package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore uploads objects to a Supabase storage bucket and returns
// the bucket's public object URL.
type SupabaseStore struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewSupabaseStore(projectURL, serviceKey, bucket string) *SupabaseStore {
	baseURL := strings.TrimRight(projectURL, "/")
	return &SupabaseStore{
		client:  storage_go.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

func (s *SupabaseStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	clean := strings.TrimPrefix(key, "/")
	upsert := true
	_, err := s.client.UploadFile(s.bucket, clean, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", clean, err)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, clean), nil
}
