package domain

import "time"

// ImageStatus tracks the lifecycle of an image record.
type ImageStatus string

const (
	ImageStatusPending ImageStatus = "pending"
	ImageStatusReady   ImageStatus = "ready"
)

// ConversationEntry is one turn in an image's edit conversation.
type ConversationEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageVersion records a superseded image before an edit overwrote it.
type ImageVersion struct {
	ImageURL   string    `json:"image_url"`
	Prompt     string    `json:"prompt,omitempty"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// ImageRecord is the persisted unit of work. Created externally before this
// service is invoked; the orchestrator mutates it after each successful
// generation or edit and never deletes it.
type ImageRecord struct {
	ID           string              `json:"id"`
	BrandID      string              `json:"brand_id"`
	UserID       string              `json:"user_id"`
	Status       ImageStatus         `json:"status"`
	ImageURL     string              `json:"image_url,omitempty"`
	EditCount    int                 `json:"edit_count"`
	Conversation []ConversationEntry `json:"conversation,omitempty"`
	Versions     []ImageVersion      `json:"version_history,omitempty"`
	Metadata     map[string]any      `json:"metadata,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
