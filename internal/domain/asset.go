package domain

import "strings"

// AssetRole distinguishes mandatory content from mood-board input. The
// distinction must survive verbatim into the final prompt: the image model
// has no other signal for which attached images are required content versus
// inspiration only.
type AssetRole string

const (
	// AssetRoleMustInclude marks an asset that must appear faithfully in
	// the output.
	AssetRoleMustInclude AssetRole = "must_include"
	// AssetRoleStyleReference marks an asset that may only influence mood
	// and style, never be copied.
	AssetRoleStyleReference AssetRole = "style_reference"
)

// AssetRef points at a brand-owned or request-supplied image.
type AssetRef struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Name     string    `json:"name,omitempty"`
	Category string    `json:"category,omitempty"`
	Role     AssetRole `json:"role"`
}

// DisplayName returns the asset's name, falling back to its id.
func (a AssetRef) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.ID
}
