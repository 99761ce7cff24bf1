package product

import "time"

// Product types.
const (
	TypeStatic = "static"
	TypeSPA    = "spa"
	TypeGame   = "game"
	TypeTool   = "tool"
)

// Product is one hosted bundle's catalogue entry.
type Product struct {
	ID           int            `json:"id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	TechStack    []string       `json:"tech_stack"`
	ProductType  string         `json:"product_type"`
	EntryFile    string         `json:"entry_file"`
	FilePath     *string        `json:"file_path"`
	ConfigData   map[string]any `json:"config_data"`
	IsPublished  bool           `json:"is_published"`
	IsFeatured   bool           `json:"is_featured"`
	DisplayOrder int            `json:"display_order"`
	Version      string         `json:"version"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
