package portfolio

import "time"

// Portfolio is one showcased project.
type Portfolio struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	TechStack    []string  `json:"tech_stack"`
	ProjectURL   *string   `json:"project_url"`
	GithubURL    *string   `json:"github_url"`
	ImageURL     *string   `json:"image_url"`
	DisplayOrder int       `json:"display_order"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
