package blog

import "time"

// Post is a blog entry. PublishedAt is set exactly once, on the transition
// from draft to published.
type Post struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Summary     *string    `json:"summary"`
	Tags        []string   `json:"tags"`
	IsPublished bool       `json:"is_published"`
	CoverImage  *string    `json:"cover_image"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
