package profile

import "time"

// Profile is the site owner's card. Exactly one row exists (id = 1).
type Profile struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Title       *string   `json:"title"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	Email       *string   `json:"email"`
	GithubURL   *string   `json:"github_url"`
	LinkedinURL *string   `json:"linkedin_url"`
	TwitterURL  *string   `json:"twitter_url"`
	Skills      []Skill   `json:"skills"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Skill is one entry of the skills list.
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int    `json:"level"`
}
