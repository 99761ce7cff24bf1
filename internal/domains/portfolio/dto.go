package portfolio

import (
	"fmt"
	"strings"

	"augustlab-backend/internal/sanitize"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTechStackItems   = 20
	maxTechStackItemLen = 50
)

type CreatePortfolioRequest struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	TechStack    []string `json:"tech_stack"`
	ProjectURL   *string  `json:"project_url"`
	GithubURL    *string  `json:"github_url"`
	ImageURL     *string  `json:"image_url"`
	DisplayOrder int      `json:"display_order"`
	IsFeatured   bool     `json:"is_featured"`
}

func (r CreatePortfolioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ProjectURL, validation.By(optionalURL)),
		validation.Field(&r.GithubURL, validation.By(githubURL)),
		validation.Field(&r.ImageURL, validation.By(optionalURL)),
		validation.Field(&r.DisplayOrder, validation.Min(0)),
	)
}

// Normalize screens text fields for injection probes and canonicalises the
// tech stack list. Called after Validate.
func (r *CreatePortfolioRequest) Normalize() (string, error) {
	title, err := sanitize.TrimRequired("title", r.Title)
	if err != nil {
		return "title", err
	}
	r.Title = title
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
	}

	fields := map[string]string{"title": r.Title}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if field, err := sanitize.ScreenFields(fields); err != nil {
		return field, err
	}
	for _, item := range r.TechStack {
		if err := sanitize.ScreenString("tech_stack", item); err != nil {
			return "tech_stack", err
		}
	}
	stack, err := sanitize.NormalizeList(r.TechStack, maxTechStackItems, maxTechStackItemLen)
	if err != nil {
		return "tech_stack", err
	}
	r.TechStack = stack
	return "", nil
}

type UpdatePortfolioRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	TechStack    *[]string `json:"tech_stack"`
	ProjectURL   *string   `json:"project_url"`
	GithubURL    *string   `json:"github_url"`
	ImageURL     *string   `json:"image_url"`
	DisplayOrder *int      `json:"display_order"`
	IsFeatured   *bool     `json:"is_featured"`
}

func (r UpdatePortfolioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ProjectURL, validation.By(optionalURL)),
		validation.Field(&r.GithubURL, validation.By(githubURL)),
		validation.Field(&r.ImageURL, validation.By(optionalURL)),
	)
}

func (r *UpdatePortfolioRequest) Normalize() (string, error) {
	if r.Title != nil {
		title, err := sanitize.TrimRequired("title", *r.Title)
		if err != nil {
			return "title", err
		}
		*r.Title = title
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
	}

	fields := map[string]string{}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if field, err := sanitize.ScreenFields(fields); err != nil {
		return field, err
	}
	if r.TechStack != nil {
		for _, item := range *r.TechStack {
			if err := sanitize.ScreenString("tech_stack", item); err != nil {
				return "tech_stack", err
			}
		}
		stack, err := sanitize.NormalizeList(*r.TechStack, maxTechStackItems, maxTechStackItemLen)
		if err != nil {
			return "tech_stack", err
		}
		*r.TechStack = stack
	}
	return "", nil
}

// ListQuery carries the public listing filters.
type ListQuery struct {
	Featured *bool  `form:"featured"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Search, validation.Length(0, 200)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
	)
}

func optionalURL(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil || *s == "" {
		return nil
	}
	if len(*s) > 500 {
		return fmt.Errorf("URL exceeds 500 characters")
	}
	return sanitize.ValidateURL(*s)
}

func githubURL(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil || *s == "" {
		return nil
	}
	if len(*s) > 500 {
		return fmt.Errorf("URL exceeds 500 characters")
	}
	return sanitize.ValidateHostURL(*s, "github.com")
}
