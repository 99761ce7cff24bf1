package blog

import (
	"fmt"
	"strings"

	"augustlab-backend/internal/sanitize"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTags       = 10
	maxTagLength  = 30
	maxContentLen = 100000
)

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Summary     *string  `json:"summary"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"is_published"`
	CoverImage  *string  `json:"cover_image"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required, validation.Length(1, maxContentLen)),
		validation.Field(&r.Summary, validation.Length(0, 2000)),
		validation.Field(&r.CoverImage, validation.By(optionalImageURL)),
	)
}

func (r *CreatePostRequest) Normalize() (string, error) {
	title, err := sanitize.TrimRequired("title", r.Title)
	if err != nil {
		return "title", err
	}
	r.Title = title
	content, err := sanitize.TrimRequired("content", r.Content)
	if err != nil {
		return "content", err
	}
	r.Content = content
	if r.Summary != nil {
		*r.Summary = strings.TrimSpace(*r.Summary)
	}

	fields := map[string]string{"title": r.Title, "content": r.Content}
	if r.Summary != nil {
		fields["summary"] = *r.Summary
	}
	if field, err := sanitize.ScreenFields(fields); err != nil {
		return field, err
	}
	for _, tag := range r.Tags {
		if err := sanitize.ScreenString("tags", tag); err != nil {
			return "tags", err
		}
	}
	tags, err := sanitize.NormalizeList(r.Tags, maxTags, maxTagLength)
	if err != nil {
		return "tags", err
	}
	r.Tags = tags
	return "", nil
}

type UpdatePostRequest struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Summary     *string   `json:"summary"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"is_published"`
	CoverImage  *string   `json:"cover_image"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Length(1, maxContentLen)),
		validation.Field(&r.Summary, validation.Length(0, 2000)),
		validation.Field(&r.CoverImage, validation.By(optionalImageURL)),
	)
}

func (r *UpdatePostRequest) Normalize() (string, error) {
	if r.Title != nil {
		title, err := sanitize.TrimRequired("title", *r.Title)
		if err != nil {
			return "title", err
		}
		*r.Title = title
	}
	if r.Content != nil {
		content, err := sanitize.TrimRequired("content", *r.Content)
		if err != nil {
			return "content", err
		}
		*r.Content = content
	}
	if r.Summary != nil {
		*r.Summary = strings.TrimSpace(*r.Summary)
	}

	fields := map[string]string{}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Content != nil {
		fields["content"] = *r.Content
	}
	if r.Summary != nil {
		fields["summary"] = *r.Summary
	}
	if field, err := sanitize.ScreenFields(fields); err != nil {
		return field, err
	}
	if r.Tags != nil {
		for _, tag := range *r.Tags {
			if err := sanitize.ScreenString("tags", tag); err != nil {
				return "tags", err
			}
		}
		tags, err := sanitize.NormalizeList(*r.Tags, maxTags, maxTagLength)
		if err != nil {
			return "tags", err
		}
		*r.Tags = tags
	}
	return "", nil
}

// ListQuery carries the listing filters. IncludeDrafts is set by the admin
// route, never bound from the request.
type ListQuery struct {
	Tag           string `form:"tag"`
	Search        string `form:"search"`
	Limit         int    `form:"limit"`
	IncludeDrafts bool   `form:"-"`
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Tag, validation.Length(0, maxTagLength)),
		validation.Field(&q.Search, validation.Length(0, 200)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
	)
}

func optionalImageURL(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil || *s == "" {
		return nil
	}
	if len(*s) > 500 {
		return fmt.Errorf("URL exceeds 500 characters")
	}
	return sanitize.ValidateURL(*s)
}
