package product

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

var productTypes = []any{TypeStatic, TypeSPA, TypeGame, TypeTool}

type CreateProductRequest struct {
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	TechStack    []string       `json:"tech_stack"`
	ProductType  string         `json:"product_type"`
	EntryFile    string         `json:"entry_file"`
	ConfigData   map[string]any `json:"config_data"`
	IsPublished  bool           `json:"is_published"`
	IsFeatured   bool           `json:"is_featured"`
	DisplayOrder int            `json:"display_order"`
	Version      string         `json:"version"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ProductType, validation.Required, validation.In(productTypes...)),
		validation.Field(&r.EntryFile, validation.Length(0, 200), validation.By(plainFileName)),
		validation.Field(&r.Version, validation.Length(0, 50)),
		validation.Field(&r.DisplayOrder, validation.Min(0)),
	)
}

func (r *CreateProductRequest) Normalize() (string, error) {
	title, err := sanitize.TrimRequired("title", r.Title)
	if err != nil {
		return "title", err
	}
	r.Title = title
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
	}
	r.EntryFile = strings.TrimSpace(r.EntryFile)
	r.Version = strings.TrimSpace(r.Version)

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
	if err := sanitize.ScreenValue("config_data", r.ConfigData); err != nil {
		return "config_data", err
	}
	stack, err := sanitize.NormalizeList(r.TechStack, maxTechStackItems, maxTechStackItemLen)
	if err != nil {
		return "tech_stack", err
	}
	r.TechStack = stack
	if r.EntryFile == "" {
		r.EntryFile = "index.html"
	}
	if r.Version == "" {
		r.Version = "1.0.0"
	}
	return "", nil
}

type UpdateProductRequest struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	TechStack    *[]string       `json:"tech_stack"`
	ProductType  *string         `json:"product_type"`
	EntryFile    *string         `json:"entry_file"`
	ConfigData   *map[string]any `json:"config_data"`
	IsPublished  *bool           `json:"is_published"`
	IsFeatured   *bool           `json:"is_featured"`
	DisplayOrder *int            `json:"display_order"`
	Version      *string         `json:"version"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ProductType, validation.In(productTypes...)),
		validation.Field(&r.EntryFile, validation.Length(1, 200), validation.By(plainFileName)),
		validation.Field(&r.Version, validation.Length(1, 50)),
	)
}

func (r *UpdateProductRequest) Normalize() (string, error) {
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
	if r.EntryFile != nil {
		entryFile, err := sanitize.TrimRequired("entry_file", *r.EntryFile)
		if err != nil {
			return "entry_file", err
		}
		*r.EntryFile = entryFile
	}
	if r.Version != nil {
		version, err := sanitize.TrimRequired("version", *r.Version)
		if err != nil {
			return "version", err
		}
		*r.Version = version
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
	if r.ConfigData != nil {
		if err := sanitize.ScreenValue("config_data", *r.ConfigData); err != nil {
			return "config_data", err
		}
	}
	return "", nil
}

// ListQuery carries the public listing filters.
type ListQuery struct {
	Type          string `form:"type"`
	Featured      *bool  `form:"featured"`
	Limit         int    `form:"limit"`
	IncludeDrafts bool   `form:"-"`
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Type, validation.In(productTypes...)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
	)
}

// VerifyResponse reports bundle integrity for one product.
type VerifyResponse struct {
	ProductID int    `json:"product_id"`
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
}

// UploadResponse acknowledges a stored bundle.
type UploadResponse struct {
	ProductID int      `json:"product_id"`
	Files     []string `json:"files"`
	TotalSize int64    `json:"total_size"`
}

func plainFileName(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r == '/' || r == '\\' {
			return fmt.Errorf("entry file must be a plain file name")
		}
	}
	return nil
}
