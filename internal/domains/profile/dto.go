package profile

import (
	"fmt"
	"strings"

	"augustlab-backend/internal/sanitize"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxSkills = 50

var skillCategories = map[string]struct{}{
	"frontend": {},
	"backend":  {},
	"database": {},
	"tools":    {},
	"other":    {},
}

// UpdateProfileRequest carries the full profile for the singleton upsert.
type UpdateProfileRequest struct {
	Name        string  `json:"name"`
	Title       *string `json:"title"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Email       *string `json:"email"`
	GithubURL   *string `json:"github_url"`
	LinkedinURL *string `json:"linkedin_url"`
	TwitterURL  *string `json:"twitter_url"`
	Skills      []Skill `json:"skills"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Title, validation.Length(0, 200)),
		validation.Field(&r.Bio, validation.Length(0, 5000)),
		validation.Field(&r.AvatarURL, validation.By(optionalURL)),
		validation.Field(&r.Email, validation.By(optionalEmail)),
		validation.Field(&r.GithubURL, validation.By(githubURL)),
		validation.Field(&r.LinkedinURL, validation.By(optionalURL)),
		validation.Field(&r.TwitterURL, validation.By(optionalURL)),
		validation.Field(&r.Skills, validation.Length(0, maxSkills), validation.By(validSkills)),
	)
}

func (r *UpdateProfileRequest) Normalize() (string, error) {
	name, err := sanitize.TrimRequired("name", r.Name)
	if err != nil {
		return "name", err
	}
	r.Name = name
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if r.Bio != nil {
		*r.Bio = strings.TrimSpace(*r.Bio)
	}
	for i := range r.Skills {
		r.Skills[i].Name = strings.TrimSpace(r.Skills[i].Name)
	}

	fields := map[string]string{"name": r.Name}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Bio != nil {
		fields["bio"] = *r.Bio
	}
	if field, err := sanitize.ScreenFields(fields); err != nil {
		return field, err
	}
	for _, skill := range r.Skills {
		if err := sanitize.ScreenString("skills", skill.Name); err != nil {
			return "skills", err
		}
	}
	return "", nil
}

func validSkills(value any) error {
	skills, ok := value.([]Skill)
	if !ok {
		return nil
	}
	for _, skill := range skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" || len(name) > 100 {
			return fmt.Errorf("skill name must be 1-100 characters")
		}
		if _, ok := skillCategories[skill.Category]; !ok {
			return fmt.Errorf("skill category must be one of frontend, backend, database, tools, other")
		}
		// Out-of-range levels are rejected, never clamped.
		if skill.Level < 0 || skill.Level > 100 {
			return fmt.Errorf("skill level must be between 0 and 100")
		}
	}
	return nil
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

func optionalEmail(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil || *s == "" {
		return nil
	}
	if len(*s) > 100 {
		return fmt.Errorf("email exceeds 100 characters")
	}
	return sanitize.ValidateEmail(*s)
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
