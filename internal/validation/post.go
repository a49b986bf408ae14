// Package validation checks post input before it reaches the store.
// Nothing here depends on the HTTP layer.
package validation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/content"
	"blog-admin/internal/models"
)

const (
	maxTitleLen           = 255
	maxImageAltLen        = 255
	maxMetaTitleLen       = 70
	maxMetaDescriptionLen = 160
)

// PostValidator validates create and patch payloads against the configured category set
type PostValidator struct {
	categories []string
	validate   *validator.Validate
}

// NewPostValidator creates a validator for the given categories
func NewPostValidator(categories []string) *PostValidator {
	return &PostValidator{
		categories: append([]string(nil), categories...),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Categories returns the allowed category values
func (v *PostValidator) Categories() []string {
	return append([]string(nil), v.categories...)
}

// ValidateInput checks a full create payload.
// Returns nil or a *apperrors.ValidationError listing every bad field.
func (v *PostValidator) ValidateInput(in *models.PostInput) error {
	ve := &apperrors.ValidationError{}

	v.checkText(ve, "title", in.Title, maxTitleLen)
	v.checkText(ve, "excerpt", in.Excerpt, 0)
	v.checkContent(ve, in.Content)
	v.checkCategory(ve, in.Category)
	v.checkOptional(ve, in.Image, in.ImageAlt, in.MetaTitle, in.MetaDescription)

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// ValidatePatch checks only the fields present in a partial update
func (v *PostValidator) ValidatePatch(p *models.PostPatch) error {
	ve := &apperrors.ValidationError{}

	if p.Title != nil {
		v.checkText(ve, "title", *p.Title, maxTitleLen)
	}
	if p.Excerpt != nil {
		v.checkText(ve, "excerpt", *p.Excerpt, 0)
	}
	if p.Content != nil {
		v.checkContent(ve, *p.Content)
	}
	if p.Category != nil {
		v.checkCategory(ve, *p.Category)
	}
	v.checkOptional(ve, p.Image, p.ImageAlt, p.MetaTitle, p.MetaDescription)

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func (v *PostValidator) checkText(ve *apperrors.ValidationError, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required")
		return
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		ve.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *PostValidator) checkContent(ve *apperrors.ValidationError, value string) {
	if content.IsBlank(value) {
		ve.Add("content", "is required")
	}
}

func (v *PostValidator) checkCategory(ve *apperrors.ValidationError, value string) {
	if !slices.Contains(v.categories, value) {
		ve.Add("category", "must be one of "+strings.Join(v.categories, ", "))
	}
}

func (v *PostValidator) checkOptional(ve *apperrors.ValidationError, image, imageAlt, metaTitle, metaDescription *string) {
	// An empty image clears it, so only non-empty values must be URLs
	if image != nil && *image != "" {
		if err := v.validate.Var(*image, "http_url"); err != nil {
			ve.Add("image", "must be a valid http(s) URL")
		}
	}
	checkMax(ve, "imageAlt", imageAlt, maxImageAltLen)
	checkMax(ve, "metaTitle", metaTitle, maxMetaTitleLen)
	checkMax(ve, "metaDescription", metaDescription, maxMetaDescriptionLen)
}

func checkMax(ve *apperrors.ValidationError, field string, value *string, max int) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		ve.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}
