package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/config"
	"blog-admin/internal/models"
)

func strPtr(s string) *string { return &s }

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func validInput() *models.PostInput {
	return &models.PostInput{
		Title:    "A",
		Excerpt:  "B",
		Content:  "C",
		Category: "CARE",
	}
}

func TestValidateInputAcceptsMinimalPost(t *testing.T) {
	v := NewPostValidator(config.DefaultCategories)
	assert.NoError(t, v.ValidateInput(validInput()))
}

func TestValidateInputReportsEveryField(t *testing.T) {
	v := NewPostValidator(config.DefaultCategories)
	in := &models.PostInput{
		Title:    "  ",
		Content:  "<p></p>",
		Category: "GOSSIP",
		Image:    strPtr("not a url"),
	}

	err := v.ValidateInput(in)
	assert.ElementsMatch(t, []string{"title", "excerpt", "content", "category", "image"}, fieldsOf(t, err))
}

func TestValidateInputImage(t *testing.T) {
	v := NewPostValidator(config.DefaultCategories)

	in := validInput()
	in.Image = strPtr("https://blog-images.nyc3.digitaloceanspaces.com/uploads/a.png")
	assert.NoError(t, v.ValidateInput(in))

	in.Image = strPtr("ftp://example.com/a.png")
	assert.Equal(t, []string{"image"}, fieldsOf(t, v.ValidateInput(in)))
}

func TestValidateInputLengths(t *testing.T) {
	v := NewPostValidator(config.DefaultCategories)
	in := validInput()
	in.Title = strings.Repeat("t", 256)
	in.MetaTitle = strPtr(strings.Repeat("m", 71))
	in.MetaDescription = strPtr(strings.Repeat("d", 161))

	assert.ElementsMatch(t, []string{"title", "metaTitle", "metaDescription"}, fieldsOf(t, v.ValidateInput(in)))
}

func TestValidateInputUsesConfiguredCategories(t *testing.T) {
	v := NewPostValidator([]string{"INJECTIONS", "CONSEILS_EDUCATION"})

	in := validInput()
	assert.Equal(t, []string{"category"}, fieldsOf(t, v.ValidateInput(in)))

	in.Category = "INJECTIONS"
	assert.NoError(t, v.ValidateInput(in))
}

func TestValidatePatchOnlyChecksSuppliedFields(t *testing.T) {
	v := NewPostValidator(config.DefaultCategories)

	assert.NoError(t, v.ValidatePatch(&models.PostPatch{}))
	assert.NoError(t, v.ValidatePatch(&models.PostPatch{Title: strPtr("Z")}))
	assert.NoError(t, v.ValidatePatch(&models.PostPatch{Image: strPtr("")}))

	err := v.ValidatePatch(&models.PostPatch{Title: strPtr(""), Category: strPtr("nope")})
	assert.ElementsMatch(t, []string{"title", "category"}, fieldsOf(t, err))
}
