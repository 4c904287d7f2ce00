package validation

// =============================================================================
// Category Forms
// =============================================================================

// Category name bounds.
const (
	CategoryNameMin = 3
	CategoryNameMax = 100
)

// CategoryForm is the raw category create form.
type CategoryForm struct {
	Name        string
	Description string
}

// CategoryNameForm is the raw category update form. Only the name may change.
type CategoryNameForm struct {
	Name string
}

// CategoryInput is a sanitized category create request.
type CategoryInput struct {
	Name        string `form:"name" validate:"min=3,max=100"`
	Description string `form:"description" validate:"min=1"`
}

// CategoryNameInput is a sanitized category rename request.
type CategoryNameInput struct {
	Name string `form:"name" validate:"min=3,max=100"`
}

var categoryFieldOrder = []string{"name", "description"}

var categoryMessages = map[string]string{
	"name.min":        "Category name must contain at least 3 characters",
	"name.max":        "Category name must not exceed 100 characters",
	"description.min": "Description must not be empty.",
}

// Category sanitizes and checks a category create form. The returned input
// always carries the sanitized values so a form can be re-displayed.
func (v *Validator) Category(form CategoryForm) (CategoryInput, Errors) {
	input := CategoryInput{
		Name:        SanitizeLine(form.Name),
		Description: Sanitize(form.Description),
	}

	failed, err := v.check(input, categoryMessages)
	if err != nil {
		return input, Errors{{Field: "name", Message: err.Error()}}
	}
	return input, ordered(categoryFieldOrder, failed)
}

// CategoryName sanitizes and checks a category rename form.
func (v *Validator) CategoryName(form CategoryNameForm) (CategoryNameInput, Errors) {
	input := CategoryNameInput{Name: SanitizeLine(form.Name)}

	failed, err := v.check(input, categoryMessages)
	if err != nil {
		return input, Errors{{Field: "name", Message: err.Error()}}
	}
	return input, ordered(categoryFieldOrder[:1], failed)
}
