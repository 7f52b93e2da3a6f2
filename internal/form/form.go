// Package form holds the client-side validation rules that run before any
// network call, and the YAML encoding of recipe forms.
package form

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

// DefaultImage is used when a recipe form has neither an image URL nor a file.
const DefaultImage = "https://images.unsplash.com/photo-1504674900247-0877df9cc836"

// Error is a validation failure naming the violated rule.
type Error struct {
	Field   string
	Rule    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets callers match with errors.Is(err, domain.ErrInvalid).
func (e *Error) Unwrap() error { return domain.ErrInvalid }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return domain.Category(fl.Field().String()).Valid()
		})
	})
	return validate
}

// messages maps Field.Rule to the text shown to the user.
var messages = map[string]string{
	"Title.required":       "title is required",
	"Category.required":    "category is required",
	"Category.category":    "category must be one of " + categoryList(),
	"PrepTime.gt":          "prep time must be a positive number of minutes",
	"Ingredients.min":      "add at least one ingredient",
	"Ingredients.required": "ingredients cannot be blank",
	"Steps.min":            "add at least one step",
	"Steps.required":       "steps cannot be blank",
	"Username.required":    "fill all fields",
	"Username.min":         "username must be at least 3 characters",
	"Password.required":    "fill all fields",
	"Password.min":         "password must be at least 6 characters",
	"Confirm.eqfield":      "passwords do not match",
	"Content.required":     "write something first",
	"Stars.min":            "rating must be between 1 and 5 stars",
	"Stars.max":            "rating must be between 1 and 5 stars",
}

func categoryList() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// check validates v and reports the first failing rule.
func check(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("form: %w", err)
	}
	fe := verrs[0]
	// Dive errors report the element ("Ingredients[2]"); key on the parent.
	field := fe.StructField()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	msg, ok := messages[field+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s failed the %q rule", strings.ToLower(field), fe.Tag())
	}
	return &Error{Field: field, Rule: fe.Tag(), Message: msg}
}

// Recipe validates a create/edit form.
func Recipe(f domain.RecipeForm) error {
	return check(f)
}

type loginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Credentials trims surrounding blanks from typed credentials.
func Credentials(fields ...string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// Login checks that both credentials were supplied.
func Login(username, password string) error {
	c := Credentials(username, password)
	return check(loginInput{Username: c[0], Password: c[1]})
}

type registration struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"eqfield=Password"`
}

// Registration checks the sign-up rules: username of at least 3
// characters, password of at least 6, and a matching confirmation.
func Registration(username, password, confirm string) error {
	c := Credentials(username, password, confirm)
	return check(registration{Username: c[0], Password: c[1], Confirm: c[2]})
}

type commentInput struct {
	Content string `validate:"required"`
}

// Comment rejects empty comments.
func Comment(content string) error {
	return check(commentInput{Content: strings.TrimSpace(content)})
}

type ratingInput struct {
	Stars int `validate:"min=1,max=5"`
}

// Rating accepts 1 to 5 stars.
func Rating(stars int) error {
	return check(ratingInput{Stars: stars})
}

// Normalize trims text fields, drops blank list entries, canonicalizes
// the category spelling and fills in the default image.
func Normalize(f domain.RecipeForm) domain.RecipeForm {
	f.Title = strings.TrimSpace(f.Title)
	if c, ok := domain.ParseCategory(string(f.Category)); ok {
		f.Category = c
	} else {
		f.Category = domain.Category(strings.TrimSpace(string(f.Category)))
	}
	f.Image = strings.TrimSpace(f.Image)
	f.ImageFile = strings.TrimSpace(f.ImageFile)
	if f.Image == "" && f.ImageFile == "" {
		f.Image = DefaultImage
	}
	f.Ingredients = compact(f.Ingredients)
	f.Steps = compact(f.Steps)
	return f
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
