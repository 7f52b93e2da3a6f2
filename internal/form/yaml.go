package form

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

// Decode reads a recipe form from YAML. Unknown keys are rejected so a
// typo does not silently drop a field.
func Decode(r io.Reader) (domain.RecipeForm, error) {
	var f domain.RecipeForm
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return f, &Error{Field: "Title", Rule: "required", Message: messages["Title.required"]}
		}
		return f, fmt.Errorf("form: decode yaml: %w", err)
	}
	return Normalize(f), nil
}

// Load reads and normalizes a recipe form from a YAML file.
func Load(path string) (domain.RecipeForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RecipeForm{}, fmt.Errorf("form: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Encode writes f as YAML, suitable for editing and loading back.
func Encode(w io.Writer, f domain.RecipeForm) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("form: encode yaml: %w", err)
	}
	return enc.Close()
}
