package engine

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/form"
)

// ErrNotOwner is returned when editing or deleting someone else's recipe.
var ErrNotOwner = errors.New("not the author of this recipe")

// Describe turns an error into the message shown to the user. Backend
// rejections are passed through verbatim.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var remote *domain.RemoteError
	var invalid *form.Error
	switch {
	case errors.As(err, &remote):
		return remote.Message
	case errors.As(err, &invalid):
		return capitalize(invalid.Message) + "."
	case errors.Is(err, domain.ErrUnreachable):
		return "Cannot connect to the recipe server. Make sure the backend is running."
	case errors.Is(err, context.DeadlineExceeded):
		return "The recipe server took too long to answer."
	case errors.Is(err, context.Canceled), errors.Is(err, domain.ErrCancelled):
		return "Cancelled."
	case errors.Is(err, domain.ErrLoginRequired):
		return "Please log in first."
	case errors.Is(err, ErrNotOwner):
		return "You can only change your own recipes."
	case errors.Is(err, domain.ErrNotFound):
		return "Recipe not found."
	}
	return "Something went wrong: " + err.Error()
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.TrimSuffix(s[n:], ".")
}
