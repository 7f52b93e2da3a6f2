package domain

import "context"

// RecipeAPI is the backend's HTTP surface, one method per endpoint.
// Implementations return response bodies as decoded, without reshaping.
type RecipeAPI interface {
	ListRecipes(ctx context.Context, username string) ([]Recipe, error)
	CreateRecipe(ctx context.Context, form RecipeForm, author string) (Recipe, error)
	UpdateRecipe(ctx context.Context, id int, form RecipeForm, username string) (Recipe, error)
	DeleteRecipe(ctx context.Context, id int, username string) error

	ToggleLike(ctx context.Context, id int, username string) (LikeResult, error)
	ToggleFavorite(ctx context.Context, id int, username string) (FavoriteResult, error)
	Rate(ctx context.Context, id int, username string, stars int) (RatingResult, error)

	ListComments(ctx context.Context, recipeID int) ([]Comment, error)
	AddComment(ctx context.Context, recipeID, userID int, content string) (Comment, error)

	Register(ctx context.Context, username, password, role string) (User, error)
	Login(ctx context.Context, username, password string) (User, error)
}

// KeyValueStore is durable client-side storage. Get returns ErrNotFound
// for missing keys.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Notifier delivers transient messages to the user. Implementations can
// write to stdout, show a toast in the status bar, or play a sound.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// IntentParser turns a line of user input into an intent.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
