package domain

import "sort"

// DefaultRole is assigned to accounts created from the client.
const DefaultRole = "user"

// User is the identity returned by the backend on login or register.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Viewer is a read-only snapshot of the session used by render functions.
// A nil User means the viewer is anonymous and every set is empty.
type Viewer struct {
	User      *User
	Liked     map[int]bool
	Favorited map[int]bool
	Ratings   map[int]int
}

// LoggedIn reports whether the snapshot carries an identity.
func (v Viewer) LoggedIn() bool { return v.User != nil }

// Username returns the viewer's username or "" when anonymous.
func (v Viewer) Username() string {
	if v.User == nil {
		return ""
	}
	return v.User.Username
}

// FavoriteIDs returns favorited recipe ids in ascending order.
func (v Viewer) FavoriteIDs() []int {
	ids := make([]int, 0, len(v.Favorited))
	for id, ok := range v.Favorited {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
