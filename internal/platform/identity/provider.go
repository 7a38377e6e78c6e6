package identity

import (
	"context"

	"github.com/jwpark-dev/cardtable/internal/model"
)

// Provider is the identity provider contract. It owns the PlayerIdentity:
// the player ID is assigned at first sign-in and immutable afterwards, the
// display name may change any number of times, and the identity is cleared
// on sign-out.
type Provider interface {
	// SignInAnonymously signs the player in without credentials. The
	// returned identity may carry an empty display name; callers are
	// expected to assign one.
	SignInAnonymously(ctx context.Context) (*model.PlayerIdentity, error)

	// UpdatePlayerName changes the display name of the signed-in player
	UpdatePlayerName(ctx context.Context, name string) error

	// IsSignedIn reports whether a player is currently signed in
	IsSignedIn() bool

	// Current returns the signed-in player identity
	Current() (*model.PlayerIdentity, error)

	// SignOut clears the current identity
	SignOut(ctx context.Context) error
}
