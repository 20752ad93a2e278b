// package identity derives the active user identity from the stored bearer
// credential.
//
// The credential is decoded, never verified: the backend is the source of
// truth for authorization and the client only needs the embedded claims for
// gating views. Historical tokens carried the role claim under several field
// names; all of that defensiveness lives here, in one normalization step, so
// every other component consumes a single canonical [Identity] shape.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the normalized account role claim.
type Role string

const (
	RoleListener Role = "listener"
	RoleArtist   Role = "artist"
)

// Identity is the canonical decoded credential.
type Identity struct {
	ID       string
	Username string
	Role     Role
}

// IsArtist reports whether the identity carries the artist role. Safe on nil.
func (id *Identity) IsArtist() bool {
	return id != nil && id.Role == RoleArtist
}

// Decode extracts an identity from an opaque bearer credential (three
// dot-separated base64url segments). A missing or malformed credential yields
// nil, treated as logged out; Decode never panics and never returns an error
// to the caller.
func Decode(credential string) *Identity {
	if credential == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil
	}

	id := &Identity{
		ID:       firstString(claims, "_id", "id", "uid", "sub"),
		Username: firstString(claims, "username"),
	}

	role := firstString(claims, "role", "roles")

	// Older tokens nest the account under a "user" sub-object.
	if nested, ok := claims["user"].(map[string]any); ok {
		if id.ID == "" {
			id.ID = firstString(nested, "_id", "id")
		}
		if id.Username == "" {
			id.Username = firstString(nested, "username")
		}
		if role == "" {
			role = firstString(nested, "role", "roles")
		}
	}

	if id.ID == "" {
		return nil
	}

	if strings.EqualFold(role, string(RoleArtist)) {
		id.Role = RoleArtist
	} else {
		id.Role = RoleListener
	}

	return id
}

// firstString probes the given keys in order and returns the first string
// value. A single-element string array counts; anything else is skipped.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}
