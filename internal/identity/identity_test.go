package identity

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// signToken builds a real signed token; Decode never checks the signature but
// the segments must be well-formed base64url JSON.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestDecode(t *testing.T) {
	tc := []struct {
		name   string
		claims jwt.MapClaims
		want   *Identity
	}{
		{
			name:   "top-level claims",
			claims: jwt.MapClaims{"_id": "u1", "username": "ana", "role": "artist"},
			want:   &Identity{ID: "u1", Username: "ana", Role: RoleArtist},
		},
		{
			name:   "id under sub",
			claims: jwt.MapClaims{"sub": "u2", "username": "bo"},
			want:   &Identity{ID: "u2", Username: "bo", Role: RoleListener},
		},
		{
			name:   "nested user object",
			claims: jwt.MapClaims{"user": map[string]any{"_id": "u3", "username": "cy", "role": "artist"}},
			want:   &Identity{ID: "u3", Username: "cy", Role: RoleArtist},
		},
		{
			name:   "roles array",
			claims: jwt.MapClaims{"_id": "u4", "roles": []any{"artist", "listener"}},
			want:   &Identity{ID: "u4", Role: RoleArtist},
		},
		{
			name:   "role case insensitive",
			claims: jwt.MapClaims{"_id": "u5", "role": "Artist"},
			want:   &Identity{ID: "u5", Role: RoleArtist},
		},
		{
			name:   "unknown role defaults to listener",
			claims: jwt.MapClaims{"_id": "u6", "role": "admin"},
			want:   &Identity{ID: "u6", Role: RoleListener},
		},
		{
			name:   "missing role defaults to listener",
			claims: jwt.MapClaims{"id": "u7"},
			want:   &Identity{ID: "u7", Role: RoleListener},
		},
		{
			name:   "no identifier yields nil",
			claims: jwt.MapClaims{"username": "nobody"},
			want:   nil,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(signToken(t, tt.claims))
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Decode() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Decode() = nil")
			}
			if *got != *tt.want {
				t.Errorf("Decode() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tc := []struct {
		name       string
		credential string
	}{
		{name: "empty", credential: ""},
		{name: "not a token", credential: "garbage"},
		{name: "two segments", credential: "aaaa.bbbb"},
		{name: "invalid base64 payload", credential: "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.credential); got != nil {
				t.Errorf("Decode(%q) = %+v, want nil", tt.credential, got)
			}
		})
	}
}

func TestIsArtist(t *testing.T) {
	var nilID *Identity
	if nilID.IsArtist() {
		t.Error("nil identity reported artist")
	}
	if !(&Identity{Role: RoleArtist}).IsArtist() {
		t.Error("artist identity not reported")
	}
	if (&Identity{Role: RoleListener}).IsArtist() {
		t.Error("listener identity reported artist")
	}
}
