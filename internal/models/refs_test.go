package models

import (
	"encoding/json"
	"testing"
)

func TestSongRefUnmarshal(t *testing.T) {
	tc := []struct {
		name         string
		input        string
		wantID       string
		wantResolved bool
	}{
		{name: "bare identifier", input: `"song1"`, wantID: "song1", wantResolved: false},
		{name: "populated object", input: `{"_id":"song1","name":"Track","duration":120}`, wantID: "song1", wantResolved: true},
		{name: "null", input: `null`, wantID: "", wantResolved: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var ref SongRef
			if err := json.Unmarshal([]byte(tt.input), &ref); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if ref.ID() != tt.wantID {
				t.Errorf("ID() = %v, want %v", ref.ID(), tt.wantID)
			}
			if ref.Resolved() != tt.wantResolved {
				t.Errorf("Resolved() = %v, want %v", ref.Resolved(), tt.wantResolved)
			}
		})
	}
}

func TestSongRefMarshal(t *testing.T) {
	t.Run("unresolved emits identifier", func(t *testing.T) {
		out, err := json.Marshal(UnresolvedSong("song1"))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(out) != `"song1"` {
			t.Errorf("Marshal() = %s", out)
		}
	})

	t.Run("resolved emits object", func(t *testing.T) {
		out, err := json.Marshal(ResolvedSong(Song{ID: "song1", Name: "Track"}))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(out, &decoded); err != nil {
			t.Fatalf("output is not an object: %s", out)
		}
		if decoded["_id"] != "song1" {
			t.Errorf("object _id = %v", decoded["_id"])
		}
	})
}

func TestSongRefResolve(t *testing.T) {
	lookup := map[string]Song{"song1": {ID: "song1", Name: "Track", Duration: 100}}

	t.Run("upgrades unresolved", func(t *testing.T) {
		ref := UnresolvedSong("song1")
		if !ref.Resolve(lookup) {
			t.Fatal("Resolve() = false, want true")
		}
		s, ok := ref.Song()
		if !ok || s.Name != "Track" {
			t.Errorf("Song() = %v, %v", s, ok)
		}
	})

	t.Run("unknown identifier stays unresolved", func(t *testing.T) {
		ref := UnresolvedSong("missing")
		if ref.Resolve(lookup) {
			t.Error("Resolve() = true for unknown id")
		}
	})

	t.Run("nil lookup is safe", func(t *testing.T) {
		ref := UnresolvedSong("song1")
		if ref.Resolve(nil) {
			t.Error("Resolve(nil) = true")
		}
	})
}

func TestResolveAll(t *testing.T) {
	lookup := map[string]Song{"a": {ID: "a", Name: "A"}}
	refs := []SongRef{
		UnresolvedSong("a"),
		UnresolvedSong("ghost"),
		ResolvedSong(Song{ID: "b", Name: "B"}),
	}

	songs := ResolveAll(refs, lookup)
	if len(songs) != 2 {
		t.Fatalf("ResolveAll() returned %d songs, want 2 (unresolved excluded)", len(songs))
	}
	if songs[0].ID != "a" || songs[1].ID != "b" {
		t.Errorf("ResolveAll() order = %v, %v", songs[0].ID, songs[1].ID)
	}
}

func TestSongIDSet(t *testing.T) {
	refs := []SongRef{
		UnresolvedSong("a"),
		ResolvedSong(Song{ID: "b"}),
		UnresolvedSong("a"),
		UnresolvedSong(""),
	}

	ids := SongIDSet(refs)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("SongIDSet() = %v, want [a b]", ids)
	}
}

func TestUserRefIs(t *testing.T) {
	tc := []struct {
		name   string
		ref    UserRef
		userID string
		want   bool
	}{
		{name: "bare identifier match", ref: UnresolvedUser("u1"), userID: "u1", want: true},
		{name: "populated object match", ref: ResolvedUser(User{ID: "u1", Username: "ana"}), userID: "u1", want: true},
		{name: "mismatch", ref: UnresolvedUser("u2"), userID: "u1", want: false},
		{name: "absent ref never matches", ref: UserRef{}, userID: "u1", want: false},
		{name: "empty user id never matches", ref: UnresolvedUser(""), userID: "", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Is(tt.userID); got != tt.want {
				t.Errorf("Is(%q) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestUserRefUnmarshal(t *testing.T) {
	t.Run("bare identifier", func(t *testing.T) {
		var ref UserRef
		if err := json.Unmarshal([]byte(`"u1"`), &ref); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if ref.ID() != "u1" || ref.Resolved() {
			t.Errorf("ref = %v resolved=%v", ref.ID(), ref.Resolved())
		}
	})

	t.Run("populated object", func(t *testing.T) {
		var ref UserRef
		if err := json.Unmarshal([]byte(`{"_id":"u1","username":"ana"}`), &ref); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		u, ok := ref.User()
		if !ok || u.Username != "ana" {
			t.Errorf("User() = %v, %v", u, ok)
		}
	})
}
