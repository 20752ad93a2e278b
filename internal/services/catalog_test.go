package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tunedeck/tunedeck/internal/shared"
)

func TestReportedError(t *testing.T) {
	tc := []struct {
		name string
		body string
		want string
	}{
		{name: "error envelope", body: `{"err":"boom"}`, want: "boom"},
		{name: "clean object", body: `{"_id":"a1"}`, want: ""},
		{name: "array body", body: `[{"err":"ignored"}]`, want: ""},
		{name: "empty body", body: ``, want: ""},
		{name: "invalid json", body: `{oops`, want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := reportedError([]byte(tt.body)); got != tt.want {
				t.Errorf("reportedError(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestAPIClientErrorEnvelope(t *testing.T) {
	// A 200 status with an err body is still a failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"err":"playlist not found"}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil, nil, 0)
	_, err := client.ListPlaylists(context.Background())
	if !errors.Is(err, shared.ErrBackendReported) {
		t.Errorf("error = %v, want ErrBackendReported", err)
	}
}

func TestAPIClientStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil, nil, 0)
	_, err := client.ListAlbums(context.Background())
	if !errors.Is(err, shared.ErrAPIRequest) {
		t.Errorf("error = %v, want ErrAPIRequest", err)
	}
}

func TestAPIClientBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil, func() string { return "tok123" }, 0)
	if _, err := client.ListAlbums(context.Background()); err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestAPIClientAnonymous(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil, func() string { return "" }, 0)
	if _, err := client.ListAlbums(context.Background()); err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want unset when logged out", gotAuth)
	}
}

func TestAPIClientDecodesMixedShapes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"_id": "a1",
			"name": "First",
			"userId": "u1",
			"songs": ["s1", {"_id": "s2", "name": "Two", "duration": 90, "audioUrl": "two.mp3"}]
		}]`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil, nil, 0)
	albums, err := client.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}
	if len(albums) != 1 {
		t.Fatalf("albums = %d, want 1", len(albums))
	}

	album := albums[0]
	if !album.Creator.Is("u1") {
		t.Error("creator reference lost")
	}
	if album.Songs[0].Resolved() || !album.Songs[1].Resolved() {
		t.Error("mixed song shapes not preserved")
	}
	if got := album.TotalDuration(); got != 90 {
		t.Errorf("TotalDuration() = %d, want 90", got)
	}
}

func TestUpdatePlaylistSendsFullList(t *testing.T) {
	var gotBody string
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		gotMethod = r.Method
		w.Write([]byte(`{"_id":"p1","name":"Mix","songs":["s1","s2"]}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil, nil, 0)
	updated, err := client.UpdatePlaylist(context.Background(), "p1", PlaylistUpdate{Songs: []string{"s1", "s2"}})
	if err != nil {
		t.Fatalf("UpdatePlaylist() error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %v, want PUT", gotMethod)
	}
	if gotBody != `{"songs":["s1","s2"]}` {
		t.Errorf("body = %s", gotBody)
	}
	if len(updated.Songs) != 2 {
		t.Errorf("updated songs = %d", len(updated.Songs))
	}
}

func TestUpdateAlbumSongList(t *testing.T) {
	newServer := func(t *testing.T, gotBody *string) *httptest.Server {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf, _ := io.ReadAll(r.Body)
			*gotBody = string(buf)
			w.Write([]byte(`{"_id":"a1","name":"Mine","songs":[]}`))
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("empty list still goes on the wire", func(t *testing.T) {
		var gotBody string
		server := newServer(t, &gotBody)

		client := NewAPIClient(server.URL, nil, nil, 0)
		if _, err := client.UpdateAlbum(context.Background(), "a1", AlbumUpdate{Songs: &[]string{}}); err != nil {
			t.Fatalf("UpdateAlbum() error = %v", err)
		}
		if gotBody != `{"songs":[]}` {
			t.Errorf("body = %s, want explicit empty songs list", gotBody)
		}
	})

	t.Run("rename alone leaves songs out", func(t *testing.T) {
		var gotBody string
		server := newServer(t, &gotBody)

		name := "Renamed"
		client := NewAPIClient(server.URL, nil, nil, 0)
		if _, err := client.UpdateAlbum(context.Background(), "a1", AlbumUpdate{Name: &name}); err != nil {
			t.Fatalf("UpdateAlbum() error = %v", err)
		}
		if gotBody != `{"name":"Renamed"}` {
			t.Errorf("body = %s, want name only", gotBody)
		}
	})
}

func TestSignIn(t *testing.T) {
	t.Run("returns issued token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/sign-in" {
				t.Errorf("path = %v", r.URL.Path)
			}
			w.Write([]byte(`{"token":"tok123"}`))
		}))
		defer server.Close()

		client := NewAPIClient(server.URL, nil, nil, 0)
		token, err := client.SignIn(context.Background(), "ana", "pw")
		if err != nil {
			t.Fatalf("SignIn() error = %v", err)
		}
		if token != "tok123" {
			t.Errorf("token = %q", token)
		}
	})

	t.Run("missing token is a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewAPIClient(server.URL, nil, nil, 0)
		if _, err := client.SignIn(context.Background(), "ana", "pw"); !errors.Is(err, shared.ErrBackendReported) {
			t.Errorf("error = %v, want ErrBackendReported", err)
		}
	})

	t.Run("backend err envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"err":"wrong password"}`))
		}))
		defer server.Close()

		client := NewAPIClient(server.URL, nil, nil, 0)
		if _, err := client.SignIn(context.Background(), "ana", "pw"); !errors.Is(err, shared.ErrBackendReported) {
			t.Errorf("error = %v, want ErrBackendReported", err)
		}
	})
}
