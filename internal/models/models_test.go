package models

import (
	"encoding/json"
	"testing"
)

func TestSong(t *testing.T) {
	t.Run("NewSong", func(t *testing.T) {
		t.Run("empty version is nil", func(t *testing.T) {
			if s := NewSong("abc", "Foo", "https://suno.com/song/abc", ""); s.Version != nil {
				t.Errorf("expected nil version, got %q", *s.Version)
			}
		})

		t.Run("version is kept", func(t *testing.T) {
			s := NewSong("abc", "Foo", "https://suno.com/song/abc", "v3")
			if s.VersionString() != "v3" {
				t.Errorf("expected v3, got %q", s.VersionString())
			}
		})
	})

	t.Run("JSON shape", func(t *testing.T) {
		tc := []struct {
			name string
			song Song
			want string
		}{
			{
				name: "with version",
				song: NewSong("abc", "Foo", "https://suno.com/song/abc", "v3"),
				want: `{"title":"Foo","url":"https://suno.com/song/abc","version":"v3"}`,
			},
			{
				name: "without version",
				song: NewSong("abc", "Foo", "https://suno.com/song/abc", ""),
				want: `{"title":"Foo","url":"https://suno.com/song/abc","version":null}`,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				data, err := json.Marshal(tt.song)
				if err != nil {
					t.Fatalf("marshal failed: %v", err)
				}
				if string(data) != tt.want {
					t.Errorf("got %s, want %s", data, tt.want)
				}
			})
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := NewSong("", "Foo", "https://suno.com/song/", "").Validate(); err == nil {
			t.Error("expected error for missing id")
		}
		if err := NewSong("abc", "Foo", "", "").Validate(); err == nil {
			t.Error("expected error for missing url")
		}
		if err := NewSong("abc", "Foo", "https://suno.com/song/abc", "").Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("SongURL", func(t *testing.T) {
		if got := SongURL("https://suno.com/song", "abc"); got != "https://suno.com/song/abc" {
			t.Errorf("got %s", got)
		}
		if got := SongURL("https://suno.com/song/", "abc"); got != "https://suno.com/song/abc" {
			t.Errorf("got %s", got)
		}
	})
}
