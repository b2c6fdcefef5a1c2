package capture

import (
	"strings"
	"testing"
)

const libraryPage = `<!DOCTYPE html>
<html><body>
<div data-testid="song-row"><span>Title</span><span>Version</span></div>
<div data-testid="song-row">
  <span class="duration">3:45</span>
  <a href="/song/abc-123">3:45 My Song (Cover) v4 Publish 12</a>
  <span class="badge">v4</span>
  <button>Publish</button>
</div>
<div data-testid="song-row">
  <a href="/profile/someone">someone</a>
  <a href="https://suno.com/song/def-456?sh=xyz">Glass Hearts</a>
  <span>v4.5+</span>
  <script>var ignored = "v9";</script>
</div>
<div data-testid="playlist-row"><a href="/song/zzz">Not a library row</a></div>
<div data-testid="song-row"><a href="/song/abc-123">Duplicate Row</a></div>
</body></html>`

func TestScanRows(t *testing.T) {
	opts := ScanOpts{RowTestID: "song-row", SongPathMarker: "/song/"}

	rows, err := ScanRows(strings.NewReader(libraryPage), opts)
	if err != nil {
		t.Fatalf("ScanRows failed: %v", err)
	}

	t.Run("skips rows without song link", func(t *testing.T) {
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows with song links, got %d: %+v", len(rows), rows)
		}
	})

	t.Run("keeps document order and raw hrefs", func(t *testing.T) {
		want := []string{"/song/abc-123", "https://suno.com/song/def-456?sh=xyz", "/song/abc-123"}
		for i, row := range rows {
			if row.Href != want[i] {
				t.Errorf("row %d href = %s, want %s", i, row.Href, want[i])
			}
		}
	})

	t.Run("picks the song link over other anchors", func(t *testing.T) {
		if rows[1].LinkText != "Glass Hearts" {
			t.Errorf("expected Glass Hearts, got %q", rows[1].LinkText)
		}
	})

	t.Run("row text includes badges but not scripts", func(t *testing.T) {
		if !strings.Contains(rows[1].Text, "v4.5+") {
			t.Errorf("row text missing badge: %q", rows[1].Text)
		}
		if strings.Contains(rows[1].Text, "v9") {
			t.Errorf("row text should skip script content: %q", rows[1].Text)
		}
	})

	t.Run("empty row id matches nothing", func(t *testing.T) {
		rows, err := ScanRows(strings.NewReader(libraryPage), ScanOpts{SongPathMarker: "/song/"})
		if err != nil {
			t.Fatalf("ScanRows failed: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("expected no rows, got %d", len(rows))
		}
	})
}

func TestIdentifierFromHref(t *testing.T) {
	tc := []struct {
		href string
		want string
	}{
		{"/song/abc-123", "abc-123"},
		{"https://suno.com/song/abc-123", "abc-123"},
		{"https://suno.com/song/abc-123?sh=xyz", "abc-123"},
		{"https://suno.com/song/abc-123/", "abc-123"},
		{"https://suno.com/song/abc-123#top", "abc-123"},
		{"https://suno.com/song/", ""},
		{"https://suno.com/playlist/abc", ""},
	}

	for _, tt := range tc {
		t.Run(tt.href, func(t *testing.T) {
			if got := IdentifierFromHref(tt.href, "/song/"); got != tt.want {
				t.Errorf("IdentifierFromHref(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
