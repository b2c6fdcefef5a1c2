// package formatter provides functions to export captured songs to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/songcap/internal/models"
	"github.com/desertthunder/songcap/internal/shared"
)

// ExportToJSON converts songs to a JSON array of {title, url, version} objects.
//
// A nil slice is written as an empty array so the artifact is always a list.
func ExportToJSON(songs []models.Song, pretty bool) ([]byte, error) {
	if songs == nil {
		songs = []models.Song{}
	}
	return shared.MarshalJSON(songs, pretty)
}

// ExportToCSV converts songs to CSV format with columns: Title, URL, Version
func ExportToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "URL", "Version"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{song.Title, song.URL, song.VersionString()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts songs to a numbered Markdown list of links
func ExportToMarkdown(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Library\n\n")
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	for i, song := range songs {
		version := ""
		if song.Version != nil {
			version = fmt.Sprintf(" `%s`", *song.Version)
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s\n", i+1, song.Title, song.URL, version))
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to plain text format
func ExportToText(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, song := range songs {
		if song.Version != nil {
			buf.WriteString(fmt.Sprintf("%d. %s [%s] %s\n", i+1, song.Title, *song.Version, song.URL))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, song.Title, song.URL))
		}
	}

	return buf.Bytes(), nil
}

// Encode dispatches to the exporter for format.
func Encode(songs []models.Song, format string, pretty bool) ([]byte, error) {
	switch format {
	case "json", "":
		return ExportToJSON(songs, pretty)
	case "csv":
		return ExportToCSV(songs)
	case "markdown":
		return ExportToMarkdown(songs)
	case "txt":
		return ExportToText(songs)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidFormat, format)
	}
}

// Extension returns the file extension used for format, without the dot.
func Extension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "csv", "txt":
		return format
	default:
		return "json"
	}
}

// Filename builds the count-bearing artifact name, e.g. suno_library_42_songs.json
func Filename(prefix string, count int, format string) string {
	if prefix == "" {
		prefix = "library"
	}
	return fmt.Sprintf("%s_%d_songs.%s", prefix, count, Extension(format))
}

// ExportOpts controls where and how [WriteExport] writes an artifact.
type ExportOpts struct {
	OutputDir string // Directory for the artifact (default: current directory)
	Prefix    string // Filename prefix
	Format    string // json, csv, markdown, txt
	Pretty    bool   // Indent JSON output
}

// ExportResult describes a written artifact.
type ExportResult struct {
	Path   string
	Count  int
	Format string
	Bytes  int
}

// WriteExport encodes songs and writes them to a file named after the record count.
func WriteExport(songs []models.Song, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	data, err := Encode(songs, opts.Format, opts.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(opts.OutputDir, Filename(opts.Prefix, len(songs), opts.Format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &ExportResult{
		Path:   path,
		Count:  len(songs),
		Format: opts.Format,
		Bytes:  len(data),
	}, nil
}
