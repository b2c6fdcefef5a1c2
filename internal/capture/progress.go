package capture

import "github.com/desertthunder/songcap/internal/models"

// Progress is an event emitted while a session captures and exports songs.
type Progress struct {
	Phase   Phase        // Which producer or step emitted the event
	Added   int          // New songs contributed by this event
	Total   int          // Songs in the collection after this event
	Message string       // Human-readable message for display
	Latest  *models.Song // Most recently added song, if any
}

// Phase enumerates progress sources.
type Phase int

const (
	PhaseScan Phase = iota
	PhaseFeed
	PhaseFetch
	PhaseExport
)

func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseFeed:
		return "feed"
	case PhaseFetch:
		return "fetch"
	case PhaseExport:
		return "export"
	default:
		return ""
	}
}

// SendProgress delivers update without blocking; it is dropped when nobody is listening.
func SendProgress(ch chan<- Progress, update Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
