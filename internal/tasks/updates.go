package tasks

import (
	"fmt"

	"github.com/desertthunder/songcap/internal/capture"
)

func fetchingPageUpdate(page, total int) capture.Progress {
	return capture.Progress{
		Phase:   capture.PhaseFetch,
		Total:   total,
		Message: fmt.Sprintf("Fetching page %d...", page),
	}
}

func fetchedPageUpdate(page, clips, added, total int) capture.Progress {
	return capture.Progress{
		Phase:   capture.PhaseFetch,
		Added:   added,
		Total:   total,
		Message: fmt.Sprintf("Page %d: %d clips, +%d new songs (total: %d)", page, clips, added, total),
	}
}

func replayDoneUpdate(result *ReplayResult) capture.Progress {
	return capture.Progress{
		Phase:   capture.PhaseFetch,
		Total:   result.Total,
		Message: fmt.Sprintf("Replay finished after %d pages (%s): %d songs", result.Pages, result.Reason, result.Total),
	}
}
