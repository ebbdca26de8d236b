package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during an export.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveSites Phase = iota
	RenderFiles
	StoreArchive
	Completed
)

func (p Phase) String() string {
	switch p {
	case ResolveSites:
		return "resolve_sites"
	case RenderFiles:
		return "render_files"
	case StoreArchive:
		return "store_archive"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

func resolveSiteUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving site %s...", step, total, name),
	}
}

func skippedSiteUpdate(step, total int, name, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s skipped (%s)", step, total, name, reason),
	}
}

func renderedFileUpdate(step, total int, file ArchiveFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ %s (%d keys)", file.Path, file.Keys),
		Data:    file,
	}
}

func storeArchiveUpdate(key string, size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreArchive,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Storing archive %s (%d bytes)...", key, size),
	}
}

func completedUpdate(m *Manifest) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Completed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%s: %s", m.Message, m.FileURL),
		Data:    m,
	}
}
