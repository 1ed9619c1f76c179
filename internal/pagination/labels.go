package pagination

// Label types as they appear in API responses
const (
	LabelTypePage     = "page"
	LabelTypeEllipsis = "ellipsis"
)

// Label represents a single entry of the page number strip: either a concrete
// page number or an ellipsis marking a gap of truncated pages
type Label struct {
	Type   string `json:"type"`
	Number int    `json:"number,omitempty"`
}

// Page returns a page number label
func Page(number int) Label {
	return Label{Type: LabelTypePage, Number: number}
}

// Ellipsis returns a gap marker label
func Ellipsis() Label {
	return Label{Type: LabelTypeEllipsis}
}

// Labels builds the ordered display sequence of page labels for a paging state.
// The strip always contains the pages within two of the current one, plus the
// first and last page when they fall outside that window. An ellipsis is only
// inserted when more than one page is truncated next to it, so two adjacent
// numbers never get separated by a gap marker.
// Callers are expected to skip rendering the strip entirely when the state has
// one page or less.
func Labels(state State) []Label {
	current, total := state.CurrentPage, state.TotalPages
	labels := []Label{}

	// Anchor the strip at the first page once the window moves away from it
	if current > 3 {
		labels = append(labels, Page(1))
		if current > 4 {
			labels = append(labels, Ellipsis())
		}
	}

	// The window of pages around the current one
	for i := max(1, current-2); i <= min(total, current+2); i++ {
		labels = append(labels, Page(i))
	}

	// Anchor the strip at the last page when the window ends before it
	if current < total-2 {
		if current < total-3 {
			labels = append(labels, Ellipsis())
		}
		labels = append(labels, Page(total))
	}

	return labels
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
