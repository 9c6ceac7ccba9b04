package tui

const (
	defaultWidth   = 80
	MinColumnWidth = 8

	markerWidth   = 2 // now-playing marker + space
	trackWidth    = 3
	durationWidth = 7 // H:MM:SS fits
	columnGap     = 2

	// Title/artist split of the flexible space
	TitleColumnPercent = 60
)

// songLayout holds calculated column widths for a song row
type songLayout struct {
	titleWidth  int
	artistWidth int // 0 if not shown
}

// calculateSongLayout splits the row width between title and artist. The
// artist column is dropped when the row is too narrow for both.
func calculateSongLayout(rowWidth int) songLayout {
	flexible := rowWidth - markerWidth - trackWidth - durationWidth - 3*columnGap
	if flexible < 2*MinColumnWidth {
		return songLayout{titleWidth: max(flexible+columnGap, 1)}
	}

	title := flexible * TitleColumnPercent / 100
	return songLayout{
		titleWidth:  title,
		artistWidth: flexible - title,
	}
}

// calculateListLayout splits the row width between a name and its detail
func calculateListLayout(rowWidth, detailWidth int) (nameWidth, detail int) {
	if rowWidth-detailWidth-columnGap < MinColumnWidth {
		return max(rowWidth, 1), 0
	}
	return rowWidth - detailWidth - columnGap, detailWidth
}
