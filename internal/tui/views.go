package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/navigation"
	"github.com/mmcdole/termnavi/internal/tui/styles"
)

const (
	artistDetailWidth = 12
	albumDetailWidth  = 20
	progressWidth     = 20
)

// View renders the application
func (m Model) View() string {
	width := m.width()

	if m.State == StateFatal {
		return m.renderFatal(width)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")
	b.WriteString(m.renderList(width))
	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying(width))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine(width))
	if m.ShowHelp {
		b.WriteString("\n\n")
		b.WriteString(renderHelp())
	}
	return b.String()
}

func (m Model) width() int {
	if m.Width > 0 {
		return m.Width
	}
	return defaultWidth
}

// Breadcrumb describes where the active list came from
func (m Model) Breadcrumb() string {
	if m.Nav.Mode == navigation.ModeSongs && m.Nav.CurrentAlbum == nil {
		return "Search results"
	}
	parts := []string{"Artists"}
	if m.Nav.Mode >= navigation.ModeAlbums && m.Nav.CurrentArtist != nil {
		parts = append(parts, m.Nav.CurrentArtist.Name)
	}
	if m.Nav.Mode == navigation.ModeSongs {
		parts = append(parts, m.Nav.CurrentAlbum.Name)
	}
	return strings.Join(parts, " › ")
}

func (m Model) renderHeader(width int) string {
	nouns := map[navigation.ViewMode]string{
		navigation.ModeArtists: "artist",
		navigation.ModeAlbums:  "album",
		navigation.ModeSongs:   "song",
	}
	count := pluralize(m.Nav.Len(), nouns[m.Nav.Mode])
	if m.Offline && m.Nav.Mode == navigation.ModeSongs {
		count = styles.OfflineBadgeStyle.Render("offline") + " " + count
	}

	crumbWidth := max(width-lipgloss.Width(count)-2, 1)
	crumb := styles.AccentStyle.Render(styles.Pad(m.Breadcrumb(), crumbWidth))
	return " " + crumb + styles.DimStyle.Render(count) + " "
}

// renderList draws the visible window of the active list, padded to a
// constant height
func (m Model) renderList(width int) string {
	window := m.Nav.Window()
	panel := m.Nav.Panel()
	count := m.Nav.Len()

	lines := make([]string, 0, window)
	if count == 0 {
		msg := "Nothing here"
		if m.Loading {
			msg = "Loading…"
		}
		lines = append(lines, " "+styles.DimStyle.Render(msg))
	}

	start, end := panel.Visible(count, window)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i, i == panel.Selected, width))
	}
	for len(lines) < window {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int, selected bool, width int) string {
	rowWidth := width - 2

	switch m.Nav.Mode {
	case navigation.ModeAlbums:
		al := m.Nav.Albums[i]
		name, detail := calculateListLayout(rowWidth, albumDetailWidth)
		return styles.RenderListRow(listParts(al.Name, al.Description(), name, detail), selected, width)

	case navigation.ModeSongs:
		return m.renderSongRow(i, selected, width)

	default:
		ar := m.Nav.Artists[i]
		info := ""
		if ar.AlbumCount > 0 {
			info = pluralize(ar.AlbumCount, "album")
		}
		name, detail := calculateListLayout(rowWidth, artistDetailWidth)
		return styles.RenderListRow(listParts(ar.Name, info, name, detail), selected, width)
	}
}

func listParts(name, info string, nameWidth, detailWidth int) []styles.RowPart {
	parts := []styles.RowPart{{Text: styles.Pad(name, nameWidth)}}
	if detailWidth > 0 {
		dim := styles.DimGray
		parts = append(parts,
			styles.RowPart{Text: strings.Repeat(" ", columnGap)},
			styles.RowPart{Text: styles.PadLeft(info, detailWidth), Foreground: &dim},
		)
	}
	return parts
}

func (m Model) renderSongRow(i int, selected bool, width int) string {
	song := m.Nav.Songs[i]
	layout := calculateSongLayout(width - 2)

	marker := "  "
	var markerFg *lipgloss.Color
	if idx, ok := m.Nav.NowPlaying(); ok && idx == i && m.Nav.ShowingQueue() {
		marker = styles.PlayingChar + " "
		accent := styles.Accent
		markerFg = &accent
	}

	track := ""
	if song.Track > 0 {
		track = strconv.Itoa(song.Track)
	}

	dim := styles.DimGray
	gap := styles.RowPart{Text: strings.Repeat(" ", columnGap)}
	parts := []styles.RowPart{
		{Text: marker, Foreground: markerFg},
		{Text: styles.PadLeft(track, trackWidth), Foreground: &dim},
		gap,
		{Text: styles.Pad(song.Title, layout.titleWidth)},
	}
	if layout.artistWidth > 0 {
		parts = append(parts, gap, styles.RowPart{Text: styles.Pad(song.Artist, layout.artistWidth), Foreground: &dim})
	}
	parts = append(parts, gap, styles.RowPart{Text: styles.PadLeft(song.FormattedDuration(), durationWidth), Foreground: &dim})

	return styles.RenderListRow(parts, selected, width)
}

func (m Model) renderNowPlaying(width int) string {
	song, ok := m.Nav.NowPlayingSong()
	if !ok || m.player == nil {
		return styles.FooterStyle.Render(styles.Pad(" Not playing", width))
	}

	var elapsed string
	percent := 0.0
	if st := m.player.Status(); st != nil {
		e := st.Elapsed()
		elapsed = domain.FormatClock(e)
		if song.Duration > 0 {
			percent = 100 * e.Seconds() / float64(song.Duration)
		}
	}

	timing := fmt.Sprintf(" %s / %s ", elapsed, song.FormattedDuration())
	volume := fmt.Sprintf(" vol %d%% ", m.player.Volume())
	bar := styles.RenderProgressBar(percent, progressWidth)

	title := song.Title
	if song.Artist != "" {
		title += " · " + song.Artist
	}
	titleWidth := width - lipgloss.Width(timing) - lipgloss.Width(volume) - lipgloss.Width(bar) - 3
	if titleWidth < MinColumnWidth {
		return styles.FooterStyle.Render(styles.Pad(" "+styles.PlayingChar+" "+title, width))
	}

	return styles.FooterStyle.Render(" "+styles.PlayingChar+" "+styles.Pad(title, titleWidth)+timing) +
		bar + styles.FooterStyle.Render(volume)
}

func (m Model) renderStatusLine(width int) string {
	switch {
	case m.State == StateSearching:
		return m.SearchInput.View()
	case m.StatusMsg != "":
		style := styles.SubtitleStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(styles.Truncate(" "+m.StatusMsg, width))
	case m.Loading:
		return styles.DimStyle.Render(" Loading…")
	default:
		return renderShortHelp(width)
	}
}

func renderShortHelp(width int) string {
	var parts []string
	for _, b := range Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	line := " " + strings.Join(parts, styles.DimStyle.Render(" · "))
	if lipgloss.Width(line) > width {
		return " " + styles.HelpKeyStyle.Render("?") + " " + styles.HelpDescStyle.Render("help")
	}
	return line
}

func renderHelp() string {
	k := Keys
	bindings := []struct{ keys, desc string }{
		{"↑/↓ PgUp/PgDn", "move"},
		{k.Enter.Help().Key, "open artist/album, play song"},
		{k.Back.Help().Key, "back"},
		{"a-z 0-9", "jump to first match"},
		{k.Search.Help().Key, "search songs (enter submits, esc cancels)"},
		{k.Stop.Help().Key, "stop"},
		{"+/-", "volume"},
		{k.Mute.Help().Key, "mute"},
		{"N/P", "next/previous song"},
		{k.Resume.Help().Key, "resume last session"},
		{k.Refresh.Help().Key, "refresh catalog"},
		{k.Quit.Help().Key, "quit"},
	}

	var b strings.Builder
	for _, kb := range bindings {
		b.WriteString(" ")
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(kb.keys, 14)))
		b.WriteString(styles.HelpDescStyle.Render(kb.desc))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFatal(width int) string {
	msg := "Startup failed"
	if m.Fatal != nil {
		msg = m.Fatal.Error()
	}
	body := styles.TitleStyle.Render("termnavi") + "\n\n" + styles.ErrorStyle.Render(msg) + "\n\n" + styles.DimStyle.Render("Press any key to exit.")
	return styles.FatalStyle.Width(max(width-4, 20)).Render(body)
}

// pluralize formats a count with its noun: "1 song", "1,204 songs"
func pluralize(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return humanize.Comma(int64(n)) + " " + noun
}
