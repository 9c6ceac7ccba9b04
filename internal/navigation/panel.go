package navigation

// DefaultWindowSize is the number of list rows visible at once
const DefaultWindowSize = 15

// PanelState is the selection and scroll offset of one view
type PanelState struct {
	Selected int `json:"selected"`
	Scroll   int `json:"scroll"`
}

// AdjustScroll keeps the selection inside the visible window:
// 0 <= Scroll <= Selected < Scroll+window.
func (p *PanelState) AdjustScroll(window int) {
	if window < 1 {
		window = 1
	}
	if p.Selected < 0 {
		p.Selected = 0
	}
	if p.Selected < p.Scroll {
		p.Scroll = p.Selected
	} else if p.Selected >= p.Scroll+window {
		p.Scroll = p.Selected - window + 1
	}
	if p.Scroll < 0 {
		p.Scroll = 0
	}
}

// Select moves the selection to idx, clamped to [0, count), and re-windows
func (p *PanelState) Select(idx, count, window int) {
	if count <= 0 {
		return
	}
	p.Selected = clamp(idx, 0, count-1)
	p.AdjustScroll(window)
}

// Move shifts the selection by delta without wrapping around
func (p *PanelState) Move(delta, count, window int) {
	if count <= 0 {
		return
	}
	p.Select(p.Selected+delta, count, window)
}

// Reset returns the panel to the top of the list
func (p *PanelState) Reset() {
	p.Selected = 0
	p.Scroll = 0
}

// Visible returns the half-open range of rows to draw for a list of count items
func (p PanelState) Visible(count, window int) (start, end int) {
	start = clamp(p.Scroll, 0, max(count-1, 0))
	end = min(start+window, count)
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
