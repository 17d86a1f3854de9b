package shell

import (
	"fmt"
	"strings"
	"time"
)

// Breakpoints are the max widths, in pixels, of the s, m and l ranges. Wider
// viewports use the xl settings.
type Breakpoints struct {
	S int
	M int
	L int
}

// Gaps holds a column gap per breakpoint as a CSS length.
type Gaps struct {
	S  string
	M  string
	L  string
	XL string
}

// Columns holds a column count per breakpoint.
type Columns struct {
	S  int
	M  int
	L  int
	XL int
}

// Grid is the page-wide layout context consumed by block cells.
type Grid struct {
	Breakpoints Breakpoints
	ColGap      Gaps
	Cols        Columns
}

// DefaultGrid returns the standard grid: 4/4/12/12 columns and 24/48/48/72px
// gaps over breakpoints at 768, 1024 and 1440px.
func DefaultGrid() Grid {
	return Grid{
		Breakpoints: Breakpoints{S: 768, M: 1024, L: 1440},
		ColGap:      Gaps{S: "24px", M: "48px", L: "48px", XL: "72px"},
		Cols:        Columns{S: 4, M: 4, L: 12, XL: 12},
	}
}

func (g Grid) withDefaults() Grid {
	d := DefaultGrid()
	if g.Breakpoints.S <= 0 {
		g.Breakpoints.S = d.Breakpoints.S
	}
	if g.Breakpoints.M <= 0 {
		g.Breakpoints.M = d.Breakpoints.M
	}
	if g.Breakpoints.L <= 0 {
		g.Breakpoints.L = d.Breakpoints.L
	}
	g.ColGap.S = pick(g.ColGap.S, d.ColGap.S)
	g.ColGap.M = pick(g.ColGap.M, d.ColGap.M)
	g.ColGap.L = pick(g.ColGap.L, d.ColGap.L)
	g.ColGap.XL = pick(g.ColGap.XL, d.ColGap.XL)
	if g.Cols.S <= 0 {
		g.Cols.S = d.Cols.S
	}
	if g.Cols.M <= 0 {
		g.Cols.M = d.Cols.M
	}
	if g.Cols.L <= 0 {
		g.Cols.L = d.Cols.L
	}
	if g.Cols.XL <= 0 {
		g.Cols.XL = d.Cols.XL
	}
	return g
}

// CSS renders the grid as custom properties: the xl values on :root and one
// max-width media query per narrower range.
func (g Grid) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, ":root { --grid-cols: %d; --grid-col-gap: %s; --breakpoint-s: %dpx; --breakpoint-m: %dpx; --breakpoint-l: %dpx; }\n",
		g.Cols.XL, g.ColGap.XL, g.Breakpoints.S, g.Breakpoints.M, g.Breakpoints.L)
	ranges := []struct {
		width int
		cols  int
		gap   string
	}{
		{g.Breakpoints.L, g.Cols.L, g.ColGap.L},
		{g.Breakpoints.M, g.Cols.M, g.ColGap.M},
		{g.Breakpoints.S, g.Cols.S, g.ColGap.S},
	}
	for _, r := range ranges {
		fmt.Fprintf(&b, "@media (max-width: %dpx) { :root { --grid-cols: %d; --grid-col-gap: %s; } }\n", r.width, r.cols, r.gap)
	}
	return b.String()
}

// Modal configures the modal host rendered once per document.
type Modal struct {
	TransTime time.Duration
	ZIndex    string
}

// DefaultModal opens modals without transition above the page, at the
// stacking level named by --modal-z-index.
func DefaultModal() Modal {
	return Modal{TransTime: 0, ZIndex: "var(--modal-z-index)"}
}

func pick(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
