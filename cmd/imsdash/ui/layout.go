// Layout constants for consistent spacing across pages.
package ui

const (
	// Chrome around page content.
	HeaderHeight    = 2
	FooterHeight    = 2
	ContentPadding  = 2
	StatusBarHeight = 1

	// Table sizing.
	TableHeaderHeight = 3
	TableRowHeight    = 1

	// Responsive breakpoints.
	MinimumTerminalWidth  = 70
	MinimumTerminalHeight = 20

	// KPI cards on the overview page.
	KPICardWidth  = 30
	KPIChartWidth = 14
)

// ContentHeight returns the rows available to page content for a terminal of
// the given height.
func ContentHeight(terminalHeight int) int {
	h := terminalHeight - HeaderHeight - FooterHeight - ContentPadding
	if h < 1 {
		h = 1
	}
	return h
}

// TableBodyHeight returns the rows available to table bodies inside page
// content.
func TableBodyHeight(contentHeight int) int {
	h := contentHeight - TableHeaderHeight - StatusBarHeight
	if h < 3 {
		h = 3
	}
	return h
}
