// Package selection implements the bar highlight state machine.
//
// There are two states: Unselected (the zero [State]) and Selected(i). A
// [BarClicked] event selects bar i, replacing any previous selection; a
// [BackgroundClicked] event returns to Unselected. Selection never changes
// on its own; a data update only clears it when the selected index no
// longer exists ([State.Clamp]).
//
// With two series the selected bar and its mirror in the other series share
// the highlight; every other bar is dimmed to [DimmedOpacity].
package selection

import "fmt"

// Opacity levels.
const (
	FullOpacity   = 1.0
	DimmedOpacity = 0.5
)

// Event is an input to the state machine.
type Event interface{ isEvent() }

// BarClicked reports a click on the bar at column index Index.
type BarClicked struct{ Index int }

// BackgroundClicked reports a click outside every bar.
type BackgroundClicked struct{}

func (BarClicked) isEvent()        {}
func (BackgroundClicked) isEvent() {}

// State is the highlight state. The zero value is Unselected.
type State struct {
	index    int
	selected bool
}

// Unselected returns the initial state.
func Unselected() State { return State{} }

// Selected returns the state with bar i highlighted.
func Selected(i int) State { return State{index: i, selected: true} }

// Index returns the selected column index and whether a bar is selected.
func (s State) Index() (int, bool) { return s.index, s.selected }

// IsSelected reports whether a bar is selected.
func (s State) IsSelected() bool { return s.selected }

// Handle returns the state after ev. Unknown events leave the state
// unchanged; a negative bar index is treated as a background click.
func (s State) Handle(ev Event) State {
	switch e := ev.(type) {
	case BarClicked:
		if e.Index < 0 {
			return Unselected()
		}
		return Selected(e.Index)
	case BackgroundClicked:
		return Unselected()
	}
	return s
}

// Clamp clears the selection when its index is outside [0, columnCount).
func (s State) Clamp(columnCount int) State {
	if s.selected && s.index >= columnCount {
		return Unselected()
	}
	return s
}

// Mirror returns the index of the bar for the same category in the other
// series of a two-series chart.
func Mirror(i, columnCount int) int {
	half := columnCount / 2
	if i < half {
		return i + half
	}
	return i - half
}

// Highlighted reports whether column i keeps full opacity in state s.
func (s State) Highlighted(i, columnCount, seriesCount int) bool {
	if !s.selected {
		return true
	}
	if i == s.index {
		return true
	}
	return seriesCount == 2 && i == Mirror(s.index, columnCount)
}

// Opacities returns the opacity of every column.
func (s State) Opacities(columnCount, seriesCount int) []float64 {
	out := make([]float64, columnCount)
	for i := range out {
		if s.Highlighted(i, columnCount, seriesCount) {
			out[i] = FullOpacity
		} else {
			out[i] = DimmedOpacity
		}
	}
	return out
}

func (s State) String() string {
	if !s.selected {
		return "Unselected"
	}
	return fmt.Sprintf("Selected(%d)", s.index)
}
