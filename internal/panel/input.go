package panel

// Input is an event delivered by the host to Panel.Handle.
type Input interface {
	isInput()
}

// Flick is a completed flick gesture over the content area. DY is negative
// for an upward flick.
type Flick struct {
	DX, DY int
}

// DragStarted reports that the user began dragging the page scroller.
type DragStarted struct{}

// Dragged reports an intermediate scroller offset.
type Dragged struct {
	Offset int
}

// ScrollSettled reports the offset the scroller came to rest at.
type ScrollSettled struct {
	Offset int
}

// TabSelected reports a tap on a tab.
type TabSelected struct {
	Index int
}

// GridItemSelected reports a tap on an item of the grid page.
type GridItemSelected struct {
	Index int
}

// GridScrolled reports whether the grid page sits at its top edge.
type GridScrolled struct {
	AtTop bool
}

// Rotated reports a change of Surface.Rotation or Surface.Geometry.
type Rotated struct{}

type KeypadShown struct{}

type Iconified struct{}

type Resumed struct{}

type BackPressed struct{}

type LanguageChanged struct{}

func (Flick) isInput()            {}
func (DragStarted) isInput()      {}
func (Dragged) isInput()          {}
func (ScrollSettled) isInput()    {}
func (TabSelected) isInput()      {}
func (GridItemSelected) isInput() {}
func (GridScrolled) isInput()     {}
func (Rotated) isInput()          {}
func (KeypadShown) isInput()      {}
func (Iconified) isInput()        {}
func (Resumed) isInput()          {}
func (BackPressed) isInput()      {}
func (LanguageChanged) isInput()  {}
