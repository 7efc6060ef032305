package panel

// State is the visibility of the panel on one orientation axis.
type State int

const (
	Hidden State = iota
	Half
	Full
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Half:
		return "half"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// Orientation is the rotation axis.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

func orientationOf(angle int) Orientation {
	switch ((angle % 360) + 360) % 360 {
	case 90, 270:
		return Landscape
	default:
		return Portrait
	}
}

// Event is a lifecycle notification delivered to the event callback.
type Event int

const (
	EventNone Event = iota
	ShowStart
	ShowFinish
	HideStart
	HideFinish
)

func (e Event) String() string {
	switch e {
	case ShowStart:
		return "show-start"
	case ShowFinish:
		return "show-finish"
	case HideStart:
		return "hide-start"
	case HideFinish:
		return "hide-finish"
	default:
		return "none"
	}
}

type trigger int

const (
	triggerShow trigger = iota
	triggerHide
	triggerFlickUp
	triggerFlickDown
	triggerFullRequest
	triggerCollapse
)

func (t trigger) String() string {
	switch t {
	case triggerShow:
		return "show"
	case triggerHide:
		return "hide"
	case triggerFlickUp:
		return "flick-up"
	case triggerFlickDown:
		return "flick-down"
	case triggerFullRequest:
		return "full-request"
	case triggerCollapse:
		return "collapse"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	axis    Orientation
	from    State
	trigger trigger
}

// transitions lists every legal state change. Pairs that are not listed are
// ignored.
var transitions = map[transitionKey]State{
	{Portrait, Hidden, triggerShow}:      Half,
	{Portrait, Half, triggerHide}:        Hidden,
	{Portrait, Full, triggerHide}:        Hidden,
	{Portrait, Half, triggerFlickUp}:     Full,
	{Portrait, Half, triggerFullRequest}: Full,
	{Portrait, Half, triggerFlickDown}:   Hidden,
	{Portrait, Full, triggerFlickDown}:   Half,
	{Portrait, Full, triggerCollapse}:    Half,

	{Landscape, Hidden, triggerShow}:    Full,
	{Landscape, Full, triggerHide}:      Hidden,
	{Landscape, Full, triggerFlickDown}: Hidden,
}

func nextState(axis Orientation, from State, t trigger) (State, bool) {
	to, ok := transitions[transitionKey{axis: axis, from: from, trigger: t}]
	return to, ok
}
