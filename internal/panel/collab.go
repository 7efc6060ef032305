package panel

import "time"

// Signal is a cosmetic notification pushed to the rendering surface.
type Signal int

const (
	SignalHalf Signal = iota + 1
	SignalFull
	SignalToolbarShow
	SignalToolbarHide
)

func (s Signal) String() string {
	switch s {
	case SignalHalf:
		return "half"
	case SignalFull:
		return "full"
	case SignalToolbarShow:
		return "toolbar-show"
	case SignalToolbarHide:
		return "toolbar-hide"
	default:
		return "unknown"
	}
}

// Surface is the region the panel is laid out in. Everything else needed to
// draw the panel is read back from the Panel accessors.
type Surface interface {
	// Geometry reports the container size for the current rotation.
	Geometry() (width, height int)
	// Rotation reports the device angle: 0, 90, 180 or 270.
	Rotation() int
	// KeypadHeight reports the last known on-screen keyboard height.
	KeypadHeight() int
	// AnimateHeight animates the panel height and calls done once it ends.
	// done must run on the same goroutine that drives the panel.
	AnimateHeight(from, to int, d time.Duration, done func())
	// SetHeight resizes the panel without animation.
	SetHeight(h int)
	Signal(Signal)
}

// EmbedRequest asks the embedded host to realize a view for a category.
type EmbedRequest struct {
	Descriptor Descriptor
	Data       Data
	// OnResult receives every message the view sends back.
	OnResult func(Data)
}

// EmbeddedHost realizes embedded views.
type EmbeddedHost interface {
	Create(req EmbedRequest) (EmbeddedView, error)
	Rotate(angle int)
	LanguageChanged()
}

// EmbeddedView is a realized embedded picker.
type EmbeddedView interface {
	Send(Data) error
	Destroy()
}

// Pauser is implemented by views that react to the panel being hidden or
// shown again.
type Pauser interface {
	Pause()
	Resume()
}

// LaunchRequest describes an application launch for an app category.
type LaunchRequest struct {
	ID            string
	Category      Category
	Target        string
	Operation     string
	MIME          string
	SelectionMode string
	Mode          int
	Type          string
	ItemType      string
	Max           int
	Extra         Data
}

// Launcher starts applications. reply is called at most once with the
// application's result on the goroutine that drives the panel.
type Launcher interface {
	Launch(req LaunchRequest, reply func(Data)) error
}

// Authorizer gates categories on device features and caller privileges.
type Authorizer interface {
	HasFeature(name string) (bool, error)
	CheckPrivilege(name string) error
}

// Ranker provides usage history for launch targets.
type Ranker interface {
	// Ranked returns launch targets most relevant first.
	Ranked(caller string) ([]string, error)
	Record(caller, target string) error
}
