package panel

import "fmt"

// Category identifies a kind of attachable content.
type Category int

const (
	CategoryImage Category = iota + 1
	CategoryCamera
	CategoryVoice
	CategoryVideo
	CategoryAudio
	CategoryCalendar
	CategoryContact
	CategoryFiles
	CategoryVideoRecorder
	CategoryDocument
)

// Kind says how a category acquires content.
type Kind int

const (
	// KindEmbedded categories render inline on a dedicated page.
	KindEmbedded Kind = iota
	// KindApp categories launch a separate application from the grid page.
	KindApp
)

func (k Kind) String() string {
	if k == KindEmbedded {
		return "embedded"
	}
	return "app"
}

// Selection modes understood by embedded views and launched applications.
const (
	SelectionSingle   = "single"
	SelectionMultiple = "multiple"
)

// Operation verbs.
const (
	OperationPick   = "pick"
	OperationCreate = "create-content"
)

// Descriptor is the static description of a content category.
type Descriptor struct {
	Category      Category
	Name          string
	TabLabel      string
	Icon          string
	LaunchTarget  string
	Operation     string
	MIME          string
	SelectionMode string
	Kind          Kind
	Mode          int
	Type          string
	ItemType      string
	Max           int
	Feature       string
	Privilege     string
}

const privilegeLaunch = "appmanager.launch"

var descriptors = map[Category]Descriptor{
	CategoryImage: {
		Name: "image", TabLabel: "Gallery", Icon: "gallery",
		LaunchTarget: "attach-panel-gallery", Operation: OperationPick, MIME: "image/*",
		SelectionMode: SelectionSingle, Kind: KindEmbedded,
	},
	CategoryCamera: {
		Name: "camera", TabLabel: "Camera", Icon: "camera",
		LaunchTarget: "attach-panel-camera", Operation: OperationCreate,
		SelectionMode: SelectionSingle, Kind: KindEmbedded,
		Feature: "camera", Privilege: "camera",
	},
	CategoryVoice: {
		Name: "voice", TabLabel: "Voice", Icon: "voice",
		LaunchTarget: "attach-panel-voicerecorder", Operation: OperationCreate,
		SelectionMode: SelectionSingle, Kind: KindEmbedded,
		Feature: "microphone", Privilege: "recorder",
	},
	CategoryVideo: {
		Name: "video", TabLabel: "Video", Icon: "video",
		LaunchTarget: "videos", Operation: OperationPick, MIME: "video/*",
		SelectionMode: SelectionMultiple, Kind: KindApp,
		Privilege: privilegeLaunch,
	},
	CategoryAudio: {
		Name: "audio", TabLabel: "Audio", Icon: "audio",
		LaunchTarget: "audio", Operation: OperationPick, MIME: "audio/*",
		SelectionMode: SelectionMultiple, Kind: KindApp,
		Privilege: privilegeLaunch,
	},
	CategoryCalendar: {
		Name: "calendar", TabLabel: "Calendar", Icon: "calendar",
		LaunchTarget: "calendar", Operation: OperationPick, MIME: "application/vnd.calendar",
		SelectionMode: SelectionMultiple, Kind: KindApp,
		Mode: 1, Type: "vcs", Max: 1,
		Privilege: privilegeLaunch,
	},
	CategoryContact: {
		Name: "contact", TabLabel: "Contacts", Icon: "contact",
		LaunchTarget: "contacts", Operation: OperationPick, MIME: "application/vnd.contact",
		SelectionMode: SelectionMultiple, Kind: KindApp,
		Type: "vcf", ItemType: "person",
		Privilege: privilegeLaunch,
	},
	CategoryFiles: {
		Name: "files", TabLabel: "My Files", Icon: "files",
		LaunchTarget: "myfiles", Operation: OperationPick,
		SelectionMode: SelectionMultiple, Kind: KindApp,
		Privilege: privilegeLaunch,
	},
	CategoryVideoRecorder: {
		Name: "video-recorder", TabLabel: "Record", Icon: "video-recorder",
		LaunchTarget: "record_video", Operation: OperationCreate, MIME: "video/3gp",
		SelectionMode: SelectionSingle, Kind: KindApp,
	},
	CategoryDocument: {
		Name: "document", TabLabel: "Documents", Icon: "document",
		LaunchTarget: "attach-panel-document", Operation: OperationCreate,
		SelectionMode: SelectionSingle, Kind: KindEmbedded,
	},
}

func init() {
	for c, d := range descriptors {
		d.Category = c
		descriptors[c] = d
	}
}

// Valid reports whether c names a known category.
func (c Category) Valid() bool {
	_, ok := descriptors[c]
	return ok
}

func (c Category) String() string {
	if d, ok := descriptors[c]; ok {
		return d.Name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Describe returns the descriptor for c.
func Describe(c Category) (Descriptor, bool) {
	d, ok := descriptors[c]
	return d, ok
}

// Categories lists every known category in identifier order.
func Categories() []Category {
	out := make([]Category, 0, len(descriptors))
	for c := CategoryImage; c <= CategoryDocument; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory maps a category name such as "image" or "video-recorder" to
// its identifier.
func ParseCategory(name string) (Category, error) {
	for c, d := range descriptors {
		if d.Name == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidParameter, name)
}
