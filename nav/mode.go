package nav

import "fmt"

// ModeKind says which mechanism may move the eye this tick.
type ModeKind int

const (
	ModeManual ModeKind = iota
	ModeFollowing
	ModeWarping
)

func (k ModeKind) String() string {
	switch k {
	case ModeFollowing:
		return "following"
	case ModeWarping:
		return "warping"
	default:
		return "manual"
	}
}

// Mode is the navigation mode. Body is the selected planet index for
// Following and Warping; it is -1 for Manual.
type Mode struct {
	Kind ModeKind
	Body int
}

// Manual is free flight with nothing selected.
func Manual() Mode { return Mode{Kind: ModeManual, Body: -1} }

// Following smoothly tracks planet i.
func Following(i int) Mode { return Mode{Kind: ModeFollowing, Body: i} }

// Warping travels to planet i; following resumes when the warp ends.
func Warping(i int) Mode { return Mode{Kind: ModeWarping, Body: i} }

// Selected returns the planet index and whether one is selected.
func (m Mode) Selected() (int, bool) {
	if m.Kind == ModeManual {
		return -1, false
	}
	return m.Body, true
}

func (m Mode) String() string {
	if m.Kind == ModeManual {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", m.Kind, m.Body)
}
