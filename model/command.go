package model

// CommandKind enumerates the discrete and continuous navigation inputs.
type CommandKind int

const (
	CmdSelectBody CommandKind = iota
	CmdStartWarp
	CmdResetCamera
	CmdMoveForward
	CmdMoveBackward
	CmdMoveLeft
	CmdMoveRight
	CmdMoveUp
	CmdMoveDown
	CmdLookUp
	CmdLookDown
	CmdLookLeft
	CmdLookRight
	CmdZoomIn
	CmdZoomOut
	CmdOrbit
)

var commandNames = map[CommandKind]string{
	CmdSelectBody:   "select_body",
	CmdStartWarp:    "start_warp",
	CmdResetCamera:  "reset_camera",
	CmdMoveForward:  "move_forward",
	CmdMoveBackward: "move_backward",
	CmdMoveLeft:     "move_left",
	CmdMoveRight:    "move_right",
	CmdMoveUp:       "move_up",
	CmdMoveDown:     "move_down",
	CmdLookUp:       "look_up",
	CmdLookDown:     "look_down",
	CmdLookLeft:     "look_left",
	CmdLookRight:    "look_right",
	CmdZoomIn:       "zoom_in",
	CmdZoomOut:      "zoom_out",
	CmdOrbit:        "orbit",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one input for the next tick. Index is used by CmdSelectBody;
// Yaw and Pitch by CmdOrbit.
type Command struct {
	Kind  CommandKind
	Index int
	Yaw   float64
	Pitch float64
}

// Select returns a select-body command for planet index i.
func Select(i int) Command { return Command{Kind: CmdSelectBody, Index: i} }
