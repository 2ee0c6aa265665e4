package sim

import "github.com/signalsfoundry/orrery/model"

type autopilotPhase int

const (
	phaseSelect autopilotPhase = iota
	phaseWarp
	phaseTravel
	phaseDwell
)

// DwellYaw is the orbit step the autopilot applies per dwell tick.
const DwellYaw = 0.01

// Autopilot tours the planets in catalog order: select, warp, wait for
// arrival, circle the planet for a while, move on. It stands in for a
// human at the controls.
type Autopilot struct {
	planets int
	dwell   int

	next  int
	phase autopilotPhase
	wait  int
}

// NewAutopilot tours planets bodies, dwelling dwellTicks at each.
func NewAutopilot(planets, dwellTicks int) *Autopilot {
	if dwellTicks < 0 {
		dwellTicks = 0
	}
	return &Autopilot{planets: planets, dwell: dwellTicks}
}

// Next returns the commands for the coming tick. warpActive is the warp
// state left by the previous tick.
func (a *Autopilot) Next(warpActive bool) []model.Command {
	if a == nil || a.planets <= 0 {
		return nil
	}

	switch a.phase {
	case phaseSelect:
		a.phase = phaseWarp
		return []model.Command{model.Select(a.next)}

	case phaseWarp:
		a.phase = phaseTravel
		return []model.Command{{Kind: model.CmdStartWarp}}

	case phaseTravel:
		if warpActive {
			return nil
		}
		a.phase = phaseDwell
		a.wait = a.dwell
		return a.Next(false)

	default:
		if a.wait > 0 {
			a.wait--
			return []model.Command{{Kind: model.CmdOrbit, Yaw: DwellYaw}}
		}
		a.next = (a.next + 1) % a.planets
		a.phase = phaseSelect
		return a.Next(false)
	}
}

// Target is the planet index the tour is currently on.
func (a *Autopilot) Target() int { return a.next }
