package yeelight

import (
	"fmt"
	"strings"
	"time"
)

// FlowMode is the kind of state change a flow step performs
type FlowMode int

// Flow step kinds
const (
	FlowModeColor FlowMode = 1
	FlowModeCT    FlowMode = 2
	FlowModeSleep FlowMode = 7
)

// FlowTuple is one step of a color flow: hold or transition for Duration,
// in the given mode, towards Value (an RGB color or a color temperature,
// ignored while sleeping) at Brightness percent (1 to 100, or -1 to keep
// the previous value).
type FlowTuple struct {
	Duration   time.Duration
	Mode       FlowMode
	Value      uint32
	Brightness int8
}

// FlowRGB returns a step transitioning to an RGB color (0x000000 to
// 0xffffff)
func FlowRGB(duration time.Duration, rgb uint32, brightness int8) FlowTuple {
	return FlowTuple{Duration: duration, Mode: FlowModeColor, Value: rgb, Brightness: brightness}
}

// FlowCT returns a step transitioning to a color temperature in Kelvin
// (1700 to 6500, varies between models)
func FlowCT(duration time.Duration, ct uint32, brightness int8) FlowTuple {
	return FlowTuple{Duration: duration, Mode: FlowModeCT, Value: ct, Brightness: brightness}
}

// FlowSleep returns a step that holds the current state for duration
func FlowSleep(duration time.Duration) FlowTuple {
	return FlowTuple{Duration: duration, Mode: FlowModeSleep, Brightness: -1}
}

func (t FlowTuple) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", t.Duration.Milliseconds(), t.Mode, t.Value, t.Brightness)
}

// FlowExpression is an ordered sequence of flow steps played back in order.
// It is serialized as a single comma-joined command parameter.
type FlowExpression []FlowTuple

func (e FlowExpression) String() string {
	steps := make([]string, len(e))
	for i, t := range e {
		steps[i] = t.String()
	}
	return strings.Join(steps, `,`)
}
