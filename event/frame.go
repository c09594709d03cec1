package event

// Mouse button bits in Input.Buttons.
const (
	ButtonLeft uint32 = 1 << iota
	ButtonRight
	ButtonMiddle
)

// Input is the host's input snapshot for one frame
type Input struct {
	CursorX, CursorY float64
	Buttons          uint32
	WheelY           float64
}

// Pressed reports whether the given button bit is down
func (in Input) Pressed(button uint32) bool {
	return in.Buttons&button != 0
}

// Frame is the payload of the frame-update signal: the elapsed time since
// the previous frame in seconds and the input snapshot taken by the host.
type Frame struct {
	Delta float64
	Input Input
}
