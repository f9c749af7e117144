package ebitenhost

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next frame in place of real mouse input.
func (h *Host) InjectPress(x, y float64) {
	h.injectQueue = append(h.injectQueue, pointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held.
func (h *Host) InjectMove(x, y float64) {
	h.injectQueue = append(h.injectQueue, pointerEvent{x: x, y: y, pressed: true})
}

// InjectHover queues a pointer move with the button up.
func (h *Host) InjectHover(x, y float64) {
	h.injectQueue = append(h.injectQueue, pointerEvent{x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (h *Host) InjectRelease(x, y float64) {
	h.injectQueue = append(h.injectQueue, pointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames; the burst spawns on the second.
func (h *Host) InjectClick(x, y float64) {
	h.InjectPress(x, y)
	h.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves and
// a release at (toX, toY). The sequence consumes frames frames, at least 2.
func (h *Host) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	h.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		h.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	h.InjectRelease(toX, toY)
}

// nextInjected pops the oldest injected event.
func (h *Host) nextInjected() (pointerEvent, bool) {
	if len(h.injectQueue) == 0 {
		return pointerEvent{}, false
	}
	evt := h.injectQueue[0]
	copy(h.injectQueue, h.injectQueue[1:])
	h.injectQueue = h.injectQueue[:len(h.injectQueue)-1]
	return evt, true
}
