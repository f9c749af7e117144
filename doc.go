// Package ambient is a frame-driven animation and simulation engine for
// ambient backgrounds and page effects.
//
// Everything runs off one [Scheduler]: a simulated clock plus an ordered list
// of per-frame callbacks. Hosts call [Engine.Update] once per frame and draw
// the shapes the engine placed in their scenes. The package never touches a
// window, a terminal or a GPU; see ambient/ebitenhost and ambient/termhost
// for renderers.
//
// # Quick start
//
//	world, overlay := ambient.NewLayer(), ambient.NewLayer()
//	eng, err := ambient.NewEngine(world, overlay, ambient.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//
//	for range frames {
//		eng.Update(time.Second / 60)
//		draw(world, overlay, eng.Camera())
//	}
//
// # Subsystems
//
// Easing curves come from [gween]'s ease package, looked up by name with
// [Lookup] and [Ease]. Tweens ([Scheduler.Tween], [Scheduler.TweenProperties])
// derive progress from the clock each frame and always finish on their exact
// end values; [Tween.Cancel] and [Slot] stop stale ones.
//
// [Network] builds a random [Graph] and a [Swarm] of agents that travel its
// edges forever, each agent hopping to a random edge when it reaches the end
// of its current one.
//
// [NewBurst] spawns a radial spray of ballistic particles that fade out and
// remove themselves. [RevealObserver] gives page elements a one-shot
// fade-and-rise entrance the first time they scroll into view.
//
// Text and page effects ([Typewriter], [Scramble], [Glitch], [Stagger],
// [CountUp], [Parallax], [MagneticOffset], [SmoothScroll], [Ripple]) are
// built on the same scheduler.
//
// # Threading
//
// An Engine and its Scheduler are not safe for concurrent use. Drive them
// from one goroutine, typically the host's update loop or [Scheduler.Run].
//
// [gween]: https://github.com/tanema/gween
package ambient
