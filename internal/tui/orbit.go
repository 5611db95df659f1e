package tui

import (
	"github.com/charmbracelet/harmonica"
)

// orbitAxis is one camera turn axis whose velocity eases back to rest on a
// critically damped spring.
type orbitAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = no overshoot
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// step returns the turn for this frame and decays the velocity.
func (a *orbitAxis) step() float64 {
	d := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return d
}

// orbit is the spinning state of the camera around the focal point.
type orbit struct {
	Azimuth, Elevation orbitAxis
	fps                int
}

func newOrbit(fps int) *orbit {
	return &orbit{
		Azimuth:   newOrbitAxis(fps),
		Elevation: newOrbitAxis(fps),
		fps:       fps,
	}
}

// impulse adds to the turn velocities, in radians per frame.
func (o *orbit) impulse(azimuth, elevation float64) {
	o.Azimuth.Velocity += azimuth
	o.Elevation.Velocity += elevation
}

// step advances one frame. Velocities that have died down are snapped to
// rest so an idle viewer stops redrawing.
func (o *orbit) step() (azimuth, elevation float64) {
	const rest = 1e-5
	azimuth, elevation = o.Azimuth.step(), o.Elevation.step()
	if abs(azimuth) < rest && abs(elevation) < rest &&
		abs(o.Azimuth.Velocity) < rest && abs(o.Elevation.Velocity) < rest {
		o.reset()
		return 0, 0
	}
	return azimuth, elevation
}

func (o *orbit) reset() {
	o.Azimuth = newOrbitAxis(o.fps)
	o.Elevation = newOrbitAxis(o.fps)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
