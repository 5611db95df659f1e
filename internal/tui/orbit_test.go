package tui

import "testing"

func TestOrbitDecaysToRest(t *testing.T) {
	o := newOrbit(30)
	o.impulse(0.2, -0.1)

	az, el := o.step()
	if az != 0.2 || el != -0.1 {
		t.Fatalf("first step = (%v, %v), want the impulse", az, el)
	}

	var total float64
	frames := 1
	for ; frames < 300; frames++ {
		a, _ := o.step()
		if a == 0 {
			break
		}
		if a < 0 {
			t.Fatalf("frame %d overshot: %v", frames, a)
		}
		total += a
	}
	if frames == 300 {
		t.Fatal("orbit never came to rest")
	}
	if total <= 0 {
		t.Error("velocity should carry on after the impulse")
	}
}

func TestOrbitIdle(t *testing.T) {
	o := newOrbit(60)
	if az, el := o.step(); az != 0 || el != 0 {
		t.Errorf("idle step = (%v, %v)", az, el)
	}

	o.impulse(1, 1)
	o.reset()
	if o.Azimuth.Velocity != 0 || o.Elevation.Velocity != 0 {
		t.Error("reset kept velocity")
	}
}
