package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestTranslateMovesPoints(t *testing.T) {
	tests := []struct {
		name   string
		offset Vec3
		in     Vec3
		want   Vec3
	}{
		{"x step", V3(1, 0, 0), V3(0, 0, 0), V3(1, 0, 0)},
		{"y step", V3(0, 1, 0), V3(2, 3, 4), V3(2, 4, 4)},
		{"negative", V3(-1, -2, -3), V3(1, 2, 3), V3(0, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Translate(tc.offset).MulVec3(tc.in)
			if !got.ApproxEqual(tc.want, eps) {
				t.Errorf("Translate(%v).MulVec3(%v) = %v, want %v", tc.offset, tc.in, got, tc.want)
			}
		})
	}
}

func TestTranslateIgnoresDirections(t *testing.T) {
	got := Translate(V3(5, 5, 5)).MulVec3Dir(V3(0, 0, 1))
	if !got.ApproxEqual(V3(0, 0, 1), eps) {
		t.Errorf("direction should not be translated, got %v", got)
	}
}

func TestMulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(V3(1, 0, 0)).Mul(Scale(V3(2, 2, 2)))
	got := m.MulVec3(V3(1, 1, 1))
	if !got.ApproxEqual(V3(3, 2, 2), eps) {
		t.Errorf("got %v, want (3, 2, 2)", got)
	}
}

func TestTranslationRoundTrip(t *testing.T) {
	m := Translate(V3(0, 1, 0))
	if got := m.Translation(); got != V3(0, 1, 0) {
		t.Errorf("Translation() = %v", got)
	}
	if m.IsIdentity() {
		t.Error("translation matrix reported as identity")
	}
	if !Identity().IsIdentity() {
		t.Error("identity not reported as identity")
	}
}

func TestRotateMatchesAxisHelpers(t *testing.T) {
	angle := 0.7
	if !Rotate(V3(0, 1, 0), angle).ApproxEqual(RotateY(angle), eps) {
		t.Error("Rotate about +Y differs from RotateY")
	}
	if !Rotate(V3(1, 0, 0), angle).ApproxEqual(RotateX(angle), eps) {
		t.Error("Rotate about +X differs from RotateX")
	}
}

func TestLookAtPutsTargetOnAxis(t *testing.T) {
	view := LookAt(V3(0, 0, 10), Zero3(), Up())
	got := view.MulVec3(Zero3())
	if !got.ApproxEqual(V3(0, 0, -10), eps) {
		t.Errorf("target in view space = %v, want (0, 0, -10)", got)
	}
}

func TestPerspectiveMapsNearFar(t *testing.T) {
	proj := Perspective(math.Pi/3, 1, 1, 100)

	near := proj.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	far := proj.MulVec4(V4(0, 0, -100, 1)).PerspectiveDivide()

	if math.Abs(near.Z+1) > 1e-6 {
		t.Errorf("near plane NDC z = %v, want -1", near.Z)
	}
	if math.Abs(far.Z-1) > 1e-6 {
		t.Errorf("far plane NDC z = %v, want 1", far.Z)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("Normalize(0) = %v", got)
	}
	if got := V3(3, 0, 4).Normalize().Len(); math.Abs(got-1) > eps {
		t.Errorf("unit length = %v", got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}
