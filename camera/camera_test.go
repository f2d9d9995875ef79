package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2, 3, 50)

	if cam.X != 2 || cam.Y != 3 {
		t.Errorf("expected camera at (2, 3), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if New(10, 10, 0, 0, 0).PixelsPerUnit != 1 {
		t.Error("expected non-positive pixels per unit to fall back to 1")
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2, 3, 50)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(2, 3)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldYPointsUp(t *testing.T) {
	cam := New(1280, 720, 0, 0, 50)

	_, sy := cam.WorldToScreen(0, 1)
	if !near(sy, 310) {
		t.Errorf("expected one unit up to be 50px above center, got y=%f", sy)
	}
	sx, _ := cam.WorldToScreen(1, 0)
	if !near(sx, 690) {
		t.Errorf("expected one unit right to be 50px right of center, got x=%f", sx)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2, 3, 50)
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanFollowsScreenDelta(t *testing.T) {
	cam := New(1280, 720, 0, 0, 50)

	// Dragging 100px right and down moves the view 2 units right and down.
	cam.Pan(100, 100)
	if !near(cam.X, 2) || !near(cam.Y, -2) {
		t.Errorf("expected camera at (2, -2), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 0, 0, 50)

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10.0) // Above max
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}

	cam.SetZoom(1)
	cam.ZoomBy(2)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
	if cam.PixelScale(3) != 6 {
		t.Errorf("expected 3px point to cover 6px at zoom 2, got %f", cam.PixelScale(3))
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 0, 0, 50)

	// Visible world range: x in [-12.8, 12.8], y in [-7.2, 7.2]
	if !cam.IsVisible(0, 0, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(20, 10, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(13, 0, 20) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestVisibleWorldBounds(t *testing.T) {
	cam := New(1280, 720, 1, 1, 50)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(minX, -11.8) || !near(maxX, 13.8) || !near(minY, -6.2) || !near(maxY, 8.2) {
		t.Errorf("unexpected bounds (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2, 3, 50)
	cam.Pan(500, 500)
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 2 || cam.Y != 3 {
		t.Errorf("expected position (2, 3), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
