package render

import (
	"testing"
)

func TestNewDepthBufferIsCleared(t *testing.T) {
	db := NewDepthBuffer(3, 2)
	if len(db.Data) != 6 {
		t.Fatalf("len(Data) = %d, want 6", len(db.Data))
	}
	for i, z := range db.Data {
		if z != DepthFar {
			t.Errorf("Data[%d] = %v, want %v", i, z, DepthFar)
		}
	}
	if _, _, ok := db.Range(); ok {
		t.Error("Range reported written pixels on a cleared buffer")
	}
}

func TestDepthTest(t *testing.T) {
	db := NewDepthBuffer(2, 2)

	if !db.Test(1, 1, 0.5) {
		t.Error("0.5 should pass against the cleared depth")
	}
	if db.Test(1, 1, 0.5) {
		t.Error("equal depth should fail: the test is strictly less than")
	}
	if db.Test(1, 1, 0.7) {
		t.Error("farther depth should fail")
	}
	if !db.Test(1, 1, -1) {
		t.Error("near plane depth should pass")
	}
	if db.At(1, 1) != -1 {
		t.Errorf("stored depth = %v, want -1", db.At(1, 1))
	}
	if db.Test(0, 0, DepthFar) {
		t.Error("DepthFar should never pass against a cleared pixel")
	}
}

func TestDepthBounds(t *testing.T) {
	db := NewDepthBuffer(2, 2)
	db.Set(5, 5, 0)
	if db.At(5, 5) != DepthFar {
		t.Error("out of bounds At should report DepthFar")
	}
	if db.InBounds(2, 0) || db.InBounds(-1, 0) || !db.InBounds(1, 1) {
		t.Error("InBounds wrong")
	}
}

func TestDepthFillAndResize(t *testing.T) {
	db := NewDepthBuffer(5, 3)
	db.Fill(0.25)
	for i, z := range db.Data {
		if z != 0.25 {
			t.Fatalf("Data[%d] = %v after Fill", i, z)
		}
	}

	db.Resize(4, 4)
	if db.Width != 4 || db.Height != 4 || len(db.Data) != 16 {
		t.Fatalf("Resize gave %dx%d with %d values", db.Width, db.Height, len(db.Data))
	}
	if db.At(3, 3) != DepthFar {
		t.Error("Resize did not clear")
	}
}

func TestDepthRangeAndImage(t *testing.T) {
	db := NewDepthBuffer(2, 2)
	db.Set(0, 0, -0.5) // near, bottom left
	db.Set(1, 0, 0.5)  // far, bottom right

	lo, hi, ok := db.Range()
	if !ok || lo != -0.5 || hi != 0.5 {
		t.Fatalf("Range = %v, %v, %v", lo, hi, ok)
	}

	img := db.ToImage()
	// Row 0 of the buffer is the bottom row of the image
	near := img.GrayAt(0, 1).Y
	far := img.GrayAt(1, 1).Y
	empty := img.GrayAt(0, 0).Y
	if near <= far {
		t.Errorf("near %d should be brighter than far %d", near, far)
	}
	if empty != 0 || far == 0 {
		t.Errorf("empty = %d, far = %d; only untouched pixels are black", empty, far)
	}

	fb := NewFramebuffer(2, 2)
	db.CopyTo(fb)
	if fb.GetPixel(0, 0).R != near || fb.GetPixel(0, 1).R != 0 {
		t.Errorf("CopyTo = %v, %v", fb.GetPixel(0, 0), fb.GetPixel(0, 1))
	}
}

func BenchmarkDepthClear(b *testing.B) {
	db := NewDepthBuffer(320, 240)
	for b.Loop() {
		db.Clear()
	}
}
