package shelf

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/boxlogic/stowplan/pkg/geometry"
)

func spec(name string, l, w, h float64, qty int) geometry.ItemSpec {
	return geometry.ItemSpec{Name: name, Length: l, Width: w, Height: h, Quantity: qty, Unit: "m"}
}

func TestPackRowWrap(t *testing.T) {
	// Five unit cubes in a 3x2x2 container: three fit in the first row
	// at x = 0, 1.01, 2.02, then the cursor wraps and the remaining two
	// land in a second row at z just past the first row's width.
	c := geometry.ContainerSpec{Length: 3, Width: 2, Height: 2, Unit: "m"}
	res := Pack(c, []geometry.ItemSpec{spec("cube", 1, 1, 1, 5)})

	if res.Dropped != 0 {
		t.Fatalf("Dropped = %d, want 0", res.Dropped)
	}
	if len(res.Placements) != 5 {
		t.Fatalf("placed %d, want 5", len(res.Placements))
	}

	wantX := []float64{0, 1.01, 2.02, 0, 1.01}
	wantZ := []float64{0, 0, 0, 1.01, 1.01}
	for i, p := range res.Placements {
		if !approx(p.MinCorner.X, wantX[i]) || !approx(p.MinCorner.Z, wantZ[i]) {
			t.Errorf("placement %d at (%v, %v), want (%v, %v)",
				i, p.MinCorner.X, p.MinCorner.Z, wantX[i], wantZ[i])
		}
		if p.MinCorner.Y != 0 {
			t.Errorf("placement %d floats at y=%v; all fallback items sit on the floor", i, p.MinCorner.Y)
		}
	}
}

func TestPackOversizedItemDropped(t *testing.T) {
	// An item longer than the container can never be placed; the packer
	// must produce zero placements and count the drop, not panic.
	c := geometry.ContainerSpec{Length: 1, Width: 1, Height: 1, Unit: "m"}
	res := Pack(c, []geometry.ItemSpec{spec("sofa", 2, 1, 1, 1)})

	if len(res.Placements) != 0 {
		t.Fatalf("placed %d, want 0", len(res.Placements))
	}
	if res.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", res.Dropped)
	}
}

func TestPackStopsWhenWidthExhausted(t *testing.T) {
	// 2x1x1 container, unit cubes: one per row, and only one row fits.
	c := geometry.ContainerSpec{Length: 1, Width: 1, Height: 1, Unit: "m"}
	res := Pack(c, []geometry.ItemSpec{spec("cube", 1, 1, 1, 4)})

	if len(res.Placements) != 1 {
		t.Fatalf("placed %d, want 1", len(res.Placements))
	}
	if res.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3", res.Dropped)
	}
}

func TestPackPreservesInputOrder(t *testing.T) {
	c := geometry.ContainerSpec{Length: 10, Width: 10, Height: 10, Unit: "m"}
	items := []geometry.ItemSpec{
		spec("big", 3, 1, 1, 1),
		spec("small", 0.5, 0.5, 0.5, 2),
		spec("medium", 1, 1, 1, 1),
	}

	res := Pack(c, items)
	wantNames := []string{"big", "small", "small", "medium"}
	if len(res.Placements) != len(wantNames) {
		t.Fatalf("placed %d, want %d", len(res.Placements), len(wantNames))
	}
	for i, p := range res.Placements {
		if p.Name != wantNames[i] {
			t.Errorf("placement %d = %q, want %q", i, p.Name, wantNames[i])
		}
	}
}

func TestPackLayerWidthGovernsRowAdvance(t *testing.T) {
	// A wide item in the first row pushes the second row past its own
	// width, not just past the width of the last item placed.
	c := geometry.ContainerSpec{Length: 2, Width: 10, Height: 1, Unit: "m"}
	items := []geometry.ItemSpec{
		spec("wide", 1, 2, 1, 1),
		spec("narrow", 1, 0.5, 1, 1),
		spec("next-row", 2, 1, 1, 1),
	}

	res := Pack(c, items)
	if len(res.Placements) != 3 {
		t.Fatalf("placed %d, want 3", len(res.Placements))
	}
	if got := res.Placements[2].MinCorner.Z; !approx(got, 2.01) {
		t.Errorf("second row z = %v, want 2.01", got)
	}
}

func TestPackQuantityFloorDefaultsToOne(t *testing.T) {
	c := geometry.ContainerSpec{Length: 5, Width: 5, Height: 5, Unit: "m"}
	res := Pack(c, []geometry.ItemSpec{spec("cube", 1, 1, 1, 0)})
	if len(res.Placements) != 1 {
		t.Errorf("placed %d, want 1 (quantity floors at 1)", len(res.Placements))
	}
}

func TestPackEmptyInput(t *testing.T) {
	res := Pack(geometry.ContainerSpec{Length: 2, Width: 2, Height: 2, Unit: "m"}, nil)
	if len(res.Placements) != 0 || res.Dropped != 0 {
		t.Errorf("empty input: got %d placements, %d dropped", len(res.Placements), res.Dropped)
	}
}

func TestPackIdempotence(t *testing.T) {
	c := geometry.ContainerSpec{Length: 3, Width: 2, Height: 2, Unit: "m"}
	items := []geometry.ItemSpec{
		spec("cube", 1, 1, 1, 5),
		spec("slab", 1.5, 0.5, 0.2, 2),
	}

	first, err := json.Marshal(Pack(c, items))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := json.Marshal(Pack(c, items))
		if err != nil {
			t.Fatal(err)
		}
		if string(first) != string(again) {
			t.Fatalf("run %d produced different bytes", i)
		}
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
