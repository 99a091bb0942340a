package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/boxlogic/stowplan/pkg/cache"
	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/packer"
)

func testOptions() Options {
	return Options{
		Container: geometry.ContainerSpec{Length: 2, Width: 2, Height: 2, Unit: "m"},
		Items: []geometry.ItemSpec{
			{Name: "crate", Length: 1, Width: 1, Height: 1, Quantity: 1, Unit: "m"},
		},
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Options)
		wantCode errors.Code
	}{
		{
			name:   "valid defaults",
			mutate: func(o *Options) {},
		},
		{
			name:     "negative container dimension",
			mutate:   func(o *Options) { o.Container.Length = -1 },
			wantCode: errors.ErrCodeInvalidContainer,
		},
		{
			name:     "negative container index",
			mutate:   func(o *Options) { o.ContainerIndex = -1 },
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "unknown format",
			mutate:   func(o *Options) { o.Formats = []string{"png"} },
			wantCode: errors.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			err := opts.ValidateAndSetDefaults()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
					t.Errorf("default formats = %v, want [json]", opts.Formats)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestExecuteShelfFallbackWithoutPacker(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Response != nil {
		t.Error("no packer configured, Response should be nil")
	}
	if result.Scene.Diagnostics.Interpretation != InterpretationShelf {
		t.Errorf("interpretation = %q, want shelf", result.Scene.Diagnostics.Interpretation)
	}
	if result.Stats.Solids != 1 {
		t.Errorf("solids = %d, want 1", result.Stats.Solids)
	}
	if _, ok := result.Artifacts[FormatJSON]; !ok {
		t.Error("json artifact missing")
	}
}

func TestExecuteShelfDropsOversizedItemSilently(t *testing.T) {
	opts := testOptions()
	opts.Items = append(opts.Items, geometry.ItemSpec{
		Name: "girder", Length: 9, Width: 1, Height: 1, Quantity: 1, Unit: "m",
	})

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("oversized item must not fail the shelf path: %v", err)
	}
	if result.Stats.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", result.Stats.Dropped)
	}
	if result.Stats.Solids != 1 {
		t.Errorf("solids = %d, want 1", result.Stats.Solids)
	}
}

func TestExecuteWithRemotePacker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(packer.PlanResponse{
			NumContainers: 1,
			Results: []packer.ContainerResult{{
				ContainerName: "container 1",
				Utilization:   "12.50",
				PackedItems: []geometry.PackedItem{{
					Name:       "crate",
					Position:   geometry.RawPosition{0, 0, 0},
					Dimensions: geometry.Dimensions{Length: 1, Width: 1, Height: 1},
				}},
			}},
		})
	}))
	defer srv.Close()

	r := NewRunner(nil, nil, nil)
	r.Packer = packer.New(srv.URL)

	result, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Response == nil || result.Response.NumContainers != 1 {
		t.Fatal("service response should be carried through")
	}
	if result.Scene.Diagnostics.Interpretation == InterpretationShelf {
		t.Error("remote result should go through the interpreter, not the shelf")
	}
	if result.Utilization != "12.50" {
		t.Errorf("utilization = %q, want service-reported 12.50", result.Utilization)
	}
}

func TestExecuteSuppliedPositionsSkipRemote(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	r := NewRunner(nil, nil, nil)
	r.Packer = packer.New(srv.URL)

	opts := testOptions()
	opts.Packed = []geometry.PackedItem{{
		Name:       "crate",
		Position:   geometry.RawPosition{0.5, 0.5, 0.5},
		Dimensions: geometry.Dimensions{Length: 1, Width: 1, Height: 1},
	}}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("remote service called %d times with supplied positions", n)
	}
	if result.Stats.Solids != 1 {
		t.Errorf("solids = %d, want 1", result.Stats.Solids)
	}
}

func TestExecuteContainerIndexOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(packer.PlanResponse{
			NumContainers: 1,
			Results:       []packer.ContainerResult{{ContainerName: "container 1"}},
		})
	}))
	defer srv.Close()

	r := NewRunner(nil, nil, nil)
	r.Packer = packer.New(srv.URL)

	opts := testOptions()
	opts.ContainerIndex = 3
	_, err := r.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestExecuteRendersRequestedFormats(t *testing.T) {
	opts := testOptions()
	opts.Formats = []string{FormatJSON, FormatSVG}
	opts.Labels = true

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if !bytes.HasPrefix(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact should start with <svg")
	}
	var payload map[string]any
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &payload); err != nil {
		t.Errorf("json artifact should be valid JSON: %v", err)
	}
}

func TestExecuteRenderCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	first, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the render cache")
	}

	second, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second identical run should hit the render cache")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached artifact differs from rendered one")
	}
}

func TestUtilizationComputedWhenServiceSilent(t *testing.T) {
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	// One 1 m³ crate in an 8 m³ container.
	if result.Utilization != "12.50" {
		t.Errorf("utilization = %q, want 12.50", result.Utilization)
	}
}
