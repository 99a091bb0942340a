package errors

import (
	"math"

	"github.com/boxlogic/stowplan/pkg/geometry"
)

// ValidateContainer checks a container spec at the input boundary.
// Dimensions must be finite and non-negative; zero dimensions are legal
// because normalization replaces them with defaults.
func ValidateContainer(c geometry.ContainerSpec) error {
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"length", c.Length},
		{"width", c.Width},
		{"height", c.Height},
	} {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return New(ErrCodeInvalidContainer, "container %s is not a finite number", d.name)
		}
		if d.value < 0 {
			return New(ErrCodeInvalidContainer, "container %s cannot be negative: %v", d.name, d.value)
		}
	}
	return nil
}

// ValidateItems checks the item list the way the packing service does
// before accepting a plan request: at least one item, finite positive
// dimensions, and no single unit larger than the normalized container
// on any axis.
func ValidateItems(container geometry.ContainerSpec, items []geometry.ItemSpec) error {
	if len(items) == 0 {
		return New(ErrCodeNoItems, "no items provided")
	}

	c := container.Normalized()
	for i, raw := range items {
		it := raw.Normalized()
		if it.Name == "" {
			return New(ErrCodeInvalidItem, "item %d has no name", i)
		}
		if badDim(it.Length) || badDim(it.Width) || badDim(it.Height) {
			return New(ErrCodeInvalidItem, "item %q has non-positive dimensions", it.Name)
		}
		if it.Length > c.Length || it.Width > c.Width || it.Height > c.Height {
			return New(ErrCodeItemTooLarge, "item %q is larger than the container", it.Name)
		}
	}
	return nil
}

func badDim(v float64) bool {
	return v <= 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	"json": true,
	"svg":  true,
}

// ValidateFormat checks an export format name.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q (valid: json, svg)", format)
	}
	return nil
}
