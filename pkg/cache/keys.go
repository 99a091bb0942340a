package cache

// Keyer derives deterministic cache keys for the pipeline's cacheable
// stages. Keys incorporate every input that affects the stage's output,
// so two requests share a key exactly when their results are
// interchangeable.
type Keyer interface {
	// PlanKey keys a remote packing response by the canonical request hash.
	PlanKey(requestHash string) string

	// SceneKey keys a mapped scene by the hash of the placements it was
	// derived from plus the options that shape the mapping.
	SceneKey(inputHash string, opts SceneKeyOpts) string
}

// SceneKeyOpts are the options that change a mapped scene's content.
type SceneKeyOpts struct {
	Format string
	Labels bool
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// PlanKey implements Keyer.
func (k *DefaultKeyer) PlanKey(requestHash string) string {
	return hashKey("plan", requestHash)
}

// SceneKey implements Keyer.
func (k *DefaultKeyer) SceneKey(inputHash string, opts SceneKeyOpts) string {
	return hashKey("scene", inputHash, opts.Format, opts.Labels)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces
// when several deployments share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlanKey implements Keyer.
func (k *ScopedKeyer) PlanKey(requestHash string) string {
	return k.prefix + k.inner.PlanKey(requestHash)
}

// SceneKey implements Keyer.
func (k *ScopedKeyer) SceneKey(inputHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(inputHash, opts)
}
