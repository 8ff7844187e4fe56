//go:build procnode_nospawn

package supervisor

// New returns the stub service on platforms where spawning child
// processes is unavailable.
func New(_ *Options) Service {
	return NewUnsupported()
}
