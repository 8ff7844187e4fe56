//go:build !procnode_nospawn

package supervisor

// New returns the platform's process service. Default builds get the
// full supervisor; builds tagged procnode_nospawn get a stub that
// rejects every operation.
func New(opts *Options) Service {
	return NewSupervisor(opts)
}
