package capture

// Tap is a detachable interception hook that feeds observed network responses to a session.
type Tap interface {
	// Attach starts delivering matching response bodies to observe.
	Attach(observe ObserveFunc) error

	// Detach stops delivery and restores the host's original network behavior.
	Detach() error
}
