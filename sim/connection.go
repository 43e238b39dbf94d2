package sim

// SendError marks a failure of sending a message over a port or a connection.
type SendError struct {
}

// NewSendError creates a SendError
func NewSendError() *SendError {
	e := new(SendError)
	return e
}

// A Connection is responsible for delivering messages to their destination.
type Connection interface {
	Named
	Hookable

	// PlugIn connects a port to the connection.
	PlugIn(port Port)

	// Unplug removes a port from the connection.
	Unplug(port Port)

	// NotifyAvailable is called by a port to notify the connection that the
	// port can receive messages again.
	NotifyAvailable(port Port)

	// NotifySend is called by a port to notify the connection that the port
	// has buffered messages to deliver.
	NotifySend()
}
