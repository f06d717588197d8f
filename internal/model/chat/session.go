package chat

// Status enumerates the lifecycle of a conversation session.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusInitializing  Status = "initializing"
	StatusReady         Status = "ready"
	StatusSending       Status = "sending"
	StatusInitError     Status = "init_error"
)
