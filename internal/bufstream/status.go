package bufstream

// Status is a subsystem status code. Every call into the buffer-stream
// layer reports one; anything other than OK is a local failure.
type Status int32

const (
	OK Status = iota
	Unknown
	NoMemory
	InvalidOperation
	BadValue
	NameNotFound
	PermissionDenied
	NoInit
	AlreadyExists
	DeadObject
	WouldBlock
	TimedOut
)

// Name maps a status code to a human-readable name for logging.
func (s Status) Name() string {
	switch s {
	case OK:
		return "NO_ERROR"
	case Unknown:
		return "UNKNOWN_ERROR"
	case NoMemory:
		return "NO_MEMORY"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case BadValue:
		return "BAD_VALUE"
	case NameNotFound:
		return "NAME_NOT_FOUND"
	case PermissionDenied:
		return "PERMISSION_DENIED"
	case NoInit:
		return "NO_INIT"
	case AlreadyExists:
		return "ALREADY_EXISTS"
	case DeadObject:
		return "DEAD_OBJECT"
	case WouldBlock:
		return "WOULD_BLOCK"
	case TimedOut:
		return "TIMED_OUT"
	default:
		return "UNMAPPED_STATUS"
	}
}

func (s Status) Error() string {
	return s.Name()
}

// Err returns nil for OK and the status itself otherwise.
func (s Status) Err() error {
	if s == OK {
		return nil
	}
	return s
}
