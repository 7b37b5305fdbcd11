package inventory

// EventKind classifies a raw filesystem change before reconciliation.
type EventKind int

const (
	EventCreated EventKind = iota
	EventDeleted
	EventModified
	EventMoved
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventDeleted:
		return "deleted"
	case EventModified:
		return "modified"
	case EventMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Event is one decoded filesystem change. Moved events carry the source in
// OldPath and the destination in Path.
type Event struct {
	Kind    EventKind
	Path    string
	OldPath string
	IsDir   bool
}

// NotificationType names the inventory mutation reported to subscribers.
type NotificationType int

const (
	NotifyCreated NotificationType = iota
	NotifyModified
	NotifyDeleted
	NotifyDirCreated
	NotifyDirDeleted
	NotifyMoved
	NotifyDirMoved
)

func (t NotificationType) String() string {
	switch t {
	case NotifyCreated:
		return "created"
	case NotifyModified:
		return "modified"
	case NotifyDeleted:
		return "deleted"
	case NotifyDirCreated:
		return "directory_created"
	case NotifyDirDeleted:
		return "directory_deleted"
	case NotifyMoved:
		return "moved"
	case NotifyDirMoved:
		return "directory_moved"
	default:
		return "unknown"
	}
}

// Notification describes one applied inventory mutation. Dest is set only
// for moved and directory_moved notifications.
type Notification struct {
	Type NotificationType
	Path string
	Dest string
}
