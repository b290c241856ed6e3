package list

// ItemStatus is the bind lifecycle of one item
type ItemStatus int

const (
	StatusNeverBind ItemStatus = iota
	StatusInBinding
	StatusFinishedBinding
	StatusRecycled
	StatusUpdated
	StatusRemoved
)

func (s ItemStatus) String() string {
	switch s {
	case StatusNeverBind:
		return "neverBind"
	case StatusInBinding:
		return "inBinding"
	case StatusFinishedBinding:
		return "finishedBinding"
	case StatusRecycled:
		return "recycled"
	case StatusUpdated:
		return "updated"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// IsDirty reports whether the item needs a (re)bind before it is trustworthy
func (s ItemStatus) IsDirty() bool {
	return s == StatusNeverBind || s == StatusUpdated
}

// canBind reports whether Bind is a legal transition from s
func (s ItemStatus) canBind() bool {
	return s.IsDirty() || s == StatusRecycled
}

// recycled returns the status after Recycle
func (s ItemStatus) recycled() ItemStatus {
	switch s {
	case StatusFinishedBinding, StatusInBinding:
		return StatusRecycled
	default:
		return s
	}
}

// updated returns the status after an UpdateTo diff mark
func (s ItemStatus) updated() ItemStatus {
	switch s {
	case StatusNeverBind, StatusRemoved:
		return s
	default:
		return StatusUpdated
	}
}

func (s ItemStatus) IsBinding() bool { return s == StatusInBinding }
func (s ItemStatus) IsFinishedBinding() bool { return s == StatusFinishedBinding }
func (s ItemStatus) IsRecycled() bool { return s == StatusRecycled }
func (s ItemStatus) IsRemoved() bool { return s == StatusRemoved }
func (s ItemStatus) IsUpdated() bool { return s == StatusUpdated }
