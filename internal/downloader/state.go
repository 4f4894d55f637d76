package downloader

// State is a step of a download run
type State int

const (
	StateConfiguring State = iota
	StateIterating
	StateFetching
	StateLedgerUpdate
	StateSummarizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateIterating:
		return "iterating"
	case StateFetching:
		return "fetching"
	case StateLedgerUpdate:
		return "ledger_update"
	case StateSummarizing:
		return "summarizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Observer is told about every state change
type Observer func(from, to State)
