// ABOUTME: Change notifications emitted by the feed engine components.
// ABOUTME: The UI layer subscribes with an Observer to re-render on change.
package feed

// EventKind identifies what changed.
type EventKind int

const (
	EventStoreChanged EventKind = iota
	EventDuplicatesSkipped
	EventEvicted
	EventFetchStarted
	EventFetchCompleted
	EventFetchFailed
	EventFetchStale
	EventLikeToggled
	EventGateChanged
)

var eventKindNames = map[EventKind]string{
	EventStoreChanged:      "store_changed",
	EventDuplicatesSkipped: "duplicates_skipped",
	EventEvicted:           "evicted",
	EventFetchStarted:      "fetch_started",
	EventFetchCompleted:    "fetch_completed",
	EventFetchFailed:       "fetch_failed",
	EventFetchStale:        "fetch_stale",
	EventLikeToggled:       "like_toggled",
	EventGateChanged:       "gate_changed",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event describes a single state change. Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	PostID string   // EventLikeToggled
	IDs    []string // EventDuplicatesSkipped, EventEvicted
	Count  int      // inserted count for EventStoreChanged / EventFetchCompleted
	Liked  bool     // EventLikeToggled
	Gate   GateState
	Cursor Cursor
	Err    error // EventFetchFailed
}

// Observer receives change notifications. It is called synchronously, after the
// component has released its lock, so it may read component state.
type Observer func(Event)

func (o Observer) emit(e Event) {
	if o != nil {
		o(e)
	}
}
