package live

// presenceTable tracks cursors and names per user. It is owned by the
// room goroutine and needs no locking.
type presenceTable struct {
	presences map[string]*PresencePayload
}

func newPresenceTable() *presenceTable {
	return &presenceTable{presences: make(map[string]*PresencePayload)}
}

func (pt *presenceTable) update(userID string, p *PresencePayload) {
	pt.presences[userID] = p
}

func (pt *presenceTable) remove(userID string) {
	delete(pt.presences, userID)
}

func (pt *presenceTable) stateMessage() *Message {
	if len(pt.presences) == 0 {
		return nil
	}
	snapshot := make(map[string]*PresencePayload, len(pt.presences))
	for k, v := range pt.presences {
		snapshot[k] = v
	}
	return mustMessage(TypePresenceState, PresenceStatePayload{Presences: snapshot})
}
