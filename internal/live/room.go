package live

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/easelhq/easel/internal/canvas"
)

// Room hosts one board: a single canvas engine driven by the editor
// client's events. All engine access happens on the room goroutine, which
// is the event loop the engine's concurrency contract requires; clients
// and timers post closures into it.
type Room struct {
	boardID string
	hub     *Hub

	eng     *canvas.Engine
	events  chan func()
	done    chan struct{}
	stopped chan struct{}

	// Owned by the room goroutine.
	clients  map[string]*Client
	editorID string
	presence *presenceTable
	dirty    bool
}

func newRoom(hub *Hub, boardID string) *Room {
	r := &Room{
		boardID:  boardID,
		hub:      hub,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		clients:  make(map[string]*Client),
		presence: newPresenceTable(),
	}
	r.eng = canvas.NewEngine(canvas.Config{
		Media:      hub.media,
		NoteEditor: roomEditor{room: r},
		Scheduler:  roomScheduler{room: r},
	})
	return r
}

func (r *Room) run() {
	defer close(r.stopped)

	if els, err := r.hub.load(r.boardID); err != nil {
		slog.Warn("load board snapshot", "error", err, "board", r.boardID)
	} else {
		r.eng.LoadElements(els)
	}
	r.eng.Subscribe(func() {
		r.dirty = true
		r.broadcastScene()
	})
	r.dirty = false

	for {
		select {
		case fn := <-r.events:
			fn()
		case <-r.done:
			r.persist()
			return
		}
	}
}

// post hands fn to the room goroutine. Events arriving after the room has
// shut down are dropped.
func (r *Room) post(fn func()) {
	select {
	case r.events <- fn:
	case <-r.done:
	}
}

func (r *Room) persist() {
	if !r.dirty {
		return
	}
	if err := r.hub.save(r.boardID, r.eng.Snapshot()); err != nil {
		slog.Error("save board snapshot", "error", err, "board", r.boardID)
		return
	}
	r.dirty = false
	slog.Info("board saved", "board", r.boardID)
}

func (r *Room) join(c *Client) {
	r.clients[c.ClientID] = c

	role := RoleSpectator
	if r.editorID == "" && !c.Anonymous {
		r.editorID = c.ClientID
		role = RoleEditor
	}
	c.Role = role

	c.Send(mustMessage(TypeWelcome, WelcomePayload{ClientID: c.ClientID, Role: role}))
	c.Send(r.sceneMessage())
	if state := r.presence.stateMessage(); state != nil {
		c.Send(state)
	}

	r.broadcastExcept(c.ClientID, &Message{
		Type:    TypePresenceJoin,
		UserID:  c.UserID,
		Payload: mustJSON(PresenceJoinPayload{UserID: c.UserID, DisplayName: c.DisplayName}),
	})

	slog.Info("client joined", "user", c.UserID, "board", r.boardID, "role", role)
}

func (r *Room) leave(c *Client) {
	if _, ok := r.clients[c.ClientID]; !ok {
		return
	}
	delete(r.clients, c.ClientID)
	close(c.send)
	r.presence.remove(c.UserID)

	if c.ClientID == r.editorID {
		r.editorID = ""
		r.promoteEditor()
	}

	r.broadcastExcept("", &Message{
		Type:    TypePresenceLeave,
		UserID:  c.UserID,
		Payload: mustJSON(PresenceLeavePayload{UserID: c.UserID}),
	})

	slog.Info("client left", "user", c.UserID, "board", r.boardID)

	if len(r.clients) == 0 {
		r.hub.closeRoom(r.boardID)
	}
}

// promoteEditor hands the editing role to a remaining authenticated
// client, if any.
func (r *Room) promoteEditor() {
	for _, c := range r.clients {
		if c.Anonymous {
			continue
		}
		r.editorID = c.ClientID
		c.Role = RoleEditor
		c.Send(mustMessage(TypeRole, RolePayload{Role: RoleEditor}))
		return
	}
}

func (r *Room) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePointer:
		if sender.ClientID != r.editorID {
			return
		}
		r.handlePointer(sender, msg)
	case TypeCommand:
		if sender.ClientID != r.editorID {
			return
		}
		r.handleCommand(sender, msg)
	case TypePresenceUpdate:
		r.handlePresenceUpdate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (r *Room) handlePointer(sender *Client, msg *Message) {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		slog.Warn("invalid pointer payload", "error", err)
		return
	}

	switch p.Event {
	case "down":
		r.eng.PointerDown(pt(p.X, p.Y))
	case "move":
		r.eng.PointerMove(pt(p.X, p.Y))
	case "up":
		r.eng.PointerUp(pt(p.X, p.Y))
	case "cancel":
		r.eng.PointerCancel()
	default:
		slog.Warn("unknown pointer event", "event", p.Event)
	}
}

func (r *Room) handlePresenceUpdate(sender *Client, msg *Message) {
	var p PresencePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}
	p.DisplayName = sender.DisplayName

	r.presence.update(sender.UserID, &p)

	r.broadcastExcept(sender.ClientID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: mustJSON(p),
	})
}

func (r *Room) sceneMessage() *Message {
	return mustMessage(TypeScene, ScenePayload{
		Elements:    r.eng.Elements(),
		Stroke:      r.eng.InProgressStroke(),
		SelectedIDs: r.eng.SelectedIDs(),
		ShowTools:   r.eng.ShowTools(),
		CanUndo:     r.eng.CanUndo(),
		CanRedo:     r.eng.CanRedo(),
		Tool:        string(r.eng.Tool()),
	})
}

func (r *Room) broadcastScene() {
	r.broadcastExcept("", r.sceneMessage())
}

func (r *Room) broadcastExcept(excludeClientID string, msg *Message) {
	for _, c := range r.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

// roomScheduler delivers engine timer callbacks back onto the room
// goroutine, so a long-press firing never races a pointer event.
type roomScheduler struct {
	room *Room
}

func (s roomScheduler) Now() time.Time { return time.Now() }

func (s roomScheduler) Schedule(d time.Duration, fn func()) canvas.CancelFunc {
	t := time.AfterFunc(d, func() { s.room.post(fn) })
	return func() { t.Stop() }
}

// roomEditor forwards note edit requests to the editing client, whose UI
// owns the text input surface.
type roomEditor struct {
	room *Room
}

func (e roomEditor) EditNote(id string) {
	r := e.room
	if c, ok := r.clients[r.editorID]; ok {
		c.Send(mustMessage(TypeNoteEdit, NoteEditPayload{ElementID: id}))
	}
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal payload", "error", err)
		return json.RawMessage("{}")
	}
	return data
}

func mustMessage(msgType string, payload any) *Message {
	return &Message{Type: msgType, Payload: mustJSON(payload)}
}
