package live

import (
	"encoding/json"

	"github.com/easelhq/easel/internal/element"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeRole    = "role"
	TypeError   = "error"

	// Client → room (editor only)
	TypePointer = "pointer"
	TypeCommand = "command"

	// Room → clients
	TypeScene    = "scene"
	TypeNoteEdit = "note.edit"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

// Client roles. The first authenticated client in a room drives the
// engine; everyone else watches.
const (
	RoleEditor    = "editor"
	RoleSpectator = "spectator"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	Role     string `json:"role"`
}

type RolePayload struct {
	Role string `json:"role"`
}

// PointerPayload carries one pointer event in canvas coordinates.
type PointerPayload struct {
	Event string  `json:"event"` // down | move | up | cancel
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// CommandPayload is the union of all editor commands; Name selects which
// fields are meaningful.
type CommandPayload struct {
	Name string `json:"name"`

	Tool   string  `json:"tool,omitempty"`
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Active bool    `json:"active,omitempty"`

	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Text string  `json:"text,omitempty"`
	Kind string  `json:"kind,omitempty"`
	Ref  string  `json:"ref,omitempty"`

	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ScenePayload is the full observable engine state, broadcast after every
// change notification.
type ScenePayload struct {
	Elements    []*element.Element `json:"elements"`
	Stroke      *element.Element   `json:"stroke,omitempty"`
	SelectedIDs []string           `json:"selectedIds"`
	ShowTools   bool               `json:"showTools"`
	CanUndo     bool               `json:"canUndo"`
	CanRedo     bool               `json:"canRedo"`
	Tool        string             `json:"tool"`
}

type NoteEditPayload struct {
	ElementID string `json:"elementId"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}
