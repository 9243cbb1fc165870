package live

import (
	"sync"

	"github.com/easelhq/easel/internal/canvas"
	"github.com/easelhq/easel/internal/element"
)

// LoadFunc fetches the last committed element list for a board.
type LoadFunc func(boardID string) ([]*element.Element, error)

// SaveFunc persists a board's element list as a new snapshot version.
type SaveFunc func(boardID string, elements []*element.Element) error

// Hub owns one room per open board and the shared media resolver.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*Room

	load  LoadFunc
	save  SaveFunc
	media canvas.MediaResolver
}

func NewHub(load LoadFunc, save SaveFunc, media canvas.MediaResolver) *Hub {
	return &Hub{
		rooms: make(map[string]*Room),
		load:  load,
		save:  save,
		media: media,
	}
}

// Join attaches the client to its board's room, starting the room if the
// board has no one on it yet.
func (h *Hub) Join(c *Client) {
	for {
		h.mu.Lock()
		room, ok := h.rooms[c.BoardID]
		if !ok {
			room = newRoom(h, c.BoardID)
			h.rooms[c.BoardID] = room
			go room.run()
		}
		h.mu.Unlock()

		// The room may be mid-shutdown after its last client left; retry
		// against a fresh one.
		select {
		case <-room.done:
			continue
		default:
		}

		c.room = room
		room.post(func() { room.join(c) })
		return
	}
}

func (h *Hub) Leave(c *Client) {
	room := c.room
	if room == nil {
		return
	}
	room.post(func() { room.leave(c) })
}

// closeRoom is called from a room goroutine when its last client leaves.
func (h *Hub) closeRoom(boardID string) {
	h.mu.Lock()
	room, ok := h.rooms[boardID]
	if ok {
		delete(h.rooms, boardID)
	}
	h.mu.Unlock()

	if ok {
		close(room.done)
	}
}

// Stop shuts down every room and waits for their snapshots to be saved.
func (h *Hub) Stop() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for id, room := range h.rooms {
		rooms = append(rooms, room)
		delete(h.rooms, id)
	}
	h.mu.Unlock()

	for _, room := range rooms {
		close(room.done)
	}
	for _, room := range rooms {
		<-room.stopped
	}
}
