package live

import (
	"encoding/json"
	"log/slog"

	"github.com/easelhq/easel/internal/canvas"
	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
)

func (r *Room) handleCommand(sender *Client, msg *Message) {
	var cmd CommandPayload
	if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
		slog.Warn("invalid command payload", "error", err)
		return
	}

	switch cmd.Name {
	case "setTool":
		r.eng.SetTool(canvas.Tool(cmd.Tool))
	case "setPenStyle":
		r.eng.SetPenStyle(cmd.Color, cmd.Width)
	case "setHandleSize":
		r.eng.SetHandleSize(cmd.Size)
	case "setCameraActive":
		r.eng.SetCameraActive(cmd.Active)
	case "undo":
		r.eng.Undo()
	case "redo":
		r.eng.Redo()
	case "deleteSelected":
		r.eng.DeleteSelected()
	case "bringForward":
		r.eng.BringForward()
	case "sendBackward":
		r.eng.SendBackward()
	case "select":
		r.eng.Select(cmd.ID)
	case "clearSelection":
		r.eng.ClearSelection()
	case "addText":
		if _, err := r.eng.AddText(cmd.Text, pt(cmd.X, cmd.Y)); err != nil {
			sender.Send(mustMessage(TypeError, ErrorPayload{Error: err.Error()}))
		}
	case "addMedia":
		if _, err := r.eng.AddMedia(element.Kind(cmd.Kind), pt(cmd.X, cmd.Y), cmd.Ref); err != nil {
			sender.Send(mustMessage(TypeError, ErrorPayload{Error: err.Error()}))
		}
	case "addNote":
		r.eng.AddNote(pt(cmd.X, cmd.Y))
	case "updateNoteContent":
		r.eng.UpdateNoteContent(cmd.ID, cmd.Title, cmd.Content)
	case "setNoteColor":
		r.eng.SetNoteColor(cmd.ID, cmd.Color)
	case "togglePin":
		r.eng.TogglePin(cmd.ID)
	default:
		slog.Warn("unknown command", "name", cmd.Name, "user", sender.UserID)
	}
}

func pt(x, y float64) geom.Point {
	return geom.Pt(x, y)
}
