//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/easelhq/easel/internal/canvas"
	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
)

// The wasm build hosts the engine directly in the browser: the frontend
// delivers pointer events and commands on the JS thread, which is the one
// event loop the engine requires.

var (
	eng *canvas.Engine

	onChange        js.Value
	onEditNote      js.Value
	onMediaPlayback js.Value
)

// jsMedia resolves media handles registered by the frontend after upload
// or drag-in; the engine never sees pixels.
type jsMedia struct {
	sizes map[string][2]float64
}

func (m *jsMedia) NaturalSize(ref string) (float64, float64, error) {
	s, ok := m.sizes[ref]
	if !ok {
		return 0, 0, fmt.Errorf("unregistered media %q", ref)
	}
	return s[0], s[1], nil
}

func (m *jsMedia) SetPlaying(handle string, playing bool) {
	if onMediaPlayback.Type() == js.TypeFunction {
		onMediaPlayback.Invoke(handle, playing)
	}
}

type jsNoteEditor struct{}

func (jsNoteEditor) EditNote(id string) {
	if onEditNote.Type() == js.TypeFunction {
		onEditNote.Invoke(id)
	}
}

var media = &jsMedia{sizes: make(map[string][2]float64)}

func main() {
	onChange = js.Undefined()
	onEditNote = js.Undefined()
	onMediaPlayback = js.Undefined()

	eng = canvas.NewEngine(canvas.Config{
		Media:      media,
		NoteEditor: jsNoteEditor{},
	})
	eng.Subscribe(func() {
		if onChange.Type() == js.TypeFunction {
			onChange.Invoke()
		}
	})

	api := js.Global().Get("Object").New()

	// --- Pointer events ---
	api.Set("pointerDown", pointFn(eng.PointerDown))
	api.Set("pointerMove", pointFn(eng.PointerMove))
	api.Set("pointerUp", pointFn(eng.PointerUp))
	api.Set("pointerCancel", js.FuncOf(func(js.Value, []js.Value) any {
		eng.PointerCancel()
		return nil
	}))

	// --- Commands ---
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setPenStyle", js.FuncOf(setPenStyle))
	api.Set("setHandleSize", js.FuncOf(setHandleSize))
	api.Set("setCameraActive", js.FuncOf(setCameraActive))
	api.Set("undo", voidFn(eng.Undo))
	api.Set("redo", voidFn(eng.Redo))
	api.Set("deleteSelected", voidFn(eng.DeleteSelected))
	api.Set("bringForward", voidFn(eng.BringForward))
	api.Set("sendBackward", voidFn(eng.SendBackward))
	api.Set("select", js.FuncOf(selectElement))
	api.Set("clearSelection", voidFn(eng.ClearSelection))
	api.Set("addText", js.FuncOf(addText))
	api.Set("addMedia", js.FuncOf(addMedia))
	api.Set("addNote", js.FuncOf(addNote))
	api.Set("updateNoteContent", js.FuncOf(updateNoteContent))
	api.Set("setNoteColor", js.FuncOf(setNoteColor))
	api.Set("togglePin", js.FuncOf(togglePin))
	api.Set("loadElements", js.FuncOf(loadElements))
	api.Set("registerMedia", js.FuncOf(registerMedia))

	// --- Queries ---
	api.Set("getScene", js.FuncOf(getScene))
	api.Set("getHandles", js.FuncOf(getHandles))

	// --- Callbacks ---
	api.Set("onChange", callbackSetter(&onChange))
	api.Set("onEditNote", callbackSetter(&onEditNote))
	api.Set("onMediaPlayback", callbackSetter(&onMediaPlayback))

	js.Global().Set("easelEngine", api)
	js.Global().Set("easelWasmReady", js.ValueOf(true))

	// Keep the Go runtime alive.
	select {}
}

func pointFn(fn func(geom.Point)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		fn(geom.Pt(args[0].Float(), args[1].Float()))
		return nil
	})
}

func voidFn(fn func()) js.Func {
	return js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
}

func callbackSetter(slot *js.Value) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			*slot = js.Undefined()
			return nil
		}
		*slot = args[0]
		return nil
	})
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetTool(canvas.Tool(args[0].String()))
	return nil
}

func setPenStyle(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.SetPenStyle(args[0].String(), args[1].Float())
	return nil
}

func setHandleSize(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetHandleSize(args[0].Float())
	return nil
}

func setCameraActive(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetCameraActive(args[0].Bool())
	return nil
}

func selectElement(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.Select(args[0].String())
	return nil
}

func addText(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return errResult("addText(text, x, y)")
	}
	id, err := eng.AddText(args[0].String(), geom.Pt(args[1].Float(), args[2].Float()))
	if err != nil {
		return errResult(err.Error())
	}
	return okResult(id)
}

func addMedia(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return errResult("addMedia(kind, x, y, ref)")
	}
	kind := element.Kind(args[0].String())
	id, err := eng.AddMedia(kind, geom.Pt(args[1].Float(), args[2].Float()), args[3].String())
	if err != nil {
		return errResult(err.Error())
	}
	return okResult(id)
}

func addNote(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errResult("addNote(x, y)")
	}
	id := eng.AddNote(geom.Pt(args[0].Float(), args[1].Float()))
	return okResult(id)
}

func updateNoteContent(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.UpdateNoteContent(args[0].String(), args[1].String(), args[2].String())
	return nil
}

func setNoteColor(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.SetNoteColor(args[0].String(), args[1].String())
	return nil
}

func togglePin(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.TogglePin(args[0].String())
	return nil
}

func loadElements(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errResult("missing elements JSON")
	}
	var els []*element.Element
	if err := json.Unmarshal([]byte(args[0].String()), &els); err != nil {
		return errResult(err.Error())
	}
	eng.LoadElements(els)
	return okResult("")
}

func registerMedia(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	media.sizes[args[0].String()] = [2]float64{args[1].Float(), args[2].Float()}
	return nil
}

type sceneView struct {
	Elements    []*element.Element `json:"elements"`
	Stroke      *element.Element   `json:"stroke,omitempty"`
	SelectedIDs []string           `json:"selectedIds"`
	ShowTools   bool               `json:"showTools"`
	CanUndo     bool               `json:"canUndo"`
	CanRedo     bool               `json:"canRedo"`
	Tool        string             `json:"tool"`
}

func getScene(this js.Value, args []js.Value) any {
	scene := sceneView{
		Elements:    eng.Elements(),
		Stroke:      eng.InProgressStroke(),
		SelectedIDs: eng.SelectedIDs(),
		ShowTools:   eng.ShowTools(),
		CanUndo:     eng.CanUndo(),
		CanRedo:     eng.CanRedo(),
		Tool:        string(eng.Tool()),
	}
	data, err := json.Marshal(scene)
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getHandles(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.Handles())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func errResult(msg string) js.Value {
	return js.ValueOf(map[string]any{"error": msg})
}

func okResult(id string) js.Value {
	result := map[string]any{"ok": true}
	if id != "" {
		result["id"] = id
	}
	return js.ValueOf(result)
}
