package canvas

import (
	"strings"
	"time"

	"github.com/easelhq/easel/internal/transform"
)

// TextMeasurer is re-exported from transform so hosts only import canvas.
type TextMeasurer = transform.TextMeasurer

// MediaResolver supplies natural pixel dimensions for media references and
// playback control for video handles. The engine never decodes media; it
// stores opaque handles plus the derived size.
type MediaResolver interface {
	NaturalSize(ref string) (w, h float64, err error)
	SetPlaying(handle string, playing bool)
}

// NoteEditor is the chrome-side collaborator opened when a selected note
// is double-tapped.
type NoteEditor interface {
	EditNote(id string)
}

// CancelFunc cancels a scheduled callback. Safe to call more than once.
type CancelFunc func()

// Scheduler provides time and deferred callbacks to the gesture state
// machine. The host must deliver scheduled callbacks on the same
// goroutine that feeds pointer events to the engine; the engine is not
// internally synchronized.
type Scheduler interface {
	Now() time.Time
	Schedule(d time.Duration, fn func()) CancelFunc
}

// timerScheduler is the default Scheduler backed by time.AfterFunc. Hosts
// with an event loop (the live room, the wasm frontend) should install
// their own scheduler that posts the callback onto that loop.
type timerScheduler struct{}

func (timerScheduler) Now() time.Time { return time.Now() }

func (timerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// approxMeasurer is the fallback text collaborator: a deterministic
// character-count estimate with greedy wrapping. Good enough for hosts
// that have no real text stack (tests, headless rooms); frontends supply
// a measurer backed by their font renderer for visual parity.
type approxMeasurer struct{}

const (
	approxCharWidth  = 0.55 // fraction of font size per character
	approxLineHeight = 1.3  // line height as fraction of font size
)

func (approxMeasurer) MeasureText(text string, fontSize, maxWidth float64, bold bool) (float64, float64) {
	if text == "" {
		return 0, 0
	}

	charW := fontSize * approxCharWidth
	if bold {
		charW *= 1.05
	}

	lines := 0
	longest := 0.0
	for _, line := range strings.Split(text, "\n") {
		w := float64(len([]rune(line))) * charW
		if maxWidth > 0 && w > maxWidth {
			wrapped := int(w/maxWidth) + 1
			lines += wrapped
			longest = max(longest, maxWidth)
		} else {
			lines++
			longest = max(longest, w)
		}
	}

	return longest, float64(lines) * fontSize * approxLineHeight
}
