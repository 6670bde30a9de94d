package cli

import (
	"sync"

	"github.com/pterm/pterm"

	"github.com/rautio/react-analyzer/internal/pathutil"
)

// spinnerProgress adapts driver.Progress onto a pterm spinner, updating
// its text to the module currently being visited. It is grounded on the
// teacher's printSuccess/printError ANSI-color helpers (internal/cli,
// since deleted): where the teacher hand-rolled escape codes, this
// adopts pterm, the terminal-UI library the rest of the retrieved
// example corpus reaches for.
type spinnerProgress struct {
	sp      *pterm.SpinnerPrinter
	base    string
	mu      sync.Mutex
	active  map[string]bool
}

func newSpinnerProgress(base string) *spinnerProgress {
	sp, _ := pterm.DefaultSpinner.Start("starting")
	return &spinnerProgress{sp: sp, base: base, active: make(map[string]bool)}
}

func (p *spinnerProgress) Begin(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active[id] = true
	p.sp.UpdateText(pathutil.Shorten(p.base, id))
}

func (p *spinnerProgress) End(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, id)
}

func (p *spinnerProgress) stop(success bool, summary string) {
	if success {
		p.sp.Success(summary)
		return
	}
	p.sp.Fail(summary)
}
