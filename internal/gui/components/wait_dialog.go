package components

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// WaitDialog is a modal "Processing" dialog with an indeterminate progress
// bar. Safe to call from any goroutine.
type WaitDialog struct {
	window fyne.Window

	mu      sync.Mutex
	dlg     *dialog.CustomDialog
	label   *widget.Label
	visible bool
}

func NewWaitDialog(window fyne.Window) *WaitDialog {
	return &WaitDialog{window: window}
}

func (w *WaitDialog) Show(message string) {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()

	fyne.Do(func() {
		if w.dlg == nil {
			w.label = widget.NewLabel(message)
			content := container.NewVBox(w.label, widget.NewProgressBarInfinite())
			w.dlg = dialog.NewCustomWithoutButtons("Processing", content, w.window)
		}
		w.label.SetText(message)
		w.dlg.Show()
	})
}

func (w *WaitDialog) Hide() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()

	fyne.Do(func() {
		if w.dlg != nil {
			w.dlg.Hide()
		}
	})
}

// Visible reports the last requested state.
func (w *WaitDialog) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}
