package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	sizeLabel   *widget.Label
	timeLabel   *widget.Label
}

func NewStatusBar() *StatusBar {
	statusLabel := widget.NewLabel("Ready")
	sizeLabel := widget.NewLabel("Size: --")
	timeLabel := widget.NewLabel("Time: --")

	detailsContainer := container.NewHBox(
		sizeLabel,
		widget.NewSeparator(),
		timeLabel,
	)

	mainContainer := container.NewBorder(
		nil, nil,
		statusLabel,
		detailsContainer,
	)

	return &StatusBar{
		container:   mainContainer,
		statusLabel: statusLabel,
		sizeLabel:   sizeLabel,
		timeLabel:   timeLabel,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

// SetDetails shows the source and result dimensions and the processing time.
func (sb *StatusBar) SetDetails(srcW, srcH, outW, outH int, took time.Duration) {
	sb.sizeLabel.SetText(fmt.Sprintf("Size: %dx%d → %dx%d", srcW, srcH, outW, outH))
	sb.timeLabel.SetText(fmt.Sprintf("Time: %.1fs", took.Seconds()))
}

func (sb *StatusBar) ClearDetails() {
	sb.sizeLabel.SetText("Size: --")
	sb.timeLabel.SetText("Time: --")
}
