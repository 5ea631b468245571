// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"sqldedupe/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner shows an animated status line until the returned function is
// called. It hides the cursor, draws into a pterm area that is removed when
// done, and does nothing when stdout is not a terminal or debug output is on.
func startSpinner(text string) func() {
	if !spinnerEnabled(terminal.IsInteractive(os.Stdout), pterm.PrintDebugMessages) {
		return func() {}
	}
	// frame + space
	text = fitLine(text, terminal.Width(os.Stdout)-2)

	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			area.Update(fmt.Sprintf("%s %s", frames(i), text))
			select {
			case <-t.C:
				i++
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			area.Stop()
			cursor.Show()
		})
	}
}

func frames(i int) string {
	return spinnerFrames[i%len(spinnerFrames)]
}

// spinnerEnabled reports whether the spinner may redraw the terminal.
// pterm.Debug lines printed under a live area get overwritten.
func spinnerEnabled(interactive, debug bool) bool {
	return interactive && !debug
}

// fitLine shortens text to at most width runes, marking the cut with "…".
func fitLine(text string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= width {
		return string(runes)
	}
	return string(runes[:width-1]) + "…"
}
