package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redactyl/imgstrip/internal/clip"
	"github.com/redactyl/imgstrip/internal/pipeline"
	"go.uber.org/zap"
)

type copyTarget int

const (
	targetItem copyTarget = iota
	targetCleaned
	targetHistory
	targetEncoded
)

type statusMsg string

// copyResultMsg reports a finished clipboard write. run is the extraction the
// copied text came from; item and cleaned copies from an older run are void.
type copyResultMsg struct {
	target copyTarget
	id     int64
	run    int
	err    error
}

// copiedResetMsg clears a copied flag once its TTL expires. Every copy
// schedules its own reset; a later copy does not cancel an earlier one.
type copiedResetMsg struct {
	target copyTarget
	id     int64
	run    int
}

type imageEncodedMsg struct {
	path    string
	dataURL string
	err     error
}

// copyCmd writes text to the clipboard off the update loop.
func (m Model) copyCmd(target copyTarget, id int64, text string) tea.Cmd {
	w, log, run := m.clipboard, m.log, m.runSeq
	return func() tea.Msg {
		return copyResultMsg{target: target, id: id, run: run, err: clip.Copy(w, text, log)}
	}
}

// handleCopyResult sets the copied flag and schedules its reset. Failures are
// logged by clip.Copy and leave the extraction state untouched.
func (m *Model) handleCopyResult(msg copyResultMsg) tea.Cmd {
	if msg.err != nil {
		return nil
	}
	stale := msg.run != m.runSeq && (msg.target == targetItem || msg.target == targetCleaned)
	if stale {
		return nil
	}

	var ok bool
	switch msg.target {
	case targetItem:
		ok = m.extractor.MarkCopied(int(msg.id))
		m.rebuildTableRows()
	case targetCleaned:
		ok = m.extractor.MarkCleanedCopied()
	case targetHistory:
		ok = m.extractor.History().MarkCopied(msg.id)
	case targetEncoded:
		m.encodedCopied = true
		ok = true
	}
	if !ok {
		return nil
	}
	m.updateViewportContent()

	reset := copiedResetMsg{target: msg.target, id: msg.id, run: msg.run}
	return tea.Tick(pipeline.CopiedFlagTTL, func(time.Time) tea.Msg { return reset })
}

// handleCopiedReset clears the flag named by msg. Item and cleaned resets
// from an older extraction are dropped since their IDs may be reused.
func (m *Model) handleCopiedReset(msg copiedResetMsg) {
	switch msg.target {
	case targetItem:
		if msg.run == m.runSeq {
			m.extractor.ResetCopied(int(msg.id))
			m.rebuildTableRows()
		}
	case targetCleaned:
		if msg.run == m.runSeq {
			m.extractor.ResetCleanedCopied()
		}
	case targetHistory:
		m.extractor.History().ResetCopied(msg.id)
	case targetEncoded:
		m.encodedCopied = false
	}
	m.updateViewportContent()
}

// encodeCmd reads an image file into a data URL. Read errors are reported
// back and only logged.
func (m Model) encodeCmd(path string) tea.Cmd {
	enc := m.encoder
	return func() tea.Msg {
		dataURL, err := enc.EncodeFile(path)
		return imageEncodedMsg{path: path, dataURL: dataURL, err: err}
	}
}

func (m *Model) toggleTruncation() tea.Cmd {
	m.prefs.TruncatePayloads = !m.prefs.TruncatePayloads
	m.updateViewportContent()
	state := "off"
	if m.prefs.TruncatePayloads {
		state = "on"
	}
	m.setStatus("Payload truncation "+state, 3*time.Second)

	if m.savePrefs == nil {
		return nil
	}
	prefs, save, log := m.prefs, m.savePrefs, m.log
	return func() tea.Msg {
		if err := save(prefs); err != nil {
			log.Warn("saving preferences failed", zap.Error(err))
			return statusMsg("Could not save preferences")
		}
		return nil
	}
}
