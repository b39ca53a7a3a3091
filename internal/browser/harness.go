package browser

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the model programmatically for tests, running returned
// commands synchronously until they stop producing messages.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned
// commands.
func (h *Harness) Send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		h.dispatch(msg)
	}
}

func (h *Harness) dispatch(msg tea.Msg) {
	if h.model == nil || msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			h.run(cmd)
		}
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.run(cmd)
}

func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if _, quit := msg.(tea.QuitMsg); quit {
		h.model.quitting = true
		return
	}
	h.dispatch(msg)
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
