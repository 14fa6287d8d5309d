// Package action defines how UI components hand requests up to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is a request emitted by a UI component. ActionType identifies it
// for logging.
type Action interface {
	ActionType() string
}

// Msg wraps an action with the name of the component that emitted it.
type Msg struct {
	Source string
	Action Action
}

var _ tea.Msg = Msg{}
