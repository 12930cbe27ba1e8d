// Package session models the writing-wizard navigation of a student session
// as an explicit state machine with a back-stack. It is pure UI bookkeeping
// layered on top of the diary services and holds no persistent state.
package session

import (
	"fmt"

	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

// State is one page of the student flow.
type State string

const (
	StateLogin          State = "login"
	StateCheckNotes     State = "check_notes"
	StateMenu           State = "menu"
	StateWriteEmotion   State = "write_emotion"
	StateWriteGratitude State = "write_gratitude"
	StateWriteMessage   State = "write_message"
	StateConfirmSubmit  State = "confirm_submit"
	StateViewEntries    State = "view_entries"
)

// transitions lists the legal forward moves from each state. Logging out
// (returning to StateLogin) is allowed from anywhere and handled separately.
var transitions = map[State][]State{
	StateLogin:          {StateCheckNotes},
	StateCheckNotes:     {StateMenu},
	StateMenu:           {StateWriteEmotion, StateViewEntries, StateCheckNotes},
	StateWriteEmotion:   {StateWriteGratitude},
	StateWriteGratitude: {StateWriteMessage},
	StateWriteMessage:   {StateConfirmSubmit},
	StateConfirmSubmit:  {StateMenu},
	StateViewEntries:    {StateMenu},
}

// Draft holds the wizard's in-progress entry fields.
type Draft struct {
	Emotion   string
	Gratitude string
	Message   string
}

// Machine tracks the current page, the navigation history, and the draft of
// one student session.
type Machine struct {
	current State
	stack   []State
	draft   Draft
}

// NewMachine starts at the login page.
func NewMachine() *Machine {
	return &Machine{current: StateLogin}
}

// Current returns the active state.
func (m *Machine) Current() State {
	return m.current
}

// Draft returns the in-progress entry fields.
func (m *Machine) Draft() Draft {
	return m.draft
}

// Go moves to the target state when the transition is legal, pushing the
// previous state onto the back-stack.
func (m *Machine) Go(to State) error {
	for _, allowed := range transitions[m.current] {
		if allowed == to {
			m.stack = append(m.stack, m.current)
			m.current = to
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation,
		fmt.Sprintf("cannot navigate from %s to %s", m.current, to))
}

// Back pops the previous state. At the bottom of the stack it stays put.
func (m *Machine) Back() State {
	if len(m.stack) == 0 {
		return m.current
	}
	m.current = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return m.current
}

// SelectEmotion records the wizard's emotion choice as the stored composite.
func (m *Machine) SelectEmotion(group, detail string) {
	m.draft.Emotion = models.ComposeEmotion(group, detail)
}

// SetGratitude records the gratitude note draft.
func (m *Machine) SetGratitude(text string) {
	m.draft.Gratitude = text
}

// SetMessage records the free-text message draft.
func (m *Machine) SetMessage(text string) {
	m.draft.Message = text
}

// CompleteSubmit clears the draft and returns to the menu. Only valid on the
// confirmation page.
func (m *Machine) CompleteSubmit() error {
	if m.current != StateConfirmSubmit {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("cannot complete a submit from %s", m.current))
	}
	m.draft = Draft{}
	m.stack = nil
	m.current = StateMenu
	return nil
}

// Logout resets everything back to the login page, dropping history and
// draft, from any state.
func (m *Machine) Logout() {
	*m = Machine{current: StateLogin}
}
