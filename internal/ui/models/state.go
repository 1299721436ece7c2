package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message roles in the transcript.
const (
	RoleUser   = "user"
	RoleResult = "result"
	RoleError  = "error"
	RoleInfo   = "info"
)

// Message is one transcript entry.
type Message struct {
	Role    string
	Content string
}

// StatusPanel is the session summary shown by /status.
type StatusPanel struct {
	Lines []string
}

// State is everything the views render.
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model
	Messages []Message

	Width  int
	Height int

	// Busy is true while a command is running against the backend.
	Busy     bool
	DotCount int

	SessionState string
	Backend      string
	ActiveLayer  string

	Panel *StatusPanel
}
