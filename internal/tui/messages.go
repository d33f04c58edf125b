package tui

import (
	"github.com/listenupapp/pokedex/internal/box"
	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/fetch"
)

// pageLoadedMsg reports a finished catalog page load. The pager has already
// committed or dropped the result.
type pageLoadedMsg struct{ err error }

// boxLoadedMsg reports a finished box load.
type boxLoadedMsg struct{ err error }

// boxDeletedMsg reports a release; err is set when the delete itself failed.
type boxDeletedMsg struct {
	entryID string
	err     error
}

type detailsMsg struct {
	ticket   fetch.Ticket
	pokemon  domain.Pokemon
	fellBack bool
}

type formSavedMsg struct {
	form  *box.Form
	entry *domain.BoxEntry
	err   error
}

type indexDoneMsg struct{}
