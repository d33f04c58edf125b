package box

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/listenupapp/pokedex/internal/domain"
	"github.com/listenupapp/pokedex/internal/pokeapi"
	"github.com/listenupapp/pokedex/internal/validation"
)

const (
	// TimestampLayout is how createdAt is sent: UTC with milliseconds.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	// CatchDateLayout is the editable form of createdAt, in local time.
	CatchDateLayout = "2006-01-02 15:04"

	fallbackSaveMessage = "Failed to save Box entry"
)

// ErrBusy is returned by Submit while an earlier submit is still running.
var ErrBusy = errors.New("box: save already in progress")

// Writer is the part of the API the form uses. *pokeapi.Client satisfies it.
type Writer interface {
	CreateBoxEntry(ctx context.Context, data domain.InsertBoxEntry) (*domain.BoxEntry, error)
	UpdateBoxEntry(ctx context.Context, entryID string, data domain.UpdateBoxEntry) (*domain.BoxEntry, error)
}

var validate = validation.New()

// formInput is the checked shape of the form. Field order sets which
// message wins when several rules fail.
type formInput struct {
	Location string `json:"location" validate:"required" msg:"Location is required"`
	Level    int    `json:"level" validate:"min=1,max=100" msg:"Level must be a number between 1 and 100"`
}

// Form creates or edits one box entry. The exported fields hold the raw
// user input; Submit trims and parses them.
type Form struct {
	Pokemon   domain.Pokemon
	Location  string
	Level     string
	Notes     string
	CreatedAt string // RFC 3339

	entryID string

	mu       sync.Mutex
	busy     bool
	errMsg   string
	problems []validation.FieldError
}

// NewCreateForm starts an empty catch form for p, caught at now.
func NewCreateForm(p domain.Pokemon, now time.Time) *Form {
	return &Form{
		Pokemon:   p,
		CreatedAt: now.UTC().Format(TimestampLayout),
	}
}

// NewEditForm starts a form prefilled from entry.
func NewEditForm(p domain.Pokemon, entry domain.BoxEntry) *Form {
	return &Form{
		Pokemon:   p,
		Location:  entry.Location,
		Level:     strconv.Itoa(entry.Level),
		Notes:     entry.Notes,
		CreatedAt: entry.CreatedAt,
		entryID:   entry.ID,
	}
}

// Editing reports whether the form updates an existing entry.
func (f *Form) Editing() bool { return f.entryID != "" }

// EntryID is the entry being edited, or "".
func (f *Form) EntryID() string { return f.entryID }

// Title is the form heading.
func (f *Form) Title() string {
	if f.Editing() {
		return "Edit Box Entry"
	}
	return "Catch " + f.Pokemon.Name
}

// CatchDate renders CreatedAt for editing. Unparsable values are returned
// as stored.
func (f *Form) CatchDate() string {
	t, err := time.Parse(time.RFC3339, f.CreatedAt)
	if err != nil {
		return f.CreatedAt
	}
	return t.Local().Format(CatchDateLayout)
}

// SetCatchDate parses a CatchDateLayout value in local time into CreatedAt.
func (f *Form) SetCatchDate(value string) error {
	t, err := time.ParseInLocation(CatchDateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return err
	}
	f.CreatedAt = t.UTC().Format(TimestampLayout)
	return nil
}

// Busy reports whether a submit is in flight.
func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Message is the inline error from the last Validate or Submit, or "".
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Problems lists every rule the last Validate or Submit found broken, keyed
// by the JSON field name ("location", "level").
func (f *Form) Problems() []validation.FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.problems)
}

// Validate checks location and level. It returns a VALIDATION domain error
// naming the first failing rule.
func (f *Form) Validate() error {
	_, err := f.input()
	f.mu.Lock()
	f.setInvalid(err)
	f.mu.Unlock()
	return err
}

// setInvalid records a validation result. Callers hold f.mu.
func (f *Form) setInvalid(err error) {
	f.errMsg = ""
	f.problems = validation.Fields(err)
	if err != nil {
		f.errMsg = pokeapi.Message(err)
	}
}

func (f *Form) input() (formInput, error) {
	in := formInput{Location: strings.TrimSpace(f.Location)}
	if level, err := strconv.Atoi(strings.TrimSpace(f.Level)); err == nil {
		in.Level = level
	}
	return in, validate.Validate(in)
}

// Submit validates and saves the form. Invalid input never reaches w. On a
// failed save the message is kept for display and the form stays usable.
func (f *Form) Submit(ctx context.Context, w Writer) (*domain.BoxEntry, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	in, err := f.input()
	f.setInvalid(err)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.busy = true
	f.mu.Unlock()

	notes := strings.TrimSpace(f.Notes)

	var saved *domain.BoxEntry
	if f.Editing() {
		saved, err = w.UpdateBoxEntry(ctx, f.entryID, domain.UpdateBoxEntry{
			Location:  in.Location,
			Level:     in.Level,
			Notes:     notes,
			CreatedAt: f.CreatedAt,
		})
	} else {
		saved, err = w.CreateBoxEntry(ctx, domain.InsertBoxEntry{
			PokemonID: f.Pokemon.ID,
			Location:  in.Location,
			Level:     in.Level,
			Notes:     notes,
			CreatedAt: f.CreatedAt,
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.errMsg = pokeapi.Message(err)
		if f.errMsg == "" {
			f.errMsg = fallbackSaveMessage
		}
		return nil, err
	}
	return saved, nil
}
