package table

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/contratos/internal/api"
)

// DefaultSaveError is shown for failed writes when the editor sets no message.
const DefaultSaveError = "Operação não pode ser realizada"

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// FieldKind selects the input used for a field.
type FieldKind string

// Field kinds.
const (
	KindText   FieldKind = "text"
	KindEmail  FieldKind = "email"
	KindDate   FieldKind = "date"
	KindSelect FieldKind = "select"
	KindMoney  FieldKind = "money"
)

// Field describes one input of a form.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Placeholder string
	Options     []string
}

// Form is the editable, display-shaped state of one record.
type Form interface {
	// Fields lists the inputs in display order. The order also ranks
	// server field errors.
	Fields() []Field
	Value(field string) string
	Set(field, value string)
	Validate() FieldErrors
	// Payload converts the form to the wire body.
	Payload() any
}

// Writer persists records.
type Writer interface {
	Create(ctx context.Context, payload any) error
	Update(ctx context.Context, id string, payload any) error
}

// EditorSpec configures an editor for one resource.
type EditorSpec[T any, F Form] struct {
	CreateTitle string
	EditTitle   string
	// SaveError is shown when a write fails without a usable message.
	SaveError string
	New       func() F
	From      func(T) F
}

// Editor is the create/edit modal of one table. After a successful write it
// closes and sends the table back to its first page; it never touches the
// cached rows itself.
type Editor[T any, F Form] struct {
	table  *Controller[T]
	writer Writer
	spec   EditorSpec[T, F]
	logger *slog.Logger

	mu       sync.Mutex
	open     bool
	id       string
	form     F
	errors   FieldErrors
	alert    string
	saving   bool
	onChange func()
}

// NewEditor creates a closed editor bound to table.
func NewEditor[T any, F Form](table *Controller[T], writer Writer, spec EditorSpec[T, F]) *Editor[T, F] {
	if spec.SaveError == "" {
		spec.SaveError = DefaultSaveError
	}
	return &Editor[T, F]{
		table:  table,
		writer: writer,
		spec:   spec,
		logger: table.logger.With("editor", true),
	}
}

// OnChange registers fn to run after every editor state change.
func (e *Editor[T, F]) OnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// OpenCreate opens the editor with an empty form.
func (e *Editor[T, F]) OpenCreate() {
	e.update(func() {
		e.reset()
		e.open = true
		e.form = e.spec.New()
	})
}

// OpenEdit opens the editor pre-filled from the table's cached row id.
func (e *Editor[T, F]) OpenEdit(id string) bool {
	row, ok := e.table.Row(id)
	if !ok {
		return false
	}
	e.update(func() {
		e.reset()
		e.open = true
		e.id = id
		e.form = e.spec.From(row)
	})
	return true
}

// Cancel closes the editor and discards the form.
func (e *Editor[T, F]) Cancel() {
	e.update(e.reset)
}

// Set changes one form field and clears its validation message.
func (e *Editor[T, F]) Set(field, value string) {
	e.update(func() {
		if !e.open {
			return
		}
		e.form.Set(field, value)
		delete(e.errors, field)
	})
}

// Submit validates the form and writes it. Validation failures return
// ErrInvalid without contacting the backend, and a Submit while a write is
// in flight returns ErrSaving. On a failed write the editor
// stays open with an alert.
func (e *Editor[T, F]) Submit(ctx context.Context) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return ErrNotOpen
	}
	if e.saving {
		e.mu.Unlock()
		return ErrSaving
	}
	if errs := e.form.Validate(); len(errs) > 0 {
		e.errors = errs
		e.alert = ""
		hook := e.onChange
		e.mu.Unlock()
		notify(hook)
		return ErrInvalid
	}
	id, form := e.id, e.form
	payload := form.Payload()
	e.errors = nil
	e.alert = ""
	e.saving = true
	hook := e.onChange
	e.mu.Unlock()
	notify(hook)

	var err error
	if id != "" {
		err = e.writer.Update(ctx, id, payload)
	} else {
		err = e.writer.Create(ctx, payload)
	}

	e.mu.Lock()
	e.saving = false
	if err != nil {
		e.alert = api.UserMessage(err, e.spec.SaveError, fieldNames(form.Fields())...)
		hook = e.onChange
		e.mu.Unlock()
		e.logger.Error("save failed", "id", id, "error", err)
		notify(hook)
		return fmt.Errorf("save: %w", err)
	}
	e.reset()
	hook = e.onChange
	e.mu.Unlock()
	notify(hook)

	e.table.Reset()
	return nil
}

// EditorView is a snapshot of the editor for rendering.
type EditorView struct {
	Open    bool
	Editing bool
	ID      string
	Title   string
	Fields  []Field
	Values  map[string]string
	Errors  FieldErrors
	Alert   string
	Saving  bool
}

// View returns a snapshot of the editor.
func (e *Editor[T, F]) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := EditorView{
		Open:    e.open,
		Editing: e.id != "",
		ID:      e.id,
		Alert:   e.alert,
		Saving:  e.saving,
		Errors:  FieldErrors{},
		Values:  map[string]string{},
	}
	if !e.open {
		return v
	}
	v.Title = e.spec.CreateTitle
	if v.Editing {
		v.Title = e.spec.EditTitle
	}
	v.Fields = e.form.Fields()
	for _, f := range v.Fields {
		v.Values[f.Name] = e.form.Value(f.Name)
	}
	for k, msg := range e.errors {
		v.Errors[k] = msg
	}
	return v
}

func (e *Editor[T, F]) reset() {
	var zero F
	e.open = false
	e.id = ""
	e.form = zero
	e.errors = nil
	e.alert = ""
	e.saving = false
}

func (e *Editor[T, F]) update(fn func()) {
	e.mu.Lock()
	fn()
	hook := e.onChange
	e.mu.Unlock()
	notify(hook)
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
