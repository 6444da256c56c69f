package datatable

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/contratos/internal/table"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	"github.com/leapstack-labs/contratos/internal/ui/views"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// Handlers provides HTTP handlers for one data table.
type Handlers[T any, F table.Form] struct {
	cfg    Config[T, F]
	logger *slog.Logger
	isDev  bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers[T any, F table.Form](cfg Config[T, F], deps common.Deps) *Handlers[T, F] {
	return &Handlers[T, F]{
		cfg:    cfg,
		logger: deps.Logger.With("table", cfg.Path),
		isDev:  deps.IsDev,
	}
}

func (h *Handlers[T, F]) binding(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, workspace.Binding[T, F], bool) {
	ws, ok := common.WorkspaceFrom(r.Context())
	if !ok {
		common.Redirect(w, r, common.LoginPath)
		return nil, workspace.Binding[T, F]{}, false
	}
	return ws, h.cfg.Binding(ws), true
}

func (h *Handlers[T, F]) editor(w http.ResponseWriter, r *http.Request) (*table.Editor[T, F], bool) {
	_, b, ok := h.binding(w, r)
	if !ok {
		return nil, false
	}
	if b.Editor == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return b.Editor, true
}

// TablePage renders the full page from the session's cached state.
func (h *Handlers[T, F]) TablePage(w http.ResponseWriter, r *http.Request) {
	ws, b, ok := h.binding(w, r)
	if !ok {
		return
	}

	data := views.TablePageData{
		Shell:             common.Shell(ws, h.cfg.Title, h.cfg.Path, h.isDev),
		Heading:           h.cfg.Title,
		Subtitle:          h.cfg.Subtitle,
		SearchPlaceholder: h.cfg.SearchPlaceholder,
		NewLabel:          h.cfg.NewLabel,
		Search:            b.Table.View().Typed,
		Table:             tableData(h.cfg, b),
		Editor:            editorData(h.cfg, b),
	}
	if err := views.TablePage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// TablePageUpdates is the long-lived SSE endpoint of the page. It patches
// the table and the editor after every change of either. It does NOT send
// initial state; TablePage already rendered it.
func (h *Handlers[T, F]) TablePageUpdates(w http.ResponseWriter, r *http.Request) {
	_, b, ok := h.binding(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := b.Notifier.Subscribe()
	defer b.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.Notifier.Done():
			_ = sse.Redirect(common.LoginPath)
			return
		case <-updates:
			if err := h.sendView(sse, b); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers[T, F]) sendView(sse *datastar.ServerSentEventGenerator, b workspace.Binding[T, F]) error {
	if err := sse.PatchElementTempl(views.Table(tableData(h.cfg, b))); err != nil {
		return err
	}
	return sse.PatchElementTempl(views.Editor(editorData(h.cfg, b)))
}

// Search records the search box. The text is committed after the debounce
// delay, or right away with ?commit.
func (h *Handlers[T, F]) Search(w http.ResponseWriter, r *http.Request) {
	_, b, ok := h.binding(w, r)
	if !ok {
		return
	}
	var signals SearchSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Has("commit") {
		b.Table.CommitSearch(signals.Search)
	} else {
		b.Table.Search(signals.Search)
	}
	datastar.NewSSE(w, r)
}

// Sort cycles the sort of one column.
func (h *Handlers[T, F]) Sort(w http.ResponseWriter, r *http.Request) {
	_, b, ok := h.binding(w, r)
	if !ok {
		return
	}

	err := b.Table.ToggleSort(chi.URLParam(r, "field"))
	sse := datastar.NewSSE(w, r)
	if err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Navigate changes page (?to=first|prev|next|last|N, N one-based) or page
// size (?size=N).
func (h *Handlers[T, F]) Navigate(w http.ResponseWriter, r *http.Request) {
	_, b, ok := h.binding(w, r)
	if !ok {
		return
	}

	err := navigate(b.Table, r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		_ = sse.ConsoleError(err)
	}
}

func navigate[T any](t *table.Controller[T], r *http.Request) error {
	q := r.URL.Query()
	if size := q.Get("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("invalid page size %q", size)
		}
		return t.SetPageSize(n)
	}

	switch to := q.Get("to"); to {
	case "first":
		t.FirstPage()
	case "prev":
		t.PrevPage()
	case "next":
		t.NextPage()
	case "last":
		t.LastPage()
	default:
		n, err := strconv.Atoi(to)
		if err != nil {
			return fmt.Errorf("invalid page %q", to)
		}
		t.SetPage(n - 1)
	}
	return nil
}

// OpenCreate opens the editor with an empty form.
func (h *Handlers[T, F]) OpenCreate(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	e.OpenCreate()

	sse := datastar.NewSSE(w, r)
	h.patchForm(sse, e)
}

// OpenEdit opens the editor on a row of the current page.
func (h *Handlers[T, F]) OpenEdit(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	opened := e.OpenEdit(id)

	sse := datastar.NewSSE(w, r)
	if !opened {
		_ = sse.ConsoleError(fmt.Errorf("row %q is not on the current page", id))
		return
	}
	h.patchForm(sse, e)
}

// Input applies the form signals so masks show while typing.
func (h *Handlers[T, F]) Input(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	var signals FormSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	applyForm(e, signals.Form)

	sse := datastar.NewSSE(w, r)
	h.patchForm(sse, e)
}

// Save applies the form signals and submits. Validation and write errors
// are rendered by the stream; the table reloads itself on success.
func (h *Handlers[T, F]) Save(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	var signals FormSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	applyForm(e, signals.Form)

	err := e.Submit(r.Context())
	switch {
	case err == nil:
		h.logger.Info("record saved")
	case errors.Is(err, table.ErrInvalid):
		h.logger.Debug("form rejected")
	case errors.Is(err, table.ErrNotOpen):
		h.logger.Debug("save without an open editor")
	case errors.Is(err, table.ErrSaving):
		h.logger.Debug("save already in progress")
	}

	sse := datastar.NewSSE(w, r)
	if e.View().Open {
		h.patchForm(sse, e)
	}
}

// Cancel closes the editor.
func (h *Handlers[T, F]) Cancel(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	e.Cancel()
	datastar.NewSSE(w, r)
}

func (h *Handlers[T, F]) patchForm(sse *datastar.ServerSentEventGenerator, e *table.Editor[T, F]) {
	if err := sse.MarshalAndPatchSignals(map[string]any{"form": e.View().Values}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// applyForm copies changed values into the editor.
func applyForm[T any, F table.Form](e *table.Editor[T, F], form map[string]string) {
	v := e.View()
	for _, f := range v.Fields {
		if value, ok := form[f.Name]; ok && value != v.Values[f.Name] {
			e.Set(f.Name, value)
		}
	}
}
