package application

import (
	"context"
	"sync"
	"time"

	adverttypes "github.com/petsetu/petsetu-web/internal/domains/adverts/application/types"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

const maxNotices = 20

// Workspace aggregates the live components of one draft.
type Workspace struct {
	Form    *FormState
	Address *AddressSuggester
	Media   *MediaOrchestrator

	mu        sync.Mutex
	phase     adverttypes.Phase
	closed    bool
	notices   []string
	submitted *adverttypes.SubmissionResult
	createdAt time.Time
	updatedAt time.Time
}

func newWorkspace(form *FormState, address *AddressSuggester, media *MediaOrchestrator, now time.Time) *Workspace {
	return &Workspace{
		Form:      form,
		Address:   address,
		Media:     media,
		phase:     adverttypes.PhaseEditing,
		createdAt: now,
		updatedAt: now,
	}
}

// Phase returns the workspace lifecycle position.
func (w *Workspace) Phase() adverttypes.Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Workspace) ensureEditing() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editableLocked()
}

func (w *Workspace) editableLocked() error {
	switch {
	case w.closed || w.phase == adverttypes.PhaseNavigated:
		return ErrDraftClosed
	case w.phase == adverttypes.PhaseSubmitting:
		return ErrSubmissionInProgress
	default:
		return nil
	}
}

// edit runs fn while the workspace is held in the editing phase, so a form
// mutation cannot interleave with the start of a submit.
func (w *Workspace) edit(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	return fn()
}

func (w *Workspace) beginSubmit() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	if w.Form.Step() != domain.LastStep {
		return ErrNotFinalStep
	}
	w.phase = adverttypes.PhaseSubmitting
	return nil
}

// finishSubmit moves to the navigated phase and remembers the result for retries.
func (w *Workspace) finishSubmit(result *adverttypes.SubmissionResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	copied := *result
	w.submitted = &copied
	w.phase = adverttypes.PhaseNavigated
}

func (w *Workspace) abortSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = adverttypes.PhaseEditing
}

func (w *Workspace) submission() *adverttypes.SubmissionResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted == nil {
		return nil
	}
	copied := *w.submitted
	return &copied
}

func (w *Workspace) notice(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notices = append(w.notices, msg)
	if len(w.notices) > maxNotices {
		w.notices = append([]string(nil), w.notices[len(w.notices)-maxNotices:]...)
	}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updatedAt = now
}

// Close releases the workspace resources exactly once.
func (w *Workspace) Close(ctx context.Context) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.Address.Close()
	w.Media.Close(ctx)
}

func (w *Workspace) view(id string) *adverttypes.DraftView {
	form := w.Form.Snapshot()
	query, suggestions := w.Address.Current()
	media := w.Media.Items()

	w.mu.Lock()
	defer w.mu.Unlock()
	return &adverttypes.DraftView{
		ID:          id,
		Phase:       w.phase,
		Step:        form.Step,
		Values:      form.Values,
		Errors:      form.Errors,
		Media:       media,
		Query:       query,
		Suggestions: suggestions,
		Notices:     append([]string(nil), w.notices...),
		CreatedAt:   w.createdAt,
		UpdatedAt:   w.updatedAt,
	}
}
