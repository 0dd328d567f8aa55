// Package enrollment tracks an application's progress through the
// enrollment steps up to signed submission.
package enrollment

import (
	"strings"
	"time"

	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	platformstrings "covira/pkg/platform/strings"
)

// StepReview is the terminal marker appended on submission. It is not part
// of the canonical sequence the employer walks through.
const StepReview = "review"

// CanonicalSteps is the ordered sequence of enrollment milestones. The
// server records any step name a client sends; this list only drives the
// current-step computation. Ordering is enforced by the UI, not here.
var CanonicalSteps = []string{
	"application-initiator",
	"company-information",
	"ownership-info",
	"authorized-contact",
	"employees",
	"documents",
	"plans",
	"contributions",
}

// Status is the application lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

// Application is one employer's enrollment record. CompletedSteps is an
// ordered, append-only set: steps are never removed, and CurrentStep is
// always the first canonical step not yet completed, pinned to the review
// marker once submitted.
type Application struct {
	ID             id.ApplicationID `json:"id"`
	CompanyID      id.CompanyID     `json:"companyId"`
	CurrentStep    string           `json:"currentStep"`
	CompletedSteps []string         `json:"completedSteps"`
	Status         Status           `json:"status"`
	Signature      string           `json:"signature,omitempty"`
	SubmittedAt    *time.Time       `json:"submittedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// NewApplication creates a not-started application for a company.
func NewApplication(appID id.ApplicationID, companyID id.CompanyID, now time.Time) *Application {
	return &Application{
		ID:          appID,
		CompanyID:   companyID,
		CurrentStep: CanonicalSteps[0],
		Status:      StatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasCompleted reports whether the step is already in CompletedSteps.
func (a *Application) HasCompleted(step string) bool {
	for _, s := range a.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// CanRecordStep validates that a step write is still allowed.
func (a *Application) CanRecordStep() error {
	if a.Status == StatusSubmitted {
		return dErrors.New(dErrors.CodeAlreadySubmitted, "application has already been submitted")
	}
	return nil
}

// ApplyStep appends the step and recomputes the derived fields. Appending an
// already-completed step is a no-op by construction.
func (a *Application) ApplyStep(step string, now time.Time) {
	a.CompletedSteps = platformstrings.DedupeAndTrim(append(a.CompletedSteps, step))
	if a.Status == StatusNotStarted {
		a.Status = StatusInProgress
	}
	a.CurrentStep = a.nextStep()
	a.UpdatedAt = now
}

// CanSubmit validates the one-way submission preconditions.
func (a *Application) CanSubmit(signature string) error {
	if a.Status == StatusSubmitted {
		return dErrors.New(dErrors.CodeAlreadySubmitted, "application has already been submitted")
	}
	if strings.TrimSpace(signature) == "" {
		return dErrors.New(dErrors.CodeMissingSignature, "signature is required to submit")
	}
	return nil
}

// ApplySubmission marks the application submitted, records the signature and
// time, appends the terminal review step, and pins CurrentStep to it.
func (a *Application) ApplySubmission(signature string, now time.Time) {
	a.Status = StatusSubmitted
	a.Signature = strings.TrimSpace(signature)
	a.SubmittedAt = &now
	a.CompletedSteps = platformstrings.DedupeAndTrim(append(a.CompletedSteps, StepReview))
	a.CurrentStep = StepReview
	a.UpdatedAt = now
}

// nextStep returns the first canonical step not yet completed, or the review
// marker when every canonical step is done.
func (a *Application) nextStep() string {
	for _, step := range CanonicalSteps {
		if !a.HasCompleted(step) {
			return step
		}
	}
	return StepReview
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (a *Application) Clone() *Application {
	clone := *a
	clone.CompletedSteps = append([]string(nil), a.CompletedSteps...)
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		clone.SubmittedAt = &t
	}
	return &clone
}
