package handler

import (
	"time"

	"covira/internal/enrollment"
	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
)

// StepRequest is the optional body of a step completion. CompanyID opens the
// application implicitly when it does not exist yet.
type StepRequest struct {
	CompanyID string `json:"companyId,omitempty"`

	parsedCompanyID id.CompanyID
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *StepRequest) Validate() error {
	if r.CompanyID == "" {
		return nil
	}
	companyID, err := id.ParseCompanyID(r.CompanyID)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidRequest, "companyId must be a valid UUID")
	}
	r.parsedCompanyID = companyID
	return nil
}

// ParsedCompanyID returns the parsed company ID, or the nil ID when the body
// carried none.
func (r *StepRequest) ParsedCompanyID() id.CompanyID {
	return r.parsedCompanyID
}

// SubmitRequest is the body of a submission.
type SubmitRequest struct {
	Signature string `json:"signature"`
}

// Validate implements the Validatable interface. The signature content is
// validated by the service so an empty value maps to missing_signature
// rather than a generic decode failure.
func (r *SubmitRequest) Validate() error {
	return nil
}

// ApplicationResponse is the wire shape of an application.
type ApplicationResponse struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"companyId"`
	CurrentStep    string   `json:"currentStep"`
	CompletedSteps []string `json:"completedSteps"`
	Status         string   `json:"status"`
	SubmittedAt    string   `json:"submittedAt,omitempty"`
}

// FromApplication converts a domain application to its wire shape.
func FromApplication(app *enrollment.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:             app.ID.String(),
		CompanyID:      app.CompanyID.String(),
		CurrentStep:    app.CurrentStep,
		CompletedSteps: app.CompletedSteps,
		Status:         string(app.Status),
	}
	if app.SubmittedAt != nil {
		resp.SubmittedAt = app.SubmittedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
