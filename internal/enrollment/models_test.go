package enrollment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
)

func newTestApplication() *Application {
	return NewApplication(
		id.ApplicationID(uuid.New()),
		id.CompanyID(uuid.New()),
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	)
}

func TestApplication_CurrentStepTracksFirstGap(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		completed []string
		want      string
	}{
		{"fresh application", nil, "application-initiator"},
		{"first step done", []string{"application-initiator"}, "company-information"},
		{"later step done first", []string{"employees"}, "application-initiator"},
		{"gap in the middle", []string{"application-initiator", "ownership-info"}, "company-information"},
		{"unknown step ignored by the sequence", []string{"broker-of-record"}, "application-initiator"},
		{
			"all canonical steps done",
			append([]string(nil), CanonicalSteps...),
			StepReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication()
			for _, step := range tt.completed {
				app.ApplyStep(step, now)
			}
			assert.Equal(t, tt.want, app.CurrentStep)
		})
	}
}

func TestApplication_ApplyStepDedupes(t *testing.T) {
	app := newTestApplication()
	now := time.Now()

	app.ApplyStep("employees", now)
	app.ApplyStep("employees", now)

	assert.Equal(t, []string{"employees"}, app.CompletedSteps)
	assert.Equal(t, StatusInProgress, app.Status)
}

func TestApplication_SubmissionLifecycle(t *testing.T) {
	app := newTestApplication()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, app.CanSubmit("Jane Doe"))
	app.ApplySubmission("  Jane Doe  ", now)

	assert.Equal(t, StatusSubmitted, app.Status)
	assert.Equal(t, "Jane Doe", app.Signature)
	require.NotNil(t, app.SubmittedAt)
	assert.Equal(t, now, *app.SubmittedAt)
	assert.Equal(t, StepReview, app.CurrentStep)
	assert.True(t, app.HasCompleted(StepReview))

	err := app.CanSubmit("Another Signature")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadySubmitted))

	err = app.CanRecordStep()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadySubmitted))
}

func TestApplication_CanSubmitRequiresSignature(t *testing.T) {
	app := newTestApplication()

	err := app.CanSubmit("   ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingSignature))
}

func TestApplication_CloneDoesNotAlias(t *testing.T) {
	app := newTestApplication()
	app.ApplyStep("employees", time.Now())

	clone := app.Clone()
	clone.ApplyStep("documents", time.Now())

	assert.Len(t, app.CompletedSteps, 1)
	assert.Len(t, clone.CompletedSteps, 2)
}
