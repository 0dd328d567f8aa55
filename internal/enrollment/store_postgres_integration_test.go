//go:build integration

package enrollment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/sentinel"
	"covira/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "applications"))
}

func (s *PostgresStoreSuite) seed() *Application {
	app := NewApplication(
		id.ApplicationID(uuid.New()),
		id.CompanyID(uuid.New()),
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(s.store.CreateIfAbsent(context.Background(), app))
	return app
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	app := s.seed()

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.ID, found.ID)
	s.Equal(app.CompanyID, found.CompanyID)
	s.Equal(StatusNotStarted, found.Status)
	s.Equal(CanonicalSteps[0], found.CurrentStep)
	s.Empty(found.CompletedSteps)
	s.Nil(found.SubmittedAt)
}

func (s *PostgresStoreSuite) TestFindByIDMissing() {
	_, err := s.store.FindByID(context.Background(), id.ApplicationID(uuid.New()))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestCreateIfAbsentKeepsExistingRow() {
	ctx := context.Background()
	app := s.seed()

	later := NewApplication(app.ID, app.CompanyID, time.Now().UTC())
	later.CurrentStep = "plans"
	s.Require().NoError(s.store.CreateIfAbsent(ctx, later))

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(CanonicalSteps[0], found.CurrentStep, "existing record must win")
}

func (s *PostgresStoreSuite) TestExecutePersistsMutation() {
	ctx := context.Background()
	app := s.seed()
	now := time.Now().UTC().Truncate(time.Microsecond)

	updated, err := s.store.Execute(ctx, app.ID,
		func(a *Application) error { return a.CanRecordStep() },
		func(a *Application) { a.ApplyStep("company-information", now) },
	)
	s.Require().NoError(err)
	s.Equal([]string{"company-information"}, updated.CompletedSteps)
	s.Equal(StatusInProgress, updated.Status)

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal([]string{"company-information"}, found.CompletedSteps)
	s.Equal("application-initiator", found.CurrentStep)
}

func (s *PostgresStoreSuite) TestExecuteValidateFailureRollsBack() {
	ctx := context.Background()
	app := s.seed()

	_, err := s.store.Execute(ctx, app.ID,
		func(a *Application) error { return a.CanSubmit("") },
		func(a *Application) { a.ApplySubmission("", time.Now().UTC()) },
	)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingSignature))

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(StatusNotStarted, found.Status)
}

// Concurrent submissions race on the row lock; exactly one may win.
func (s *PostgresStoreSuite) TestExecuteSerializesConcurrentSubmissions() {
	ctx := context.Background()
	app := s.seed()

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, app.ID,
				func(a *Application) error { return a.CanSubmit("Jane Doe") },
				func(a *Application) { a.ApplySubmission("Jane Doe", time.Now().UTC()) },
			)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case dErrors.HasCode(err, dErrors.CodeAlreadySubmitted):
			rejected++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(workers-1, rejected)

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(StatusSubmitted, found.Status)
	s.Equal("Jane Doe", found.Signature)
	s.Require().NotNil(found.SubmittedAt)
	s.Equal([]string{StepReview}, found.CompletedSteps)
}

// Concurrent writes of the same step must not duplicate it in the array.
func (s *PostgresStoreSuite) TestExecuteSerializesConcurrentSteps() {
	ctx := context.Background()
	app := s.seed()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, app.ID,
				func(a *Application) error { return a.CanRecordStep() },
				func(a *Application) { a.ApplyStep("employees", time.Now().UTC()) },
			)
			s.NoError(err)
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal([]string{"employees"}, found.CompletedSteps)
}
