package enrollment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"covira/internal/audit"
	"covira/internal/authz"
	"covira/internal/company"
	enrollmentmetrics "covira/internal/enrollment/metrics"
	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/sentinel"
	"covira/pkg/requestcontext"
)

var tracer = otel.Tracer("covira/enrollment")

const auditEntityApplication = "application"

// errStepAlreadyCompleted signals the idempotent no-op path out of Execute.
var errStepAlreadyCompleted = errors.New("step already completed")

// CompanyResolver supplies the owning company for access decisions.
type CompanyResolver interface {
	FindByID(ctx context.Context, companyID id.CompanyID) (*company.Company, error)
}

// Service is the progress controller: it validates and applies step
// transitions and the one-way submission, guarding every operation with the
// access rules and recording each state change to the audit trail.
type Service struct {
	apps      Store
	companies CompanyResolver
	recorder  *audit.Recorder
	logger    *slog.Logger
	metrics   *enrollmentmetrics.Metrics
}

// NewService constructs the enrollment service.
func NewService(apps Store, companies CompanyResolver, recorder *audit.Recorder, logger *slog.Logger, metrics *enrollmentmetrics.Metrics) *Service {
	return &Service{
		apps:      apps,
		companies: companies,
		recorder:  recorder,
		logger:    logger,
		metrics:   metrics,
	}
}

// Seed opens a fresh application for a company. Used when a company record
// is created; the first step write creates one implicitly otherwise.
func (s *Service) Seed(ctx context.Context, companyID id.CompanyID) (id.ApplicationID, error) {
	app := NewApplication(id.ApplicationID(uuid.New()), companyID, requestcontext.Now(ctx))
	if err := s.apps.CreateIfAbsent(ctx, app); err != nil {
		return id.ApplicationID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}
	return app.ID, nil
}

// EnsureOpen creates the application with the given ID under the company
// unless it already exists. Supports the implicit creation path where the
// first step write opens the application. The actor must pass the access
// rules for the company.
func (s *Service) EnsureOpen(ctx context.Context, appID id.ApplicationID, companyID id.CompanyID) error {
	owner, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve company")
	}

	app := NewApplication(appID, companyID, requestcontext.Now(ctx))
	if err := s.deny(ctx, app, owner); err != nil {
		return err
	}
	if err := s.apps.CreateIfAbsent(ctx, app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}
	return nil
}

// Advance records a completed step. Any step name is accepted and recorded;
// the canonical order drives only the current-step computation, since the
// client walks the sequence and this side must tolerate replays and
// out-of-order arrivals. Re-completing a step is a no-op that returns the
// current state.
func (s *Service) Advance(ctx context.Context, appID id.ApplicationID, step string) (*Application, error) {
	ctx, span := tracer.Start(ctx, "enrollment.Advance")
	defer span.End()

	step = strings.TrimSpace(step)
	if step == "" {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "step name is required")
	}
	span.SetAttributes(
		attribute.String("application.id", appID.String()),
		attribute.String("application.step", step),
	)

	app, err := s.authorize(ctx, appID)
	if err != nil {
		return nil, err
	}

	// The already-completed check runs under the store lock so a racing
	// duplicate cannot append or audit the step twice.
	now := requestcontext.Now(ctx)
	app, err = s.apps.Execute(ctx, appID,
		func(a *Application) error {
			if a.HasCompleted(step) {
				return errStepAlreadyCompleted
			}
			return a.CanRecordStep()
		},
		func(a *Application) {
			a.ApplyStep(step, now)
		},
	)
	if errors.Is(err, errStepAlreadyCompleted) {
		current, findErr := s.apps.FindByID(ctx, appID)
		if findErr != nil {
			return nil, wrapApplicationErr(findErr)
		}
		return current, nil
	}
	if err != nil {
		return nil, wrapApplicationErr(err)
	}

	s.metrics.IncrementStepsRecorded(step)
	s.recorder.Record(ctx, audit.Entry{
		ActorUserID: requestcontext.Actor(ctx).ID,
		Action:      audit.ActionApplicationStep,
		EntityType:  auditEntityApplication,
		EntityID:    app.ID.String(),
		Details:     map[string]string{"step": step, "current_step": app.CurrentStep},
	})

	return app, nil
}

// Submit signs and submits the application. Submission is a one-way door:
// the first caller wins, every later caller observes already_submitted, and
// exactly one signature audit entry is written.
func (s *Service) Submit(ctx context.Context, appID id.ApplicationID, signature string) (*Application, error) {
	ctx, span := tracer.Start(ctx, "enrollment.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", appID.String()))

	if _, err := s.authorize(ctx, appID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	app, err := s.apps.Execute(ctx, appID,
		func(a *Application) error {
			return a.CanSubmit(signature)
		},
		func(a *Application) {
			a.ApplySubmission(signature, now)
		},
	)
	if err != nil {
		return nil, wrapApplicationErr(err)
	}

	s.metrics.IncrementSubmissions()
	s.recorder.Record(ctx, audit.Entry{
		ActorUserID: requestcontext.Actor(ctx).ID,
		Action:      audit.ActionApplicationSign,
		EntityType:  auditEntityApplication,
		EntityID:    app.ID.String(),
		Details:     map[string]string{"status": string(app.Status)},
	})

	return app, nil
}

// View pairs an application with its audit trail for read requests.
type View struct {
	Application *Application  `json:"application"`
	AuditTrail  []audit.Entry `json:"auditTrail"`
}

// Get returns the application and its audit trail. The company lookup for
// the access check and the trail load run concurrently.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*View, error) {
	ctx, span := tracer.Start(ctx, "enrollment.Get")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", appID.String()))

	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapApplicationErr(err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var owner *company.Company
	g.Go(func() error {
		c, err := s.companies.FindByID(gctx, app.CompanyID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve company")
		}
		owner = c
		return nil
	})

	var trail []audit.Entry
	g.Go(func() error {
		entries, err := s.recorder.List(gctx, auditEntityApplication, appID.String())
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit trail")
		}
		trail = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.deny(ctx, app, owner); err != nil {
		return nil, err
	}
	return &View{Application: app, AuditTrail: trail}, nil
}

// authorize loads the application and its company and applies the access
// rules. The check runs fresh on every call; nothing is cached across
// requests.
func (s *Service) authorize(ctx context.Context, appID id.ApplicationID) (*Application, error) {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapApplicationErr(err)
	}

	owner, err := s.companies.FindByID(ctx, app.CompanyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve company")
	}

	if err := s.deny(ctx, app, owner); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) deny(ctx context.Context, app *Application, owner *company.Company) error {
	actor := requestcontext.Actor(ctx)
	resource := authz.Resource{OwnerUserID: owner.OwnerUserID}
	if owner.BrokerID != nil {
		resource.BrokerID = *owner.BrokerID
	}
	if authz.CanAccess(actor, resource) {
		return nil
	}

	s.metrics.IncrementAccessDenials()
	s.logger.WarnContext(ctx, "application access denied",
		"actor_user_id", actor.ID.String(),
		"actor_role", string(actor.Role),
		"application_id", app.ID.String(),
		"company_id", app.CompanyID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeForbidden, "access denied")
}

func wrapApplicationErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "application store unavailable")
	default:
		if dErrors.Is(err) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "application store failure")
	}
}
