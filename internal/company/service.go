package company

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/sentinel"
	"covira/pkg/requestcontext"
)

// ApplicationSeeder opens a fresh enrollment application for a company.
// Implemented by the enrollment service; the interface keeps this package
// from depending on enrollment internals.
type ApplicationSeeder interface {
	Seed(ctx context.Context, companyID id.CompanyID) (id.ApplicationID, error)
}

// Service orchestrates company creation and lookup.
type Service struct {
	companies Store
	seeder    ApplicationSeeder
	logger    *slog.Logger
}

// NewService constructs the company service.
func NewService(companies Store, seeder ApplicationSeeder, logger *slog.Logger) *Service {
	return &Service{
		companies: companies,
		seeder:    seeder,
		logger:    logger,
	}
}

// CreateResult pairs a new company with its seeded application.
type CreateResult struct {
	Company       *Company
	ApplicationID id.ApplicationID
}

// Create registers a company owned by the context actor and seeds an empty
// enrollment application for it.
func (s *Service) Create(ctx context.Context, name string, brokerID *id.BrokerID) (*CreateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "company name is required")
	}

	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	company := &Company{
		ID:          id.CompanyID(uuid.New()),
		Name:        name,
		OwnerUserID: actor.ID,
		BrokerID:    brokerID,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "company already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}

	appID, err := s.seeder.Seed(ctx, company.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open application")
	}

	s.logger.InfoContext(ctx, "company created",
		"company_id", company.ID.String(),
		"application_id", appID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	return &CreateResult{Company: company, ApplicationID: appID}, nil
}

// Get returns one company by ID.
func (s *Service) Get(ctx context.Context, companyID id.CompanyID) (*Company, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	return company, nil
}
