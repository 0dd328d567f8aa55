package company

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/sentinel"
	"covira/pkg/requestcontext"
)

type fakeSeeder struct {
	seeded []id.CompanyID
	appID  id.ApplicationID
}

func (f *fakeSeeder) Seed(_ context.Context, companyID id.CompanyID) (id.ApplicationID, error) {
	f.seeded = append(f.seeded, companyID)
	return f.appID, nil
}

type CompanyServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	seeder  *fakeSeeder
	service *Service
	actor   id.Actor
	ctx     context.Context
}

func (s *CompanyServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.seeder = &fakeSeeder{appID: id.ApplicationID(uuid.New())}
	s.service = NewService(s.store, s.seeder, slog.New(slog.DiscardHandler))
	s.actor = id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleEmployer}
	s.ctx = requestcontext.WithActor(context.Background(), s.actor)
}

func TestCompanyServiceSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceSuite))
}

func (s *CompanyServiceSuite) TestCreate() {
	s.Run("creates company owned by the actor and seeds an application", func() {
		result, err := s.service.Create(s.ctx, "Acme Robotics", nil)
		s.Require().NoError(err)

		s.Equal("Acme Robotics", result.Company.Name)
		s.Equal(s.actor.ID, result.Company.OwnerUserID)
		s.Nil(result.Company.BrokerID)
		s.Equal(s.seeder.appID, result.ApplicationID)
		s.Require().Len(s.seeder.seeded, 1)
		s.Equal(result.Company.ID, s.seeder.seeded[0])

		found, err := s.store.FindByID(s.ctx, result.Company.ID)
		s.Require().NoError(err)
		s.Equal("Acme Robotics", found.Name)
	})

	s.Run("trims whitespace from the name", func() {
		result, err := s.service.Create(s.ctx, "  Beta Corp  ", nil)
		s.Require().NoError(err)
		s.Equal("Beta Corp", result.Company.Name)
	})

	s.Run("records the brokerage when provided", func() {
		brokerID := id.BrokerID(uuid.New())
		result, err := s.service.Create(s.ctx, "Brokered Inc", &brokerID)
		s.Require().NoError(err)
		s.Require().NotNil(result.Company.BrokerID)
		s.Equal(brokerID, *result.Company.BrokerID)
	})

	s.Run("rejects a blank name", func() {
		_, err := s.service.Create(s.ctx, "   ", nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("rejects an unauthenticated context", func() {
		_, err := s.service.Create(context.Background(), "No Actor LLC", nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *CompanyServiceSuite) TestGet() {
	s.Run("returns an existing company", func() {
		result, err := s.service.Create(s.ctx, "Gamma Group", nil)
		s.Require().NoError(err)

		found, err := s.service.Get(s.ctx, result.Company.ID)
		s.Require().NoError(err)
		s.Equal(result.Company.ID, found.ID)
	})

	s.Run("returns not_found for an unknown company", func() {
		_, err := s.service.Get(s.ctx, id.CompanyID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestInMemoryStore_CreateRejectsDuplicateID(t *testing.T) {
	store := NewInMemoryStore()
	company := &Company{ID: id.CompanyID(uuid.New()), Name: "Dup"}

	if err := store.Create(context.Background(), company); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := store.Create(context.Background(), company)
	if !errors.Is(err, sentinel.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
