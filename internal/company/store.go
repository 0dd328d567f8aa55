package company

import (
	"context"

	id "covira/pkg/domain"
)

// Store persists companies.
type Store interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*Company, error)
}
