// Package domain defines the typed identifiers shared across modules.
//
// Every aggregate gets its own UUID-backed type so a CompanyID can never be
// passed where an ApplicationID is expected. Parse helpers enforce the
// invariant that IDs are valid, non-empty, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "covira/pkg/domain-errors"
)

type (
	// UserID identifies an authenticated user (employer contact, broker
	// staff, or platform admin).
	UserID uuid.UUID

	// CompanyID identifies an employer group.
	CompanyID uuid.UUID

	// ApplicationID identifies an enrollment application.
	ApplicationID uuid.UUID

	// BrokerID identifies a brokerage organization. The nil value means
	// "no broker associated".
	BrokerID uuid.UUID
)

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID parses and validates a user ID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseCompanyID parses and validates a company ID.
func ParseCompanyID(raw string) (CompanyID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return CompanyID{}, err
	}
	return CompanyID(parsed), nil
}

// ParseApplicationID parses and validates an application ID.
func ParseApplicationID(raw string) (ApplicationID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return ApplicationID{}, err
	}
	return ApplicationID(parsed), nil
}

// ParseBrokerID parses and validates a broker ID.
func ParseBrokerID(raw string) (BrokerID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return BrokerID{}, err
	}
	return BrokerID(parsed), nil
}

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id CompanyID) String() string     { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id BrokerID) String() string      { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BrokerID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps IDs as canonical UUID strings in JSON payloads.

func (id UserID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id CompanyID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id ApplicationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id BrokerID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(text []byte) error        { return (*uuid.UUID)(id).UnmarshalText(text) }
func (id *CompanyID) UnmarshalText(text []byte) error     { return (*uuid.UUID)(id).UnmarshalText(text) }
func (id *ApplicationID) UnmarshalText(text []byte) error { return (*uuid.UUID)(id).UnmarshalText(text) }
func (id *BrokerID) UnmarshalText(text []byte) error      { return (*uuid.UUID)(id).UnmarshalText(text) }
