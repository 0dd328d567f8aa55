// Package company manages the employer groups that applications belong to.
package company

import (
	"time"

	id "covira/pkg/domain"
)

// Company is an employer group. OwnerUserID is the account that created the
// group; BrokerID is set when a brokerage manages the group on the
// employer's behalf.
type Company struct {
	ID          id.CompanyID `json:"id"`
	Name        string       `json:"name"`
	OwnerUserID id.UserID    `json:"ownerUserId"`
	BrokerID    *id.BrokerID `json:"brokerId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
