// Package authz decides whether an actor may access a company-scoped
// resource.
//
// The decision is a pure function of the actor and the resource's ownership,
// evaluated fresh on every request: role and broker association can change
// between requests, so results are never cached.
package authz

import id "covira/pkg/domain"

// Resource describes the ownership of a company-scoped entity (a company or
// one of its applications).
type Resource struct {
	OwnerUserID id.UserID
	// BrokerID is the brokerage servicing the resource; nil means no broker
	// is associated and broker-role actors are never granted access.
	BrokerID id.BrokerID
}

// CanAccess applies the access rules in priority order:
//  1. Global admin roles always have access.
//  2. The resource owner has access.
//  3. Broker-role actors have access when their brokerage matches a
//     non-nil resource brokerage.
//  4. Everyone else is denied.
func CanAccess(actor id.Actor, resource Resource) bool {
	if actor.Role.IsGlobalAdmin() {
		return true
	}
	if !actor.ID.IsNil() && actor.ID == resource.OwnerUserID {
		return true
	}
	if actor.Role.IsBrokerRole() && !resource.BrokerID.IsNil() && actor.BrokerID == resource.BrokerID {
		return true
	}
	return false
}
