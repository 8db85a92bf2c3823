package route53

import "errors"

var (
	// ErrZoneNotFound means no hosted zone satisfied the name, visibility
	// and VPC constraints after draining the full zone listing.
	ErrZoneNotFound = errors.New("hosted zone does not exist in Route 53")

	// ErrInvalidRoutingPolicy flags weight/region/failover combinations that
	// Route 53 would reject, detected before any network call.
	ErrInvalidRoutingPolicy = errors.New("invalid routing policy")

	// ErrInvalidAliasShape flags alias requests that do not carry exactly one
	// target DNS name and an alias hosted zone.
	ErrInvalidAliasShape = errors.New("invalid alias record")

	// ErrConflict means the record exists with a different value and the
	// caller did not permit overwriting it.
	ErrConflict = errors.New("record already exists with different value; set overwrite to replace it")

	// ErrWaitTimeout means the change was accepted but did not reach INSYNC
	// within the caller's timeout. The change may still be in flight.
	ErrWaitTimeout = errors.New("timed out waiting for record changes to propagate")
)
