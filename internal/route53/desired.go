package route53

import (
	"fmt"
	"sort"
	"strings"
)

// BuildRecordSet converts a validated request into the canonical record set
// used for comparison and submission. It performs no I/O.
//
// Canonical form rules:
//   - record and zone names are lowercased and fully qualified,
//   - an alias request carries exactly one value, the alias target DNS name;
//     TTL and the value list are structurally absent on alias records,
//   - CAA values are sorted lexicographically so equivalent sets with values
//     in different orders canonicalize identically,
//   - absent optionals stay nil, never explicit zero values, because plan
//     equality is field-presence sensitive.
func BuildRecordSet(req Request) (*RecordSet, error) {
	if err := validateShape(req); err != nil {
		return nil, err
	}

	rs := &RecordSet{
		Name: Fqdn(strings.ToLower(req.Record)),
		Type: req.Type,
	}
	if req.SetIdentifier != "" {
		rs.SetIdentifier = copyString(&req.SetIdentifier)
	}
	if req.Weight != nil {
		rs.Weight = copyInt64(req.Weight)
	}
	if req.Region != "" {
		rs.Region = copyString(&req.Region)
	}
	if req.Failover != "" {
		rs.Failover = copyString(&req.Failover)
	}
	if req.HealthCheckID != "" {
		rs.HealthCheckID = copyString(&req.HealthCheckID)
	}

	if req.Alias {
		rs.Alias = &AliasTarget{
			HostedZoneID:         req.AliasHostedZoneID,
			DNSName:              Fqdn(strings.ToLower(req.Values[0])),
			EvaluateTargetHealth: req.EvaluateTargetHealth,
		}
		return rs, nil
	}

	ttl := req.TTL
	rs.TTL = &ttl
	rs.Values = append([]string{}, req.Values...)
	sortValues(rs)
	return rs, nil
}

func validateShape(req Request) error {
	set := 0
	if req.Weight != nil {
		if *req.Weight < 0 {
			return fmt.Errorf("%w: weight cannot be negative", ErrInvalidRoutingPolicy)
		}
		set++
	}
	if req.Region != "" {
		set++
	}
	if req.Failover != "" {
		set++
	}
	if set > 1 {
		return fmt.Errorf("%w: weight, region and failover are mutually exclusive", ErrInvalidRoutingPolicy)
	}
	if set > 0 && req.SetIdentifier == "" {
		return fmt.Errorf("%w: weight, region and failover require an identifier", ErrInvalidRoutingPolicy)
	}
	if set == 0 && req.SetIdentifier != "" {
		return fmt.Errorf("%w: identifier makes sense only with one of weight, region or failover", ErrInvalidRoutingPolicy)
	}
	if req.Failover != "" && req.Failover != FailoverPrimary && req.Failover != FailoverSecondary {
		return fmt.Errorf("%w: failover must be %s or %s", ErrInvalidRoutingPolicy, FailoverPrimary, FailoverSecondary)
	}
	if req.Alias {
		if len(req.Values) != 1 {
			return fmt.Errorf("%w: value must contain a single dns name for alias records", ErrInvalidAliasShape)
		}
		if req.AliasHostedZoneID == "" {
			return fmt.Errorf("%w: alias records require the alias hosted zone id", ErrInvalidAliasShape)
		}
	}
	return nil
}

// Fqdn appends the trailing separator when absent.
func Fqdn(name string) string {
	if name == "" || !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}

func normalizeName(name string) string {
	return Fqdn(strings.ToLower(name))
}

// sortValues canonicalizes order-insensitive value lists. Only CAA record
// sets compare independent of value order.
func sortValues(rs *RecordSet) {
	if rs.Type == "CAA" {
		sort.Strings(rs.Values)
	}
}

// recordSetsEqual is exact structural equality of the canonical form, not a
// semantic "same effective DNS answer" comparison.
func recordSetsEqual(a, b *RecordSet) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Type != b.Type {
		return false
	}
	if !equalStringPtr(a.SetIdentifier, b.SetIdentifier) {
		return false
	}
	if !equalInt64Ptr(a.TTL, b.TTL) || !equalInt64Ptr(a.Weight, b.Weight) {
		return false
	}
	if !equalStringPtr(a.Region, b.Region) || !equalStringPtr(a.Failover, b.Failover) {
		return false
	}
	if !equalStringPtr(a.HealthCheckID, b.HealthCheckID) {
		return false
	}
	if len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	if (a.Alias == nil) != (b.Alias == nil) {
		return false
	}
	if a.Alias != nil && *a.Alias != *b.Alias {
		return false
	}
	return true
}

// diffRecordSets reports per-field differences between the live and desired
// canonical forms, keyed by field name.
func diffRecordSets(desired, current *RecordSet) map[string]Difference {
	if desired == nil || current == nil {
		return nil
	}
	diffs := make(map[string]Difference)
	if !equalInt64Ptr(desired.TTL, current.TTL) {
		diffs["ttl"] = Difference{From: copyInt64(current.TTL), To: copyInt64(desired.TTL)}
	}
	if !stringSlicesEqual(desired.Values, current.Values) {
		diffs["values"] = Difference{From: append([]string{}, current.Values...), To: append([]string{}, desired.Values...)}
	}
	if !equalInt64Ptr(desired.Weight, current.Weight) {
		diffs["weight"] = Difference{From: copyInt64(current.Weight), To: copyInt64(desired.Weight)}
	}
	if !equalStringPtr(desired.Region, current.Region) {
		diffs["region"] = Difference{From: copyString(current.Region), To: copyString(desired.Region)}
	}
	if !equalStringPtr(desired.Failover, current.Failover) {
		diffs["failover"] = Difference{From: copyString(current.Failover), To: copyString(desired.Failover)}
	}
	if !equalStringPtr(desired.HealthCheckID, current.HealthCheckID) {
		diffs["health_check_id"] = Difference{From: copyString(current.HealthCheckID), To: copyString(desired.HealthCheckID)}
	}
	if !aliasEqual(desired.Alias, current.Alias) {
		diffs["alias"] = Difference{From: current.Alias, To: desired.Alias}
	}
	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func aliasEqual(a, b *AliasTarget) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
