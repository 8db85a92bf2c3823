package route53

import "time"

// Zone describes a hosted zone after resolution.
type Zone struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Private     bool     `json:"private" yaml:"private"`
	VPCIDs      []string `json:"vpc_ids,omitempty" yaml:"vpc_ids,omitempty"`
	NameServers []string `json:"name_servers,omitempty" yaml:"name_servers,omitempty"`
}

// AliasTarget points a record set at another Route 53 managed resource
// instead of literal values.
type AliasTarget struct {
	HostedZoneID         string `json:"hosted_zone_id" yaml:"hosted_zone_id"`
	DNSName              string `json:"dns_name" yaml:"dns_name"`
	EvaluateTargetHealth bool   `json:"evaluate_target_health" yaml:"evaluate_target_health"`
}

// Failover values accepted by Route 53 failover routing.
const (
	FailoverPrimary   = "PRIMARY"
	FailoverSecondary = "SECONDARY"
)

// RecordSet is the canonical representation of one resource record set.
// Exactly one of {TTL+Values, Alias} is populated; optional fields stay nil
// so that two canonical sets compare by structure, never by defaulted zeros.
type RecordSet struct {
	Name          string       `json:"name" yaml:"name"`
	Type          string       `json:"type" yaml:"type"`
	SetIdentifier *string      `json:"set_identifier,omitempty" yaml:"set_identifier,omitempty"`
	TTL           *int64       `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Values        []string     `json:"values,omitempty" yaml:"values,omitempty"`
	Weight        *int64       `json:"weight,omitempty" yaml:"weight,omitempty"`
	Region        *string      `json:"region,omitempty" yaml:"region,omitempty"`
	Failover      *string      `json:"failover,omitempty" yaml:"failover,omitempty"`
	HealthCheckID *string      `json:"health_check_id,omitempty" yaml:"health_check_id,omitempty"`
	Alias         *AliasTarget `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// Verb indicates what action reconciles live state with desired state.
type Verb string

const (
	VerbNoOp     Verb = "noop"
	VerbCreate   Verb = "create"
	VerbUpsert   Verb = "upsert"
	VerbDelete   Verb = "delete"
	VerbConflict Verb = "conflict"
)

// Intent is the caller's requested operation.
type Intent string

const (
	IntentApply  Intent = "apply"
	IntentRemove Intent = "remove"
	IntentGet    Intent = "get"
)

// Difference captures what will change for a field during an upsert.
type Difference struct {
	From any `json:"from" yaml:"from"`
	To   any `json:"to" yaml:"to"`
}

// ChangePlan is the outcome of comparing desired and current record sets.
// Desired carries the caller's canonical record even for deletes, since
// Route 53 requires the submitted values to match the live set exactly.
type ChangePlan struct {
	Verb        Verb                  `json:"verb" yaml:"verb"`
	Desired     *RecordSet            `json:"desired,omitempty" yaml:"desired,omitempty"`
	Current     *RecordSet            `json:"current,omitempty" yaml:"current,omitempty"`
	Differences map[string]Difference `json:"differences,omitempty" yaml:"differences,omitempty"`
	Generated   time.Time             `json:"generated_at" yaml:"generated_at"`
}

// ChangeHandle is the change-tracking token returned after a successful
// mutation, consumed only by the propagation waiter.
type ChangeHandle struct {
	ID string `json:"id" yaml:"id"`
}

// Request is the fully validated input produced by the CLI layer.
type Request struct {
	Intent               Intent
	Zone                 string
	HostedZoneID         string
	Record               string
	Type                 string
	TTL                  int64
	Values               []string
	Alias                bool
	AliasHostedZoneID    string
	EvaluateTargetHealth bool
	Overwrite            bool
	SetIdentifier        string
	Weight               *int64
	Region               string
	Failover             string
	HealthCheckID        string
	PrivateZone          bool
	VPCID                string
	Wait                 bool
	WaitTimeout          time.Duration
	DryRun               bool
}

// Result reports what a reconciliation did (or, for get, what it found).
type Result struct {
	Changed     bool                  `json:"changed" yaml:"changed"`
	Verb        Verb                  `json:"verb" yaml:"verb"`
	Zone        Zone                  `json:"zone" yaml:"zone"`
	Before      *RecordSet            `json:"before,omitempty" yaml:"before,omitempty"`
	After       *RecordSet            `json:"after,omitempty" yaml:"after,omitempty"`
	Differences map[string]Difference `json:"differences,omitempty" yaml:"differences,omitempty"`
	Set         *RecordSet            `json:"set,omitempty" yaml:"set,omitempty"`
	NameServers []string              `json:"nameservers,omitempty" yaml:"nameservers,omitempty"`
	Handle      *ChangeHandle         `json:"change,omitempty" yaml:"change,omitempty"`
}

func cloneRecordSet(rs *RecordSet) *RecordSet {
	if rs == nil {
		return nil
	}
	clone := *rs
	if len(rs.Values) > 0 {
		clone.Values = append([]string{}, rs.Values...)
	}
	clone.SetIdentifier = copyString(rs.SetIdentifier)
	clone.TTL = copyInt64(rs.TTL)
	clone.Weight = copyInt64(rs.Weight)
	clone.Region = copyString(rs.Region)
	clone.Failover = copyString(rs.Failover)
	clone.HealthCheckID = copyString(rs.HealthCheckID)
	if rs.Alias != nil {
		alias := *rs.Alias
		clone.Alias = &alias
	}
	return &clone
}

func copyString(val *string) *string {
	if val == nil {
		return nil
	}
	copy := *val
	return &copy
}

func copyInt64(val *int64) *int64 {
	if val == nil {
		return nil
	}
	copy := *val
	return &copy
}

func equalStringPtr(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
