package route53

import "context"

// LocateRecordSet finds the existing record set matching the name, type and
// optional routing identifier within a zone. Absence is a valid nil result,
// not an error; the planner decides what absence means.
func (c *Client) LocateRecordSet(ctx context.Context, zoneID, name, recordType string, identifier *string) (*RecordSet, error) {
	records, err := c.listRecordSets(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return findRecordSet(records, name, recordType, identifier), nil
}

// findRecordSet applies the provider identity rules: exact equality on
// (name, type), and the routing identifier must match on both sides. A set
// without an identifier never matches a query that supplies one, and a query
// without one never matches a set that has one. First match wins under
// provider ordering; duplicates have no documented tie-break.
func findRecordSet(records []RecordSet, name, recordType string, identifier *string) *RecordSet {
	name = normalizeName(name)
	for i := range records {
		candidate := &records[i]
		if candidate.Name != name || candidate.Type != recordType {
			continue
		}
		if !equalStringPtr(identifier, candidate.SetIdentifier) {
			continue
		}
		return cloneRecordSet(candidate)
	}
	return nil
}
