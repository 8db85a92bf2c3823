package route53

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/net/publicsuffix"
)

// ZoneQuery describes the constraints a hosted zone must satisfy.
type ZoneQuery struct {
	// Name of the zone. Trailing dot optional. Ignored when ID is set.
	Name string
	// ID short-circuits resolution entirely.
	ID string
	// Private selects between public and private zones of the same name.
	Private bool
	// VPCID, when set, additionally requires the private zone to be
	// associated with this VPC.
	VPCID string
}

// ResolveZone maps a zone query to exactly one hosted zone or fails with
// ErrZoneNotFound. Zones are enumerated in provider order with pagination
// fully drained; when several zones satisfy every constraint the first one
// in enumeration order wins, matching the provider's (undocumented) listing
// contract rather than an invented secondary sort.
func (c *Client) ResolveZone(ctx context.Context, query ZoneQuery) (*Zone, error) {
	if query.ID != "" {
		return c.zoneByID(ctx, query.ID)
	}

	name := normalizeName(query.Name)
	zones, err := c.listZones(ctx)
	if err != nil {
		return nil, err
	}

	for _, candidate := range zones {
		private := candidate.Config != nil && candidate.Config.PrivateZone
		if private != query.Private || normalizeName(aws.ToString(candidate.Name)) != name {
			continue
		}
		zoneID := trimZoneID(aws.ToString(candidate.Id))
		if query.VPCID == "" {
			return &Zone{ID: zoneID, Name: name, Private: private}, nil
		}
		// VPC association is only visible on the zone detail record, so a
		// private-zone candidate costs an extra round trip.
		detail, err := c.zoneDetail(ctx, zoneID)
		if err != nil {
			return nil, err
		}
		var vpcIDs []string
		for _, vpc := range detail.VPCs {
			vpcIDs = append(vpcIDs, aws.ToString(vpc.VPCId))
		}
		for _, vpcID := range vpcIDs {
			if vpcID == query.VPCID {
				return &Zone{ID: zoneID, Name: name, Private: private, VPCIDs: vpcIDs}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, strings.TrimSuffix(name, "."))
}

func (c *Client) zoneByID(ctx context.Context, zoneID string) (*Zone, error) {
	zoneID = trimZoneID(zoneID)
	detail, err := c.zoneDetail(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	zone := &Zone{ID: zoneID}
	if detail.HostedZone != nil {
		zone.Name = normalizeName(aws.ToString(detail.HostedZone.Name))
		zone.Private = detail.HostedZone.Config != nil && detail.HostedZone.Config.PrivateZone
	}
	for _, vpc := range detail.VPCs {
		zone.VPCIDs = append(zone.VPCIDs, aws.ToString(vpc.VPCId))
	}
	return zone, nil
}

// ResolveZoneForRecord finds the zone owning a record name when the caller
// supplied neither a zone name nor a zone id. Candidates are derived from
// the record name, most specific suffix last after the registrable domain.
func (c *Client) ResolveZoneForRecord(ctx context.Context, record string, private bool, vpcID string) (*Zone, error) {
	host := sanitizeCandidateHost(record)
	if host == "" {
		return nil, fmt.Errorf("%w: record name is required to derive a zone", ErrZoneNotFound)
	}
	for _, candidate := range zoneCandidates(host) {
		zone, err := c.ResolveZone(ctx, ZoneQuery{Name: candidate, Private: private, VPCID: vpcID})
		if err == nil {
			return zone, nil
		}
		if !errors.Is(err, ErrZoneNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no hosted zone matches record %s", ErrZoneNotFound, host)
}

// NameServers returns the nameservers serving a zone, read from the NS
// record at the zone apex.
func (c *Client) NameServers(ctx context.Context, zone *Zone) ([]string, error) {
	records, err := c.listRecordSets(ctx, zone.ID)
	if err != nil {
		return nil, err
	}
	ns := findRecordSet(records, zone.Name, "NS", nil)
	if ns == nil {
		return nil, fmt.Errorf("zone %s has no apex NS record", zone.Name)
	}
	return append([]string{}, ns.Values...), nil
}

func sanitizeCandidateHost(host string) string {
	value := strings.TrimSpace(strings.ToLower(host))
	value = strings.Trim(value, ".")
	value = strings.TrimPrefix(value, "*.")
	return value
}

func zoneCandidates(host string) []string {
	seen := make(map[string]struct{})
	var candidates []string

	labels := strings.Split(host, ".")
	for i := 0; i <= len(labels)-2; i++ {
		addZoneCandidate(&candidates, seen, strings.Join(labels[i:], "."))
	}

	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		addZoneCandidate(&candidates, seen, etld)
	}

	return candidates
}

func addZoneCandidate(list *[]string, seen map[string]struct{}, candidate string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return
	}
	if _, exists := seen[candidate]; exists {
		return
	}
	seen[candidate] = struct{}{}
	*list = append(*list, candidate)
}
