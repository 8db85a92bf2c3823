package route53

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// api is the slice of the Route 53 control API the reconciler consumes.
// Keeping it narrow lets every component run against an in-memory stub.
type api interface {
	ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
	GetHostedZone(ctx context.Context, params *route53.GetHostedZoneInput, optFns ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
	GetChange(ctx context.Context, params *route53.GetChangeInput, optFns ...func(*route53.Options)) (*route53.GetChangeOutput, error)
}

// ClientConfig contains configuration for the Route 53 connection.
type ClientConfig struct {
	Region      string
	AccessKey   string
	SecretKey   string
	HTTPTimeout time.Duration
}

// Client wraps the Route 53 API with higher-level helpers tailored for
// single record-set reconciliation.
type Client struct {
	api api
}

// NewClient instantiates a Client from the default AWS config chain, with
// optional static credentials. SDK-internal retries are disabled so the
// change executor owns the retry policy end to end.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			awscredentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.HTTPTimeout > 0 {
		awsCfg.HTTPClient = awshttp.NewBuildableClient().WithTimeout(cfg.HTTPTimeout)
	}
	return &Client{api: route53.NewFromConfig(awsCfg)}, nil
}

// listZones drains hosted zone pagination and returns every zone visible to
// the caller in provider enumeration order.
func (c *Client) listZones(ctx context.Context) ([]types.HostedZone, error) {
	var all []types.HostedZone
	input := &route53.ListHostedZonesInput{}
	for {
		out, err := c.api.ListHostedZones(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list hosted zones: %w", err)
		}
		all = append(all, out.HostedZones...)
		if !out.IsTruncated {
			break
		}
		input.Marker = out.NextMarker
	}
	return all, nil
}

// zoneDetail fetches the full hosted zone record, which is the only place
// the associated VPC list and delegation set are available.
func (c *Client) zoneDetail(ctx context.Context, zoneID string) (*route53.GetHostedZoneOutput, error) {
	out, err := c.api.GetHostedZone(ctx, &route53.GetHostedZoneInput{Id: aws.String(zoneID)})
	if err != nil {
		return nil, fmt.Errorf("get hosted zone %s: %w", zoneID, err)
	}
	return out, nil
}

// listRecordSets drains record set pagination for a zone. Record sets are
// not indexed by name at the API boundary, so the full listing is required
// before concluding absence.
func (c *Client) listRecordSets(ctx context.Context, zoneID string) ([]RecordSet, error) {
	var all []RecordSet
	input := &route53.ListResourceRecordSetsInput{HostedZoneId: aws.String(zoneID)}
	for {
		out, err := c.api.ListResourceRecordSets(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list record sets for zone %s: %w", zoneID, err)
		}
		for _, rrset := range out.ResourceRecordSets {
			all = append(all, fromAPIRecordSet(rrset))
		}
		if !out.IsTruncated {
			break
		}
		input.StartRecordName = out.NextRecordName
		input.StartRecordType = out.NextRecordType
		input.StartRecordIdentifier = out.NextRecordIdentifier
	}
	return all, nil
}

// submitChange sends a single-change batch. The provider applies it
// atomically; no multi-record batches are constructed here.
func (c *Client) submitChange(ctx context.Context, zoneID string, action types.ChangeAction, rs *RecordSet) (*ChangeHandle, error) {
	out, err := c.api.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &types.ChangeBatch{
			Changes: []types.Change{
				{
					Action:            action,
					ResourceRecordSet: toAPIRecordSet(rs),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.ChangeInfo == nil || out.ChangeInfo.Id == nil {
		return nil, fmt.Errorf("change accepted for zone %s but no change id returned", zoneID)
	}
	return &ChangeHandle{ID: aws.ToString(out.ChangeInfo.Id)}, nil
}

// changeStatus reports the propagation status of a submitted change.
func (c *Client) changeStatus(ctx context.Context, handle *ChangeHandle) (types.ChangeStatus, error) {
	out, err := c.api.GetChange(ctx, &route53.GetChangeInput{Id: aws.String(handle.ID)})
	if err != nil {
		return "", fmt.Errorf("get change %s: %w", handle.ID, err)
	}
	if out.ChangeInfo == nil {
		return "", fmt.Errorf("get change %s: empty change info", handle.ID)
	}
	return out.ChangeInfo.Status, nil
}

// trimZoneID strips the "/hostedzone/" prefix the list API prepends.
func trimZoneID(id string) string {
	return strings.TrimPrefix(id, "/hostedzone/")
}

func fromAPIRecordSet(rrset types.ResourceRecordSet) RecordSet {
	rs := RecordSet{
		Name:          normalizeName(aws.ToString(rrset.Name)),
		Type:          string(rrset.Type),
		SetIdentifier: copyString(rrset.SetIdentifier),
		TTL:           copyInt64(rrset.TTL),
		Weight:        copyInt64(rrset.Weight),
		HealthCheckID: copyString(rrset.HealthCheckId),
	}
	if rrset.Region != "" {
		region := string(rrset.Region)
		rs.Region = &region
	}
	if rrset.Failover != "" {
		failover := string(rrset.Failover)
		rs.Failover = &failover
	}
	for _, rr := range rrset.ResourceRecords {
		rs.Values = append(rs.Values, aws.ToString(rr.Value))
	}
	if rrset.AliasTarget != nil {
		rs.Alias = &AliasTarget{
			HostedZoneID:         aws.ToString(rrset.AliasTarget.HostedZoneId),
			DNSName:              normalizeName(aws.ToString(rrset.AliasTarget.DNSName)),
			EvaluateTargetHealth: rrset.AliasTarget.EvaluateTargetHealth,
		}
		// Alias and value shapes are mutually exclusive on the wire.
		rs.TTL = nil
		rs.Values = nil
	}
	if rs.Type == "CAA" {
		sortValues(&rs)
	}
	return rs
}

func toAPIRecordSet(rs *RecordSet) *types.ResourceRecordSet {
	out := &types.ResourceRecordSet{
		Name:          aws.String(rs.Name),
		Type:          types.RRType(rs.Type),
		SetIdentifier: copyString(rs.SetIdentifier),
		TTL:           copyInt64(rs.TTL),
		Weight:        copyInt64(rs.Weight),
		HealthCheckId: copyString(rs.HealthCheckID),
	}
	if rs.Region != nil {
		out.Region = types.ResourceRecordSetRegion(*rs.Region)
	}
	if rs.Failover != nil {
		out.Failover = types.ResourceRecordSetFailover(*rs.Failover)
	}
	for _, value := range rs.Values {
		out.ResourceRecords = append(out.ResourceRecords, types.ResourceRecord{Value: aws.String(value)})
	}
	if rs.Alias != nil {
		out.AliasTarget = &types.AliasTarget{
			HostedZoneId:         aws.String(rs.Alias.HostedZoneID),
			DNSName:              aws.String(rs.Alias.DNSName),
			EvaluateTargetHealth: rs.Alias.EvaluateTargetHealth,
		}
		out.TTL = nil
		out.ResourceRecords = nil
	}
	return out
}
