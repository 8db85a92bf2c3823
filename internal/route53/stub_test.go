package route53

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// stubAPI is an in-memory provider used by every component test. Paginated
// listings are modeled as explicit pages so drain behavior is observable.
type stubAPI struct {
	zonePages []*awssdk.ListHostedZonesOutput
	zoneCalls int

	details     map[string]*awssdk.GetHostedZoneOutput
	detailCalls int

	recordPages map[string][]*awssdk.ListResourceRecordSetsOutput
	recordCalls map[string]int

	changeFn     func(input *awssdk.ChangeResourceRecordSetsInput) (*awssdk.ChangeResourceRecordSetsOutput, error)
	changeInputs []*awssdk.ChangeResourceRecordSetsInput

	statuses    []types.ChangeStatus
	statusCalls int
}

func (s *stubAPI) ListHostedZones(ctx context.Context, params *awssdk.ListHostedZonesInput, optFns ...func(*awssdk.Options)) (*awssdk.ListHostedZonesOutput, error) {
	if len(s.zonePages) == 0 {
		s.zoneCalls++
		return &awssdk.ListHostedZonesOutput{}, nil
	}
	page := s.zonePages[s.zoneCalls%len(s.zonePages)]
	s.zoneCalls++
	return page, nil
}

func (s *stubAPI) GetHostedZone(ctx context.Context, params *awssdk.GetHostedZoneInput, optFns ...func(*awssdk.Options)) (*awssdk.GetHostedZoneOutput, error) {
	s.detailCalls++
	detail, ok := s.details[aws.ToString(params.Id)]
	if !ok {
		return nil, &types.NoSuchHostedZone{Message: aws.String("no such hosted zone")}
	}
	return detail, nil
}

func (s *stubAPI) ListResourceRecordSets(ctx context.Context, params *awssdk.ListResourceRecordSetsInput, optFns ...func(*awssdk.Options)) (*awssdk.ListResourceRecordSetsOutput, error) {
	zoneID := aws.ToString(params.HostedZoneId)
	pages := s.recordPages[zoneID]
	if s.recordCalls == nil {
		s.recordCalls = make(map[string]int)
	}
	if len(pages) == 0 {
		s.recordCalls[zoneID]++
		return &awssdk.ListResourceRecordSetsOutput{}, nil
	}
	call := s.recordCalls[zoneID] % len(pages)
	s.recordCalls[zoneID]++
	return pages[call], nil
}

func (s *stubAPI) ChangeResourceRecordSets(ctx context.Context, params *awssdk.ChangeResourceRecordSetsInput, optFns ...func(*awssdk.Options)) (*awssdk.ChangeResourceRecordSetsOutput, error) {
	s.changeInputs = append(s.changeInputs, params)
	if s.changeFn != nil {
		return s.changeFn(params)
	}
	return &awssdk.ChangeResourceRecordSetsOutput{
		ChangeInfo: &types.ChangeInfo{
			Id:     aws.String(fmt.Sprintf("/change/C%04d", len(s.changeInputs))),
			Status: types.ChangeStatusPending,
		},
	}, nil
}

func (s *stubAPI) GetChange(ctx context.Context, params *awssdk.GetChangeInput, optFns ...func(*awssdk.Options)) (*awssdk.GetChangeOutput, error) {
	status := types.ChangeStatusPending
	if s.statusCalls < len(s.statuses) {
		status = s.statuses[s.statusCalls]
	} else if len(s.statuses) > 0 {
		status = s.statuses[len(s.statuses)-1]
	}
	s.statusCalls++
	return &awssdk.GetChangeOutput{
		ChangeInfo: &types.ChangeInfo{Id: params.Id, Status: status},
	}, nil
}

func newStubClient(stub *stubAPI) *Client {
	return &Client{api: stub}
}

func hostedZone(id, name string, private bool) types.HostedZone {
	return types.HostedZone{
		Id:     aws.String("/hostedzone/" + id),
		Name:   aws.String(name),
		Config: &types.HostedZoneConfig{PrivateZone: private},
	}
}

func zoneDetail(id, name string, private bool, vpcIDs ...string) *awssdk.GetHostedZoneOutput {
	out := &awssdk.GetHostedZoneOutput{
		HostedZone: &types.HostedZone{
			Id:     aws.String("/hostedzone/" + id),
			Name:   aws.String(name),
			Config: &types.HostedZoneConfig{PrivateZone: private},
		},
	}
	for _, vpcID := range vpcIDs {
		out.VPCs = append(out.VPCs, types.VPC{VPCId: aws.String(vpcID)})
	}
	return out
}

func apiRecordSet(name, recordType string, ttl int64, values ...string) types.ResourceRecordSet {
	rrset := types.ResourceRecordSet{
		Name: aws.String(name),
		Type: types.RRType(recordType),
		TTL:  aws.Int64(ttl),
	}
	for _, value := range values {
		rrset.ResourceRecords = append(rrset.ResourceRecords, types.ResourceRecord{Value: aws.String(value)})
	}
	return rrset
}

func recordPage(truncated bool, nextName string, rrsets ...types.ResourceRecordSet) *awssdk.ListResourceRecordSetsOutput {
	out := &awssdk.ListResourceRecordSetsOutput{
		ResourceRecordSets: rrsets,
		IsTruncated:        truncated,
	}
	if truncated {
		out.NextRecordName = aws.String(nextName)
	}
	return out
}
