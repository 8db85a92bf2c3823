package route53

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

func fooZonePages() []*awssdk.ListHostedZonesOutput {
	return []*awssdk.ListHostedZonesOutput{
		{HostedZones: []types.HostedZone{hostedZone("Z1", "foo.com.", false)}},
	}
}

func newTestReconciler(stub *stubAPI) *Reconciler {
	r := NewReconciler(newStubClient(stub), ExecutorConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}, DefaultWaiterConfig())
	r.exec.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	r.waiter.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return r
}

func applyRequest() Request {
	return Request{
		Intent: IntentApply,
		Zone:   "foo.com",
		Record: "new.foo.com",
		Type:   "A",
		TTL:    7200,
		Values: []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"},
	}
}

func TestRunCreatesAbsentRecord(t *testing.T) {
	stub := &stubAPI{zonePages: fooZonePages()}
	result, err := newTestReconciler(stub).Run(context.Background(), applyRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Changed || result.Verb != VerbCreate {
		t.Fatalf("expected a create, got changed=%v verb=%s", result.Changed, result.Verb)
	}
	if len(stub.changeInputs) != 1 {
		t.Fatalf("expected one submission, got %d", len(stub.changeInputs))
	}
	change := stub.changeInputs[0].ChangeBatch.Changes[0]
	if change.Action != types.ChangeActionCreate {
		t.Fatalf("expected CREATE, got %s", change.Action)
	}
	if aws.ToString(change.ResourceRecordSet.Name) != "new.foo.com." {
		t.Fatalf("record name not normalized: %s", aws.ToString(change.ResourceRecordSet.Name))
	}
	if result.Before != nil || result.After == nil {
		t.Fatalf("create must report no before and a full after: %+v", result)
	}
}

func TestRunIdempotentApplyIsNoChange(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		recordPages: map[string][]*awssdk.ListResourceRecordSetsOutput{
			"Z1": {recordPage(false, "", apiRecordSet("new.foo.com.", "A", 7200, "1.1.1.1", "2.2.2.2", "3.3.3.3"))},
		},
	}
	result, err := newTestReconciler(stub).Run(context.Background(), applyRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Changed || result.Verb != VerbNoOp {
		t.Fatalf("identical desired state must be a noop, got changed=%v verb=%s", result.Changed, result.Verb)
	}
	if len(stub.changeInputs) != 0 {
		t.Fatal("noop must not submit a change")
	}
}

func TestRunConflictWithoutOverwrite(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		recordPages: map[string][]*awssdk.ListResourceRecordSetsOutput{
			"Z1": {recordPage(false, "", apiRecordSet("new.foo.com.", "A", 7200, "9.9.9.9"))},
		},
	}
	_, err := newTestReconciler(stub).Run(context.Background(), applyRequest())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(stub.changeInputs) != 0 {
		t.Fatal("conflict must never submit a change")
	}
}

func TestRunOverwriteUpserts(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		recordPages: map[string][]*awssdk.ListResourceRecordSetsOutput{
			"Z1": {recordPage(false, "", apiRecordSet("new.foo.com.", "A", 7200, "9.9.9.9"))},
		},
	}
	req := applyRequest()
	req.Overwrite = true
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Verb != VerbUpsert || !result.Changed {
		t.Fatalf("expected upsert, got verb=%s changed=%v", result.Verb, result.Changed)
	}
	if stub.changeInputs[0].ChangeBatch.Changes[0].Action != types.ChangeActionUpsert {
		t.Fatal("expected UPSERT action on the wire")
	}
	if result.Before == nil || result.Before.Values[0] != "9.9.9.9" {
		t.Fatalf("diff must carry the previous record: %+v", result.Before)
	}
}

func TestRunRemoveAbsentIsNoChange(t *testing.T) {
	stub := &stubAPI{zonePages: fooZonePages()}
	req := applyRequest()
	req.Intent = IntentRemove
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Changed {
		t.Fatal("removing an absent record must report no change")
	}
	if result.After != nil {
		t.Fatalf("a record that never existed has no after state: %+v", result.After)
	}
	if len(stub.changeInputs) != 0 {
		t.Fatal("no change may be submitted")
	}
}

func TestRunValidatesShapeBeforeProviderCalls(t *testing.T) {
	stub := &stubAPI{zonePages: fooZonePages()}
	req := applyRequest()
	weight := int64(5)
	req.Weight = &weight // no identifier: invalid routing policy
	_, err := newTestReconciler(stub).Run(context.Background(), req)
	if !errors.Is(err, ErrInvalidRoutingPolicy) {
		t.Fatalf("expected ErrInvalidRoutingPolicy, got %v", err)
	}
	if stub.zoneCalls != 0 {
		t.Fatalf("precondition failures must never reach the provider, got %d zone listings", stub.zoneCalls)
	}
}

func TestRunRemoveSubmitsDelete(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		recordPages: map[string][]*awssdk.ListResourceRecordSetsOutput{
			"Z1": {recordPage(false, "", apiRecordSet("new.foo.com.", "A", 7200, "1.1.1.1", "2.2.2.2", "3.3.3.3"))},
		},
	}
	req := applyRequest()
	req.Intent = IntentRemove
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Changed || result.Verb != VerbDelete {
		t.Fatalf("expected delete, got verb=%s changed=%v", result.Verb, result.Changed)
	}
	if result.After != nil {
		t.Fatal("delete must report an empty after state")
	}
	if stub.changeInputs[0].ChangeBatch.Changes[0].Action != types.ChangeActionDelete {
		t.Fatal("expected DELETE action on the wire")
	}
}

func TestRunDryRunSubmitsNothing(t *testing.T) {
	stub := &stubAPI{zonePages: fooZonePages()}
	req := applyRequest()
	req.DryRun = true
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Changed || result.Verb != VerbCreate {
		t.Fatalf("dry run still reports the planned change: %+v", result)
	}
	if len(stub.changeInputs) != 0 {
		t.Fatal("dry run must not submit a change")
	}
}

func TestRunWaitsForPropagation(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		statuses:  []types.ChangeStatus{types.ChangeStatusInsync},
	}
	req := applyRequest()
	req.Wait = true
	req.WaitTimeout = 30 * time.Second
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.statusCalls == 0 {
		t.Fatal("wait must poll the change status")
	}
	if result.Handle == nil {
		t.Fatal("result must carry the change handle")
	}
}

func TestRunGetReturnsSetAndNameservers(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		recordPages: map[string][]*awssdk.ListResourceRecordSetsOutput{
			"Z1": {recordPage(false, "",
				apiRecordSet("foo.com.", "NS", 172800, "ns-1.awsdns-00.com.", "ns-2.awsdns-01.net."),
				apiRecordSet("new.foo.com.", "A", 7200, "1.1.1.1"),
			)},
		},
	}
	req := Request{Intent: IntentGet, Zone: "foo.com", Record: "new.foo.com", Type: "A"}
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Set == nil || result.Set.Values[0] != "1.1.1.1" {
		t.Fatalf("expected the located record set, got %+v", result.Set)
	}
	if len(result.NameServers) != 2 || result.NameServers[0] != "ns-1.awsdns-00.com." {
		t.Fatalf("expected zone nameservers, got %v", result.NameServers)
	}
	if result.Changed {
		t.Fatal("get never changes anything")
	}
}

func TestRunGetNSRecordReturnsOwnValues(t *testing.T) {
	stub := &stubAPI{
		zonePages: fooZonePages(),
		recordPages: map[string][]*awssdk.ListResourceRecordSetsOutput{
			"Z1": {recordPage(false, "",
				apiRecordSet("sub.foo.com.", "NS", 300, "ns-a.example.com.", "ns-b.example.com."),
			)},
		},
	}
	req := Request{Intent: IntentGet, Zone: "foo.com", Record: "sub.foo.com", Type: "NS"}
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.NameServers) != 2 || result.NameServers[0] != "ns-a.example.com." {
		t.Fatalf("NS get must answer with the record's own values, got %v", result.NameServers)
	}
}

func TestRunVPCIDImpliesPrivateZone(t *testing.T) {
	stub := &stubAPI{
		zonePages: []*awssdk.ListHostedZonesOutput{
			{HostedZones: []types.HostedZone{
				hostedZone("Zpub", "foo.com.", false),
				hostedZone("Zpriv", "foo.com.", true),
			}},
		},
		details: map[string]*awssdk.GetHostedZoneOutput{
			"Zpriv": zoneDetail("Zpriv", "foo.com.", true, "vpc-1234"),
		},
	}
	req := applyRequest()
	req.VPCID = "vpc-1234"
	result, err := newTestReconciler(stub).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Zone.ID != "Zpriv" {
		t.Fatalf("vpc constraint must select the private zone, got %s", result.Zone.ID)
	}
}
