package route53

import (
	"context"
	"fmt"
	"strings"
)

// Reconciler drives one desired record set to convergence: resolve the zone,
// locate the existing set, build the canonical desired form, plan the verb,
// execute the change and optionally wait for propagation. Each run resolves
// zone and record state fresh; nothing is cached across invocations.
type Reconciler struct {
	client *Client
	exec   *Executor
	waiter *Waiter

	verbosity int
}

// NewReconciler assembles the pipeline with explicit executor and waiter
// configuration.
func NewReconciler(client *Client, execCfg ExecutorConfig, waitCfg WaiterConfig) *Reconciler {
	return &Reconciler{
		client: client,
		exec:   NewExecutor(client, execCfg),
		waiter: NewWaiter(client, waitCfg),
	}
}

// SetVerbosity sets the logging verbosity level (0=quiet, 1=normal, 2=verbose).
func (r *Reconciler) SetVerbosity(level int) {
	r.verbosity = level
}

func (r *Reconciler) logVerbose(format string, args ...interface{}) {
	if r.verbosity >= 2 {
		fmt.Printf("[VERBOSE] "+format+"\n", args...)
	}
}

// Run executes one reconciliation. Shape preconditions are pure and fail
// before the first provider call; resolution, location and plan errors
// short-circuit before any mutating call; only the executor and the waiter
// retry, and a failed mutation is never retried as a different verb.
func (r *Reconciler) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Intent == IntentGet {
		zone, err := r.resolveZone(ctx, req)
		if err != nil {
			return nil, err
		}
		r.logVerbose("resolved zone %s to %s", zone.Name, zone.ID)
		return r.get(ctx, req, zone)
	}

	desired, err := BuildRecordSet(req)
	if err != nil {
		return nil, err
	}

	zone, err := r.resolveZone(ctx, req)
	if err != nil {
		return nil, err
	}
	r.logVerbose("resolved zone %s to %s", zone.Name, zone.ID)

	var identifier *string
	if req.SetIdentifier != "" {
		identifier = &req.SetIdentifier
	}
	current, err := r.client.LocateRecordSet(ctx, zone.ID, desired.Name, desired.Type, identifier)
	if err != nil {
		return nil, err
	}
	r.logVerbose("located existing record: %v", current != nil)

	plan := BuildPlan(req.Intent, desired, current, req.Overwrite)
	r.logVerbose("planned verb %s", plan.Verb)

	result := &Result{
		Verb:        plan.Verb,
		Zone:        *zone,
		Before:      plan.Current,
		Differences: plan.Differences,
	}
	// A remove leaves nothing behind either way: a delete empties the live
	// set, and a noop means the set never existed.
	if req.Intent != IntentRemove {
		result.After = plan.Desired
	}

	switch plan.Verb {
	case VerbNoOp:
		return result, nil
	case VerbConflict:
		return nil, fmt.Errorf("%w: %s %s", ErrConflict, desired.Type, strings.TrimSuffix(desired.Name, "."))
	}

	result.Changed = true
	if req.DryRun {
		return result, nil
	}

	handle, outcome, err := r.exec.Execute(ctx, zone.ID, plan)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeNoOpIdempotent {
		result.Changed = false
		return result, nil
	}
	result.Handle = handle

	if req.Wait {
		waiter := r.waiter
		if req.WaitTimeout > 0 {
			cfg := waiter.cfg
			cfg.Timeout = req.WaitTimeout
			waiter = NewWaiter(r.client, cfg)
		}
		if err := waiter.Wait(ctx, handle); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Reconciler) get(ctx context.Context, req Request, zone *Zone) (*Result, error) {
	name := normalizeName(req.Record)
	var identifier *string
	if req.SetIdentifier != "" {
		identifier = &req.SetIdentifier
	}
	current, err := r.client.LocateRecordSet(ctx, zone.ID, name, req.Type, identifier)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Verb: VerbNoOp,
		Zone: *zone,
		Set:  current,
	}
	if req.Type == "NS" && current != nil {
		// The record's own values already are the nameserver answer.
		result.NameServers = append([]string{}, current.Values...)
		return result, nil
	}
	ns, err := r.client.NameServers(ctx, zone)
	if err != nil {
		return nil, err
	}
	result.NameServers = ns
	return result, nil
}

func (r *Reconciler) resolveZone(ctx context.Context, req Request) (*Zone, error) {
	private := req.PrivateZone
	if req.VPCID != "" {
		private = true
	}
	switch {
	case req.HostedZoneID != "":
		return r.client.ResolveZone(ctx, ZoneQuery{ID: req.HostedZoneID})
	case req.Zone != "":
		return r.client.ResolveZone(ctx, ZoneQuery{Name: req.Zone, Private: private, VPCID: req.VPCID})
	default:
		return r.client.ResolveZoneForRecord(ctx, req.Record, private, req.VPCID)
	}
}
