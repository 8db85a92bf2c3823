package route53

import "time"

// BuildPlan compares the desired record set against the located one and
// decides the mutation verb.
//
//	intent  | current absent | current equal | current differs
//	apply   | create         | noop          | upsert, or conflict without overwrite
//	remove  | noop           | delete        | delete
//
// A remove with values that do not match the live set exactly is submitted
// as-is; Route 53 rejects the mismatch server-side, which is the documented
// caller responsibility. The planner never silently overwrites: conflict is
// a distinct verb surfaced to the caller.
func BuildPlan(intent Intent, desired, current *RecordSet, overwrite bool) *ChangePlan {
	plan := &ChangePlan{
		Desired:   cloneRecordSet(desired),
		Current:   cloneRecordSet(current),
		Generated: time.Now().UTC(),
	}

	switch intent {
	case IntentRemove:
		if current == nil {
			plan.Verb = VerbNoOp
			return plan
		}
		plan.Verb = VerbDelete
		return plan
	default:
		if current == nil {
			plan.Verb = VerbCreate
			return plan
		}
		if recordSetsEqual(desired, current) {
			plan.Verb = VerbNoOp
			return plan
		}
		plan.Differences = diffRecordSets(desired, current)
		if !overwrite {
			plan.Verb = VerbConflict
			return plan
		}
		plan.Verb = VerbUpsert
		return plan
	}
}
