package record

import (
	"time"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "record",
	Short: "Reconcile DNS record sets in Route 53 hosted zones",
	Long: `Manage individual Route 53 record sets.

Use 'apply' to create or converge a record set, 'delete' to remove one, and
'get' to inspect the live record set and the zone's nameservers. 'apply'
supports --dry-run to preview the planned change without submitting it.`,
}

var applyCmd = &cobra.Command{
	Use:   "apply [record]",
	Short: "Create or converge a record set",
	Long: `Create the record set if absent, report no change when the live set already
matches, or replace it when --overwrite is given. Without --overwrite a
differing live record is a conflict, never a silent replace.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [record]",
	Short: "Delete a record set",
	Long: `Delete the record set matching the supplied name, type and values. All
values of the live record must be specified or Route 53 will refuse the
delete. Deleting an absent record reports no change.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var getCmd = &cobra.Command{
	Use:   "get [record]",
	Short: "Show the live record set and zone nameservers",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	for _, sub := range []*cobra.Command{applyCmd, deleteCmd, getCmd} {
		sub.Flags().String("zone", "", "zone name to modify (derived from the record name when omitted)")
		sub.Flags().String("hosted-zone-id", "", "hosted zone ID, bypasses zone name resolution")
		sub.Flags().String("type", "", "record type (A, AAAA, CAA, CNAME, MX, NS, PTR, SOA, SPF, SRV, TXT)")
		sub.Flags().Bool("private-zone", false, "match the private zone instead of the public one")
		sub.Flags().String("vpc-id", "", "only match the private zone associated with this VPC")
		sub.Flags().String("identifier", "", "set identifier for weighted, latency or failover record sets")
		sub.Flags().String("aws-region", "", "AWS region for the API client (defaults to AWS_REGION)")
		sub.Flags().Duration("http-timeout", 0, "per-request HTTP timeout for the Route 53 API")
		sub.Flags().String("env", "", "path to a .env file with AWS credentials")
		sub.MarkFlagRequired("type")
	}

	for _, sub := range []*cobra.Command{applyCmd, deleteCmd} {
		sub.Flags().Int64("ttl", 3600, "TTL in seconds (mutually exclusive with --alias)")
		sub.Flags().StringSlice("value", nil, "record value; repeat for multiple values")
		sub.Flags().Bool("alias", false, "treat the single value as an alias target DNS name")
		sub.Flags().String("alias-hosted-zone-id", "", "hosted zone ID of the alias target")
		sub.Flags().Bool("evaluate-target-health", false, "evaluate the alias target's health")
		sub.Flags().Int64("weight", 0, "weighted routing weight (requires --identifier)")
		sub.Flags().String("region", "", "latency routing region (requires --identifier)")
		sub.Flags().String("failover", "", "failover routing role: PRIMARY or SECONDARY (requires --identifier)")
		sub.Flags().String("health-check", "", "health check ID to associate with the record set")
		sub.Flags().Bool("wait", false, "block until the change reaches INSYNC")
		sub.Flags().Duration("wait-timeout", 300*time.Second, "how long to wait for propagation")
		sub.Flags().Duration("retry-interval", 500*time.Millisecond, "base delay for retrying throttled submissions")
		sub.Flags().Int("retry-attempts", 10, "maximum change submission attempts")
		sub.Flags().Bool("dry-run", false, "compute and report the plan without submitting it")
		sub.Flags().Bool("yes", false, "skip interactive confirmation prompts")
		sub.Flags().String("plan-output", "", "write the computed plan to this file")
		sub.Flags().String("plan-format", "", "plan file format: json or yaml (inferred from extension when empty)")
		sub.Flags().Bool("plan-pretty", false, "indent JSON plan output")
		sub.Flags().Bool("print-plan", false, "print the computed plan before applying")
	}

	applyCmd.Flags().Bool("overwrite", false, "replace an existing record set whose values differ")

	getCmd.Flags().String("format", "json", "output format: json or yaml")
	getCmd.Flags().Bool("pretty", true, "indent JSON output")

	Cmd.AddCommand(applyCmd, deleteCmd, getCmd)
}
