package record

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"r53ctl/internal/route53"
)

// supportedTypes are the record types Route 53 accepts for record sets.
var supportedTypes = map[string]struct{}{
	"A": {}, "AAAA": {}, "CAA": {}, "CNAME": {}, "MX": {}, "NS": {},
	"PTR": {}, "SOA": {}, "SPF": {}, "SRV": {}, "TXT": {},
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// mustGetStringFlag retrieves a string flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetStringFlag(cmd *cobra.Command, name string) string {
	val, _ := cmd.Flags().GetString(name)
	return val
}

// mustGetBoolFlag retrieves a bool flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetBoolFlag(cmd *cobra.Command, name string) bool {
	val, _ := cmd.Flags().GetBool(name)
	return val
}

// mustGetInt64Flag retrieves an int64 flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetInt64Flag(cmd *cobra.Command, name string) int64 {
	val, _ := cmd.Flags().GetInt64(name)
	return val
}

// mustGetIntFlag retrieves an int flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetIntFlag(cmd *cobra.Command, name string) int {
	val, _ := cmd.Flags().GetInt(name)
	return val
}

// mustGetDurationFlag retrieves a duration flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetDurationFlag(cmd *cobra.Command, name string) time.Duration {
	val, _ := cmd.Flags().GetDuration(name)
	return val
}

// mustGetStringSliceFlag retrieves a string slice flag value.
// Errors are ignored because cobra guarantees flags exist if they're defined.
func mustGetStringSliceFlag(cmd *cobra.Command, name string) []string {
	val, _ := cmd.Flags().GetStringSlice(name)
	return val
}

func loadEnvFromFlag(cmd *cobra.Command) error {
	path := mustGetStringFlag(cmd, "env")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// buildClient constructs the Route 53 client from flags with env fallbacks.
// Credentials default to the SDK's standard chain; static keys are only
// pinned when both halves are present in the environment.
func buildClient(cmd *cobra.Command) (*route53.Client, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(cmd.Context())

	cfg := route53.ClientConfig{
		Region:      mustGetStringFlag(cmd, "aws-region"),
		AccessKey:   os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		HTTPTimeout: mustGetDurationFlag(cmd, "http-timeout"),
	}
	if cfg.Region == "" {
		cfg.Region = getEnvWithDefault("AWS_REGION", "")
	}

	client, err := route53.NewClient(ctx, cfg)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return client, ctx, cancel, nil
}

// buildRequest maps command flags onto the validated pipeline request.
func buildRequest(cmd *cobra.Command, args []string, intent route53.Intent) (route53.Request, error) {
	req := route53.Request{
		Intent:        intent,
		Zone:          mustGetStringFlag(cmd, "zone"),
		HostedZoneID:  mustGetStringFlag(cmd, "hosted-zone-id"),
		Record:        strings.TrimSpace(args[0]),
		Type:          strings.ToUpper(mustGetStringFlag(cmd, "type")),
		SetIdentifier: mustGetStringFlag(cmd, "identifier"),
		PrivateZone:   mustGetBoolFlag(cmd, "private-zone"),
		VPCID:         mustGetStringFlag(cmd, "vpc-id"),
	}
	if req.Record == "" {
		return req, fmt.Errorf("record name cannot be empty")
	}
	if _, ok := supportedTypes[req.Type]; !ok {
		return req, fmt.Errorf("unsupported record type %q (see --help for the accepted types)", req.Type)
	}
	if req.Zone != "" && req.HostedZoneID != "" {
		return req, fmt.Errorf("supply either --zone or --hosted-zone-id, not both")
	}
	if intent == route53.IntentGet {
		return req, nil
	}

	req.TTL = mustGetInt64Flag(cmd, "ttl")
	req.Values = mustGetStringSliceFlag(cmd, "value")
	req.Alias = mustGetBoolFlag(cmd, "alias")
	req.AliasHostedZoneID = mustGetStringFlag(cmd, "alias-hosted-zone-id")
	req.EvaluateTargetHealth = mustGetBoolFlag(cmd, "evaluate-target-health")
	req.Region = mustGetStringFlag(cmd, "region")
	req.Failover = strings.ToUpper(mustGetStringFlag(cmd, "failover"))
	req.HealthCheckID = mustGetStringFlag(cmd, "health-check")
	req.Wait = mustGetBoolFlag(cmd, "wait")
	req.WaitTimeout = mustGetDurationFlag(cmd, "wait-timeout")
	req.DryRun = mustGetBoolFlag(cmd, "dry-run")
	if cmd.Flags().Changed("weight") {
		weight := mustGetInt64Flag(cmd, "weight")
		req.Weight = &weight
	}
	if len(req.Values) == 0 {
		return req, fmt.Errorf("at least one --value is required")
	}
	return req, nil
}

func executorConfig(cmd *cobra.Command) route53.ExecutorConfig {
	cfg := route53.DefaultExecutorConfig()
	cfg.MaxAttempts = mustGetIntFlag(cmd, "retry-attempts")
	cfg.BaseDelay = mustGetDurationFlag(cmd, "retry-interval")
	return cfg
}

func waiterConfig(cmd *cobra.Command) route53.WaiterConfig {
	cfg := route53.DefaultWaiterConfig()
	cfg.Timeout = mustGetDurationFlag(cmd, "wait-timeout")
	return cfg
}
