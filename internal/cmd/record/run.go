package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"r53ctl/internal/route53"
)

func runApply(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}
	req, err := buildRequest(cmd, args, route53.IntentApply)
	if err != nil {
		return err
	}
	req.Overwrite = mustGetBoolFlag(cmd, "overwrite")

	client, ctx, cancel, err := buildClient(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	reconciler := newReconciler(cmd, client)
	result, err := reconciler.Run(ctx, req)

	// An existing record with different values is a conflict unless the
	// caller allowed overwriting. Offer to upgrade to an upsert when the
	// session is interactive and --yes was not forced.
	if errors.Is(err, route53.ErrConflict) && !req.Overwrite && !mustGetBoolFlag(cmd, "yes") {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Record %s %s already exists with a different value. Overwrite it?", req.Type, req.Record),
		}
		if askErr := survey.AskOne(prompt, &confirmed); askErr != nil || !confirmed {
			return err
		}
		req.Overwrite = true
		result, err = reconciler.Run(ctx, req)
	}
	if err != nil {
		return err
	}

	return reportChange(cmd, result)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}
	req, err := buildRequest(cmd, args, route53.IntentRemove)
	if err != nil {
		return err
	}

	if !mustGetBoolFlag(cmd, "yes") && !req.DryRun {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Delete record %s %s?", req.Type, req.Record),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return errors.New("refusing to delete without --yes; rerun with --dry-run to preview")
		}
		if !confirmed {
			return errors.New("delete aborted")
		}
	}

	client, ctx, cancel, err := buildClient(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	result, err := newReconciler(cmd, client).Run(ctx, req)
	if err != nil {
		return err
	}
	return reportChange(cmd, result)
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := loadEnvFromFlag(cmd); err != nil {
		return err
	}
	req, err := buildRequest(cmd, args, route53.IntentGet)
	if err != nil {
		return err
	}

	client, ctx, cancel, err := buildClient(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	result, err := route53.NewReconciler(client, route53.DefaultExecutorConfig(), route53.DefaultWaiterConfig()).Run(ctx, req)
	if err != nil {
		return err
	}

	if result.Set == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No record set matches %s %s\n", req.Type, req.Record)
	}
	content, err := route53.EncodeResult(result, strings.ToLower(mustGetStringFlag(cmd, "format")), mustGetBoolFlag(cmd, "pretty"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(content))
	return nil
}

func newReconciler(cmd *cobra.Command, client *route53.Client) *route53.Reconciler {
	reconciler := route53.NewReconciler(client, executorConfig(cmd), waiterConfig(cmd))
	if viper.GetBool("verbose") {
		reconciler.SetVerbosity(2)
	}
	return reconciler
}

// reportChange prints a one-line summary plus the optional plan artifacts.
func reportChange(cmd *cobra.Command, result *route53.Result) error {
	switch {
	case !result.Changed:
		fmt.Fprintf(cmd.OutOrStdout(), "No change: %s already converged\n", describeRecord(result))
	case result.Verb == route53.VerbDelete:
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", describeRecord(result))
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s (%s)\n", describeRecord(result), result.Verb)
	}

	plan := &route53.ChangePlan{
		Verb:        result.Verb,
		Desired:     result.After,
		Current:     result.Before,
		Differences: result.Differences,
	}
	if mustGetBoolFlag(cmd, "print-plan") {
		content, err := route53.EncodePlan(plan, mustGetStringFlag(cmd, "plan-format"), mustGetBoolFlag(cmd, "plan-pretty"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(content))
	}
	if output := mustGetStringFlag(cmd, "plan-output"); output != "" {
		if err := route53.SavePlan(plan, output, mustGetStringFlag(cmd, "plan-format"), mustGetBoolFlag(cmd, "plan-pretty")); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Plan saved to %s\n", output)
	}
	return nil
}

func describeRecord(result *route53.Result) string {
	rs := result.After
	if rs == nil {
		rs = result.Before
	}
	if rs == nil {
		return "record set"
	}
	return fmt.Sprintf("%s %s in zone %s", rs.Type, strings.TrimSuffix(rs.Name, "."), strings.TrimSuffix(result.Zone.Name, "."))
}
