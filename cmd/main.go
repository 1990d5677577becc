package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/angeloszaimis/readiness-gate/config"
	"github.com/angeloszaimis/readiness-gate/internal/poller"
	"github.com/angeloszaimis/readiness-gate/internal/probe"
	"github.com/angeloszaimis/readiness-gate/internal/resolver"
	"github.com/angeloszaimis/readiness-gate/internal/resolver/cloudformation"
	"github.com/angeloszaimis/readiness-gate/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("run failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readiness-gate [region] <stack_name>",
		Short: "Wait until a deployed stack's service answers its health endpoint",
		Long: `readiness-gate resolves a deployed service's base endpoint from its stack
outputs and polls the health and swagger paths with capped exponential
backoff until one answers 200 or the attempt budget runs out.

Running out of attempts still exits 0: the downstream smoke test owns the
hard verdict. Only a missing stack name or a failed endpoint resolution
exits 1.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			region, stackName := splitArgs(args)
			return run(cmd.Context(), region, stackName)
		},
	}
}

// splitArgs maps the positional arguments. With a single argument only the
// stack name is given and the region falls back to its configured default.
func splitArgs(args []string) (region, stackName string) {
	if len(args) == 1 {
		return "", args[0]
	}
	return args[0], args[1]
}

func run(ctx context.Context, region, stackName string) error {
	cfg, err := config.Load(region, stackName)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		return err
	}

	log := logger.New(cfg.Logging.Level, false, cfg.Environment)

	outputs, err := cloudformation.New(ctx)
	if err != nil {
		log.Error("Failed to create CloudFormation client", slog.Any("err", err))
		return err
	}

	res, err := resolver.New(resolver.Config{
		Region:      cfg.Deployment.Region,
		StackName:   cfg.Deployment.StackName,
		OutputKey:   cfg.Resolver.OutputKey,
		FallbackKey: cfg.Resolver.FallbackOutputKey,
	}, outputs, log)
	if err != nil {
		log.Error("Failed to create resolver", slog.Any("err", err))
		return err
	}

	endpoint, err := res.Resolve(ctx)
	if err != nil {
		log.Error("Failed to resolve endpoint",
			slog.String("stack", cfg.Deployment.StackName),
			slog.Any("err", err))
		return err
	}

	p, err := buildPoller(cfg, log)
	if err != nil {
		log.Error("Failed to create poller", slog.Any("err", err))
		return err
	}

	outcome := p.Poll(ctx, endpoint)
	printSummary(outcome, endpoint)

	// Exhaustion is deliberately not a process failure: the downstream
	// smoke test owns the hard verdict.
	return nil
}

func buildPoller(cfg *config.Config, log *slog.Logger) (*poller.Poller, error) {
	initialDelay, err := time.ParseDuration(cfg.Poll.InitialDelay)
	if err != nil {
		return nil, err
	}

	maxDelay, err := time.ParseDuration(cfg.Poll.MaxDelay)
	if err != nil {
		return nil, err
	}

	connectTimeout, err := time.ParseDuration(cfg.Probe.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	totalTimeout, err := time.ParseDuration(cfg.Probe.TotalTimeout)
	if err != nil {
		return nil, err
	}

	prober := probe.New(probe.Config{
		ConnectTimeout: connectTimeout,
		TotalTimeout:   totalTimeout,
	})

	return poller.New(poller.Config{
		Targets:      poller.DefaultTargets,
		MaxAttempts:  cfg.Poll.MaxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
	}, prober, log)
}

func printSummary(outcome poller.Outcome, endpoint string) {
	if outcome.Healthy() {
		color.Green("service at %s is ready: %s returned %d after %d attempt(s)",
			endpoint, outcome.Target.Name, outcome.StatusCode, outcome.Attempts)
		return
	}

	color.Yellow("service at %s never answered after %d attempts; continuing without blocking the pipeline",
		endpoint, outcome.Attempts)
}
