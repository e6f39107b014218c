package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app"
	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/options"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		klog.Info("Received shutdown signal")
		cancel()
	}()

	opts := options.NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	if err := opts.Validate(); err != nil {
		klog.Fatalf("Invalid options: %v", err)
	}

	c, err := opts.Config()
	if err != nil {
		klog.Fatalf("Failed to create config: %v", err)
	}

	stub, err := app.NewBuilder().
		WithConfig(c).
		WithGlobalMiddleware(app.RequestLoggerFactory).
		Build()
	if err != nil {
		klog.Fatalf("Failed to build application: %v", err)
	}

	if err := stub.Run(ctx); err != nil {
		klog.Fatalf("Application failed: %v", err)
	}
}
