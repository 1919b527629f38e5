// Package main implements the stmbench CLI tool.
//
// stmbench drives concurrent transactional workloads through the itm
// barrier surface backed by the orec STM, then verifies the results. It
// exercises aligned, unaligned and subword accesses that share words, and
// nested scopes that are cancelled.
//
// Usage:
//
//	stmbench run --workers 8 --iterations 100000
//	stmbench run --watchdog-interval 5ms --sample-rate 1000
//	stmbench run --metrics-addr :9090 --log-fmt json
//	stmbench info
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
