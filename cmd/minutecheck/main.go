// Command minutecheck reconciles a notarial minute against client profiles
// from the command line.
//
// Usage:
//
//	minutecheck verify --minute minuta.txt --profiles perfis.json [--engine rules]
//	minutecheck qualify --profile perfil.json
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
