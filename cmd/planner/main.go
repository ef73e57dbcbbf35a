package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"route-order-service/internal/app"
	"route-order-service/internal/config"
	"route-order-service/internal/platform/graceful"
	"route-order-service/internal/platform/obs"
	"route-order-service/internal/services"
	"strings"

	"github.com/google/uuid"
)

// doneToken ends address entry.
const doneToken = "done"

// main reads addresses from the console, plans both tours and prints them.
// Any error terminates the run before a partial route is printed.
func main() {
	config.LoadDotEnv()

	if err := run(os.Stdin, os.Stdout); err != nil {
		log.Printf("planner: %v", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()
	ctx = obs.WithRequestID(ctx, uuid.NewString())

	provider, err := app.NewMatrixProvider(cfg)
	if err != nil {
		return err
	}

	labels, err := readAddresses(in, out)
	if err != nil {
		return err
	}

	plan, err := services.PlanRoutes(ctx, services.PlanRequest{
		Labels:      labels,
		APILimit:    cfg.APILimit,
		Concurrency: cfg.MatrixConcurrency,
	}, provider)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, services.RenderPlan(plan, cfg.DistanceUnit))
	return nil
}

// readAddresses prompts for one address per line until the done token or EOF.
// Blank lines are skipped.
func readAddresses(in io.Reader, out io.Writer) ([]string, error) {
	sc := bufio.NewScanner(in)
	var labels []string

	for {
		fmt.Fprintf(out, "Address %d: ", len(labels)+1)
		if !sc.Scan() {
			break
		}

		line := strings.TrimSpace(sc.Text())
		if line == doneToken {
			break
		}
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read addresses: %w", err)
	}
	return labels, nil
}
