// Command tripplanner is the CLI entrypoint for the travel-planning graph:
// it wires configuration, oracle providers, data sources, a checkpoint
// store, and the session.Manager together, then drives one of three
// subcommands (plan, resume, stream) from the command line. It is the first
// and only Session API consumer in this repository; no HTTP boundary is
// wired here.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/config"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/store"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle/anthropic"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle/google"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle/openai"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/session"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/tracing"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/workflow"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		runPlan(os.Args[2:])
	case "resume":
		runResume(os.Args[2:])
	case "stream":
		runStream(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tripplanner <plan|resume|stream> [flags]")
	fmt.Fprintln(os.Stderr, "  plan    -request \"...\" [-config path]")
	fmt.Fprintln(os.Stderr, "  resume  -session ID -answers path.json [-config path]")
	fmt.Fprintln(os.Stderr, "  stream  -request \"...\" [-config path]")
}

// buildManager loads configuration at configPath and constructs a
// session.Manager wired to real providers: the two oracle tiers, Google
// Places, the bundled price/review scrapers, and the configured checkpoint
// store backend. If metricsAddr is non-empty, a Prometheus registry is
// wired into the engine via graph.WithMetrics and exposed over HTTP on that
// address.
func buildManager(configPath, metricsAddr string) (*session.Manager, *session.FanoutEmitter, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("loading config: %w", err)
	}

	capable := newOracle(cfg.Providers.Capable.Name, cfg.APIKey(cfg.Providers.Capable.Name), cfg.Providers.Capable.Model)
	efficient := newOracle(cfg.Providers.Efficient.Name, cfg.APIKey(cfg.Providers.Efficient.Name), cfg.Providers.Efficient.Model)

	st, err := buildStore(cfg.Store)
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("opening store: %w", err)
	}

	// Every oracle and data-source call crosses the tracing boundary. With
	// no exporter configured, otel.Tracer resolves to the no-op global
	// provider, so this costs nothing until an application wires a real
	// TracerProvider via otel.SetTracerProvider.
	tracer := otel.Tracer("tripplanner")
	deps := workflow.Dependencies{
		Oracles: oracle.Pool{
			Capable:   tracing.WrapOracle(tracer, "capable", capable),
			Efficient: tracing.WrapOracle(tracer, "efficient", efficient),
			Tiers:     cfg.Tiers(),
		},
		Places:        tracing.WrapPlaces(tracer, datasource.NewGooglePlaces(cfg.GoogleMapsAPIKey())),
		Scrapers:      tracing.WrapScraperSource(tracer, workflow.NewDefaultScraperSource()),
		FanoutCap:     cfg.ConcurrencyFanout,
		MaxGraphSteps: cfg.MaxGraphSteps,
	}

	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		deps.Metrics = graph.NewPrometheusMetrics(registry)
		go serveMetrics(metricsAddr, registry)
	}

	emitter := session.NewFanoutEmitter()
	engine, err := workflow.Build(deps, st, emitter)
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("building workflow: %w", err)
	}

	return session.NewManager(engine, st, emitter), emitter, cfg, nil
}

func newOracle(provider, apiKey, model string) oracle.Oracle {
	switch provider {
	case "openai":
		return openai.New(apiKey, model)
	case "google":
		return google.New(apiKey, model)
	default:
		return anthropic.New(apiKey, model)
	}
}

func buildStore(cfg config.StoreConfig) (store.Store[trip.State], error) {
	switch cfg.Backend {
	case "sqlite":
		return store.NewSQLiteStore[trip.State](cfg.DSN)
	case "mysql":
		return store.NewMySQLStore[trip.State](cfg.DSN)
	default:
		return store.NewMemStore[trip.State](), nil
	}
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	log.Printf("metrics listening on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}

func runPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	request := fs.String("request", "", "free-text trip request")
	configPath := fs.String("config", "", "path to YAML config file")
	metricsAddr := fs.String("metrics-addr", "", "if set, expose Prometheus metrics on this address (e.g. :9090)")
	fs.Parse(args)

	if *request == "" {
		log.Fatal("plan: -request is required")
	}

	mgr, _, _, err := buildManager(*configPath, *metricsAddr)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}

	result, err := mgr.StartSession(context.Background(), *request)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}
	printResult(result)
}

func runResume(args []string) {
	fs := flag.NewFlagSet("resume", flag.ExitOnError)
	sessionID := fs.String("session", "", "session ID returned by a prior plan/resume call")
	answersPath := fs.String("answers", "", "path to a JSON file mapping question ID to answer text")
	configPath := fs.String("config", "", "path to YAML config file")
	metricsAddr := fs.String("metrics-addr", "", "if set, expose Prometheus metrics on this address")
	fs.Parse(args)

	if *sessionID == "" || *answersPath == "" {
		log.Fatal("resume: -session and -answers are required")
	}

	raw, err := os.ReadFile(*answersPath)
	if err != nil {
		log.Fatalf("resume: reading answers file: %v", err)
	}
	var answers map[string]string
	if err := json.Unmarshal(raw, &answers); err != nil {
		log.Fatalf("resume: parsing answers file: %v", err)
	}

	mgr, _, _, err := buildManager(*configPath, *metricsAddr)
	if err != nil {
		log.Fatalf("resume: %v", err)
	}

	result, err := mgr.ResumeSession(context.Background(), *sessionID, answers)
	if err != nil {
		log.Fatalf("resume: %v", err)
	}
	printResult(result)
}

// runStream plans a fresh session and prints every node_start/node_end
// event recorded for it before printing the final result. StartSession
// mints its session ID internally and only returns it once the run reaches
// a terminal status, so there is no session ID to subscribe a live
// StreamSession channel against before the first node fires; the recorded
// history serves the same purpose without that race. -session is accepted
// for symmetry with the Session API's StreamSession(sessionID) signature
// and is otherwise unused by this subcommand.
func runStream(args []string) {
	fs := flag.NewFlagSet("stream", flag.ExitOnError)
	request := fs.String("request", "", "free-text trip request")
	_ = fs.String("session", "", "unused placeholder for Session API symmetry")
	configPath := fs.String("config", "", "path to YAML config file")
	metricsAddr := fs.String("metrics-addr", "", "if set, expose Prometheus metrics on this address")
	fs.Parse(args)

	if *request == "" {
		log.Fatal("stream: -request is required")
	}

	mgr, emitter, _, err := buildManager(*configPath, *metricsAddr)
	if err != nil {
		log.Fatalf("stream: %v", err)
	}

	result, err := mgr.StartSession(context.Background(), *request)
	if err != nil {
		log.Fatalf("stream: %v", err)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, event := range emitter.GetHistory(result.SessionID) {
		fmt.Fprintf(w, "[%s] %s\n", event.Msg, event.NodeID)
	}
	w.Flush()

	printResult(result)
}

func printResult(r session.Result) {
	fmt.Printf("session: %s\n", r.SessionID)
	fmt.Printf("status:  %s\n", r.Status)

	switch r.Status {
	case session.StatusSuspended:
		fmt.Println("clarification needed:")
		for _, q := range r.Questions {
			fmt.Printf("  [%s] %s\n", q.ID, q.Text)
		}
	case session.StatusCompleted:
		if r.Output != nil {
			fmt.Printf("title:   %s\n", r.Output.TripTitle)
			fmt.Printf("cities:  %s\n", strings.Join(r.Output.CitiesVisited, ", "))
			fmt.Printf("cost:    $%.2f %s\n", r.Output.TotalEstimatedCostUSD, r.Output.BudgetBreakdown.Currency)
		}
	case session.StatusFailed:
		fmt.Printf("error:   %v\n", r.Err)
	}
}
