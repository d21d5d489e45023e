// Package workflow wires the travel-planning nodes into a graph.Engine and
// implements each node's logic.
//
// The graph is intentionally a single-threaded cooperative chain at the
// graph-execution level (no runConcurrent/Frontier fan-out between nodes);
// the two places that need real parallelism — research's per-city gathering
// and the price scraper's per-segment gathering — run bounded fan-out
// internally inside one node, using a semaphore channel and a WaitGroup,
// rather than the engine's generic concurrent scheduler.
package workflow

import (
	"time"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/cache"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/emit"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/store"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// MaxReplanIterations bounds the critic's replan loop; at this many
// iterations the critic force-approves instead of requesting another
// replan, regardless of remaining issues.
const MaxReplanIterations = 3

// Dependencies bundles everything a worker node needs beyond the state it's
// handed: oracle access (tiered by worker), data sources, and a cache. A
// single Dependencies value is shared (read-only) by every node instance.
type Dependencies struct {
	Oracles   oracle.Pool
	Places    PlacesSource
	Scrapers  ScraperSource
	Cache     cache.Cache
	FanoutCap int
	// MaxGraphSteps bounds total node executions per run (clarification
	// through finalize, counting every replan pass through planner..critic).
	// Defaults to 40 if unset.
	MaxGraphSteps int
	// Metrics, if set, is wired into the engine via graph.WithMetrics so
	// every node execution reports step latency, retries, and concurrency
	// gauges.
	Metrics *graph.PrometheusMetrics
}

// Build constructs the travel-planning graph.Engine, wiring all ten nodes
// and the engine's built-in checkpoint store/metrics. The returned engine is
// ready for Run/ResumeFromCheckpoint once a runID is chosen by the caller
// (session.Manager).
func Build(deps Dependencies, st store.Store[trip.State], emitter emit.Emitter) (*graph.Engine[trip.State], error) {
	fanoutCap := deps.FanoutCap
	if fanoutCap <= 0 {
		fanoutCap = 4
	}
	deps.FanoutCap = fanoutCap
	dataCache := deps.Cache
	if dataCache == nil {
		dataCache = cache.NewMemCache(10 * time.Minute)
	}

	maxSteps := deps.MaxGraphSteps
	if maxSteps <= 0 {
		maxSteps = 40
	}
	opts := graph.Options{
		MaxSteps:           maxSteps,
		DefaultNodeTimeout: 2 * time.Minute,
		RunWallClockBudget: 20 * time.Minute,
	}
	var e *graph.Engine[trip.State]
	if deps.Metrics != nil {
		e = graph.New[trip.State](trip.Reduce, st, emitter, opts, graph.WithMetrics(deps.Metrics))
	} else {
		e = graph.New[trip.State](trip.Reduce, st, emitter, opts)
	}

	nodes := map[string]graph.Node[trip.State]{
		"clarification":    &ClarificationNode{},
		"process_answers":  &ProcessAnswersNode{},
		"planner":          &PlannerNode{Oracle: deps.Oracles.For("planner")},
		"geography":        &GeographyNode{Oracle: deps.Oracles.For("geography")},
		"research":         &ResearchNode{Oracle: deps.Oracles.For("research"), Places: deps.Places, Cache: dataCache, FanoutCap: fanoutCap},
		"food_culture":     &FoodCultureNode{Oracle: deps.Oracles.For("food_culture"), Places: deps.Places, Scrapers: deps.Scrapers, Cache: dataCache},
		"price_scraper":    &PriceScraperNode{Scrapers: deps.Scrapers, Cache: dataCache, FanoutCap: fanoutCap},
		"transport_budget": &TransportBudgetNode{Oracle: deps.Oracles.For("transport_budget")},
		"critic":           &CriticNode{Oracle: deps.Oracles.For("critic")},
		"finalize":         &FinalizeNode{},
	}
	for id, n := range nodes {
		if err := e.Add(id, n); err != nil {
			return nil, err
		}
	}
	if err := e.StartAt("clarification"); err != nil {
		return nil, err
	}
	return e, nil
}
