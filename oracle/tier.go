package oracle

// Tier selects which model size a worker should use for a given call, the
// same way the original's AGENT_MODELS table picked gpt4o vs gpt4o_mini per
// agent rather than hardcoding one model for the whole pipeline.
type Tier string

const (
	// TierCapable is for workers whose output quality materially affects
	// the trip (planner, critic): use the provider's strongest model.
	TierCapable Tier = "capable"
	// TierEfficient is for workers producing narrower, more mechanical
	// output (geography distance checks, food/culture tips): use a
	// cheaper, faster model.
	TierEfficient Tier = "efficient"
)

// TierConfig maps each worker name to the tier it should run at. Callers
// (the config package) populate this from the loaded configuration; workers
// look up their own name to decide which Oracle wrapper to use.
type TierConfig map[string]Tier

// DefaultTierConfig matches the original's per-agent model assignment:
// planning and critique get the capable tier, narrower data-shaping tasks
// get the efficient tier.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		"planner":          TierCapable,
		"geography":        TierEfficient,
		"research":         TierEfficient,
		"food_culture":     TierEfficient,
		"transport_budget": TierEfficient,
		"critic":           TierCapable,
	}
}

// TierFor returns the configured tier for a worker, defaulting to
// TierEfficient for any worker the config doesn't mention.
func (c TierConfig) TierFor(worker string) Tier {
	if t, ok := c[worker]; ok {
		return t
	}
	return TierEfficient
}

// Pool holds one Oracle per tier; workers call Pool.For(worker) to get the
// right backend without knowing which provider or model name it maps to.
type Pool struct {
	Capable   Oracle
	Efficient Oracle
	Tiers     TierConfig
}

// For returns the Oracle for the given worker name according to the pool's
// tier configuration.
func (p Pool) For(worker string) Oracle {
	if p.Tiers.TierFor(worker) == TierCapable {
		return p.Capable
	}
	return p.Efficient
}
