package pricing

import "strings"

const (
	ModelBlock = "block"
	ModelTiers = "tiers"
)

// Registry maps pricing model names to calculators.
type Registry struct {
	models   map[string]Calculator
	fallback string
}

// NewRegistry returns a registry holding the stock block formula and tier table.
func NewRegistry() *Registry {
	r := &Registry{models: map[string]Calculator{}, fallback: ModelBlock}
	r.Register(DefaultBlockFormula())
	r.Register(DefaultTierTable())
	return r
}

// Register adds or replaces a calculator under its own name.
func (r *Registry) Register(calc Calculator) {
	r.models[strings.ToLower(calc.Name())] = calc
}

// Engine returns an engine for the named model, falling back to the block formula.
func (r *Registry) Engine(name string) *Engine {
	if calc, ok := r.models[strings.ToLower(strings.TrimSpace(name))]; ok {
		return NewEngine(calc)
	}
	return NewEngine(r.models[r.fallback])
}
