// Package upsell turns the current cart and the menu catalog into a short,
// ranked list of recommendations. Everything here is a pure function of
// its inputs; rules must not read clocks, randomness or globals.
package upsell

import (
	"sort"

	"bbq-storefront/cart"
	"bbq-storefront/menu"
)

const DefaultMaxRecommendations = 2

type Type string

const (
	TypeAddOn   Type = "add-on"
	TypeUpgrade Type = "upgrade"
	TypeCombo   Type = "combo"
	TypeBundle  Type = "bundle"
)

type Action string

const (
	ActionAdd     Action = "add"
	ActionReplace Action = "replace"
	ActionBuild   Action = "build"
)

type Recommendation struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Type         Type        `json:"type"`
	Savings      *float64    `json:"savings,omitempty"`
	Items        []menu.Item `json:"items"`
	Action       Action      `json:"action"`
	TargetItemID string      `json:"targetItemId,omitempty"`
}

// Rule is one entry of the registry. Recommend is only called when
// Condition holds for the same inputs.
type Rule struct {
	ID          string
	Name        string
	Description string
	Type        Type
	Priority    int
	Condition   func(lines []cart.Line, catalog []menu.Item) bool
	Recommend   func(lines []cart.Line, catalog []menu.Item) Recommendation
}

// Engine is an ordered rule registry. Registration order breaks priority ties.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	e := &Engine{}
	for _, r := range rules {
		e.Register(r)
	}
	return e
}

// DefaultEngine returns an engine loaded with the storefront's rule set.
func DefaultEngine() *Engine {
	return NewEngine(DefaultRules()...)
}

func (e *Engine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Matching returns the rules whose condition holds, highest priority first.
func (e *Engine) Matching(lines []cart.Line, catalog []menu.Item) []Rule {
	if len(lines) == 0 {
		return nil
	}
	var matched []Rule
	for _, r := range e.rules {
		if r.Condition != nil && r.Condition(lines, catalog) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	return matched
}

// Recommend evaluates every rule and returns up to max recommendations in
// priority order. An empty cart yields no recommendations.
func (e *Engine) Recommend(lines []cart.Line, catalog []menu.Item, max int) []Recommendation {
	if max <= 0 {
		max = DefaultMaxRecommendations
	}
	matched := e.Matching(lines, catalog)
	if len(matched) > max {
		matched = matched[:max]
	}
	recs := make([]Recommendation, 0, len(matched))
	for _, r := range matched {
		rec := r.Recommend(lines, catalog)
		if rec.ID == "" {
			rec.ID = r.ID
		}
		if rec.Type == "" {
			rec.Type = r.Type
		}
		if rec.Items == nil {
			rec.Items = []menu.Item{}
		}
		recs = append(recs, rec)
	}
	return recs
}
