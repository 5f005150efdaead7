package features

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"bbq-storefront/cart"
	"bbq-storefront/menu"
	"bbq-storefront/upsell"

	"github.com/cucumber/godog"
)

type upsellTestContext struct {
	catalog []menu.Item
	store   *cart.Store
	engine  *upsell.Engine
	recs    []upsell.Recommendation
}

func (c *upsellTestContext) reset() {
	c.catalog = nil
	c.store = cart.NewStore(&cart.SequenceSource{})
	c.engine = upsell.DefaultEngine()
	c.recs = nil
}

func (c *upsellTestContext) theMenu(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("menu table has no rows")
	}
	header := map[string]int{}
	for i, cell := range table.Rows[0].Cells {
		header[cell.Value] = i
	}
	for _, row := range table.Rows[1:] {
		price, err := strconv.ParseFloat(row.Cells[header["price"]].Value, 64)
		if err != nil {
			return fmt.Errorf("bad price: %w", err)
		}
		c.catalog = append(c.catalog, menu.Item{
			ID:       row.Cells[header["id"]].Value,
			Name:     row.Cells[header["name"]].Value,
			Category: row.Cells[header["category"]].Value,
			Price:    price,
			Featured: row.Cells[header["featured"]].Value == "true",
			Stock:    10,
		})
	}
	return nil
}

func (c *upsellTestContext) theCartContainsOf(qty int, id string) error {
	item, ok := menu.Find(c.catalog, id)
	if !ok {
		return fmt.Errorf("menu has no item %q", id)
	}
	line := c.store.AddItem(cart.Selection{Item: item})
	c.store.UpdateQuantity(line.ID, qty)
	return nil
}

func (c *upsellTestContext) iAskForRecommendations(max int) error {
	c.recs = c.engine.Recommend(c.store.Items(), c.catalog, max)
	return nil
}

func (c *upsellTestContext) iGetNoRecommendations() error {
	if len(c.recs) != 0 {
		return fmt.Errorf("expected no recommendations, got %d", len(c.recs))
	}
	return nil
}

func (c *upsellTestContext) theRecommendationsAre(list string) error {
	want := strings.Split(list, ",")
	if len(want) != len(c.recs) {
		return fmt.Errorf("expected %d recommendations, got %d", len(want), len(c.recs))
	}
	for i, id := range want {
		if got := c.recs[i].ID; got != strings.TrimSpace(id) {
			return fmt.Errorf("recommendation %d: expected %q, got %q", i+1, strings.TrimSpace(id), got)
		}
	}
	return nil
}

func (c *upsellTestContext) recommendation(n int) (upsell.Recommendation, error) {
	if n < 1 || n > len(c.recs) {
		return upsell.Recommendation{}, fmt.Errorf("no recommendation %d", n)
	}
	return c.recs[n-1], nil
}

func (c *upsellTestContext) recommendationClaimsSavingsOf(n int, savings float64) error {
	rec, err := c.recommendation(n)
	if err != nil {
		return err
	}
	if rec.Savings == nil {
		return errors.New("recommendation claims no savings")
	}
	if math.Abs(*rec.Savings-savings) > 0.001 {
		return fmt.Errorf("expected savings %.2f, got %.2f", savings, *rec.Savings)
	}
	return nil
}

func (c *upsellTestContext) recommendationTargets(n int, id string) error {
	rec, err := c.recommendation(n)
	if err != nil {
		return err
	}
	if rec.TargetItemID != id {
		return fmt.Errorf("expected target %q, got %q", id, rec.TargetItemID)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &upsellTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the menu:$`, tc.theMenu)
	ctx.Step(`^the cart contains (\d+) of "([^"]*)"$`, tc.theCartContainsOf)
	ctx.Step(`^I ask for (\d+) recommendations$`, tc.iAskForRecommendations)
	ctx.Step(`^I get no recommendations$`, tc.iGetNoRecommendations)
	ctx.Step(`^the recommendations are "([^"]*)"$`, tc.theRecommendationsAre)
	ctx.Step(`^recommendation (\d+) claims savings of (\d+\.\d+)$`, tc.recommendationClaimsSavingsOf)
	ctx.Step(`^recommendation (\d+) targets "([^"]*)"$`, tc.recommendationTargets)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"upsell.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
