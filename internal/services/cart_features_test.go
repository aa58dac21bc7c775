package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"petshop/internal/models"
	"petshop/internal/services"
	"petshop/internal/store/memory"
)

type cartTestContext struct {
	pets    *services.PetService
	carts   *services.CartService
	petIDs  map[string]string
	lastErr error
	cart    *models.CartView
}

func (c *cartTestContext) reset() {
	c.pets = services.NewPetService(memory.NewPetStore(), nil)
	c.carts = services.NewCartService(memory.NewCartStore(), c.pets, nil)
	c.petIDs = map[string]string{}
	c.lastErr = nil
	c.cart = nil
}

func (c *cartTestContext) petID(name string) string {
	if id, ok := c.petIDs[name]; ok {
		return id
	}
	return "unknown-" + name
}

func (c *cartTestContext) record(cart *models.CartView, err error) {
	c.lastErr = err
	if err == nil {
		c.cart = cart
	}
}

func (c *cartTestContext) aPetPriced(name, price string) error {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	age := 1
	pet, err := c.pets.Create(context.Background(), "seller", models.CreatePetRequest{
		Name:        name,
		Species:     "Dog",
		Breed:       "Mixed",
		Age:         &age,
		Price:       &amount,
		Description: name,
		ImageURL:    "https://images.example.com/" + name + ".jpg",
	})
	if err != nil {
		return err
	}
	c.petIDs[name] = pet.ID
	return nil
}

func (c *cartTestContext) thePetIsSold(name string) error {
	_, err := c.pets.Update(context.Background(), c.petID(name), models.UpdatePetRequest{Status: models.PetStatusSold})
	return err
}

func (c *cartTestContext) thePetIsRemovedFromTheCatalog(name string) error {
	return c.pets.Delete(context.Background(), c.petID(name))
}

func (c *cartTestContext) thePriceOfChangesTo(name, price string) error {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	_, err = c.pets.Update(context.Background(), c.petID(name), models.UpdatePetRequest{Price: &amount})
	return err
}

func (c *cartTestContext) userOpensTheirCart(owner string) error {
	c.record(c.carts.GetOrCreate(context.Background(), owner))
	return nil
}

func (c *cartTestContext) userAddsOf(owner string, quantity int, name string) error {
	c.record(c.carts.AddItem(context.Background(), owner, c.petID(name), quantity))
	return nil
}

func (c *cartTestContext) userSetsTheQuantityOfTo(owner, name string, quantity int) error {
	c.record(c.carts.UpdateItemQuantity(context.Background(), owner, c.lineFor(owner, name), quantity))
	return nil
}

func (c *cartTestContext) userRemoves(owner, name string) error {
	c.record(c.carts.RemoveItem(context.Background(), owner, c.lineFor(owner, name)))
	return nil
}

func (c *cartTestContext) userRemovesAnUnknownItem(owner string) error {
	c.record(c.carts.RemoveItem(context.Background(), owner, "no-such-item"))
	return nil
}

func (c *cartTestContext) userClearsTheirCart(owner string) error {
	c.lastErr = c.carts.Clear(context.Background(), owner)
	if c.lastErr == nil {
		c.cart = nil
	}
	return nil
}

// lineFor returns the id of the line holding name in the last cart seen for
// owner, or a placeholder when there is none.
func (c *cartTestContext) lineFor(owner, name string) string {
	if c.cart == nil || c.cart.Owner != owner {
		return "missing-item"
	}
	for _, item := range c.cart.Items {
		if item.Pet.ID == c.petID(name) {
			return item.ID
		}
	}
	return "missing-item"
}

func (c *cartTestContext) theOperationSucceeds() error {
	if c.lastErr != nil {
		return fmt.Errorf("expected success but got error: %v", c.lastErr)
	}
	return nil
}

func (c *cartTestContext) theOperationFailsWith(kind string) error {
	if c.lastErr == nil {
		return errors.New("expected operation to fail but it succeeded")
	}
	var domainErr *services.Error
	if !errors.As(c.lastErr, &domainErr) {
		return fmt.Errorf("expected domain error, got %T: %v", c.lastErr, c.lastErr)
	}
	if domainErr.Kind.String() != kind {
		return fmt.Errorf("expected kind %s, got %s", kind, domainErr.Kind)
	}
	return nil
}

func (c *cartTestContext) theErrorMessageIs(message string) error {
	if c.lastErr == nil {
		return errors.New("expected error but operation succeeded")
	}
	if c.lastErr.Error() != message {
		return fmt.Errorf("expected error message %q, got %q", message, c.lastErr.Error())
	}
	return nil
}

func (c *cartTestContext) theCartHasItems(n int) error {
	if c.cart == nil {
		return errors.New("no cart returned")
	}
	if len(c.cart.Items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(c.cart.Items))
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total string) error {
	if c.cart == nil {
		return errors.New("no cart returned")
	}
	want, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	if !c.cart.TotalAmount.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, c.cart.TotalAmount)
	}
	return nil
}

func (c *cartTestContext) findLine(name string) (*models.CartItemView, error) {
	if c.cart == nil {
		return nil, errors.New("no cart returned")
	}
	for i := range c.cart.Items {
		if c.cart.Items[i].Pet.ID == c.petID(name) {
			return &c.cart.Items[i], nil
		}
	}
	return nil, fmt.Errorf("no line for %q in cart", name)
}

func (c *cartTestContext) theQuantityOfIs(name string, quantity int) error {
	line, err := c.findLine(name)
	if err != nil {
		return err
	}
	if line.Quantity != quantity {
		return fmt.Errorf("expected quantity %d for %q, got %d", quantity, name, line.Quantity)
	}
	return nil
}

func (c *cartTestContext) theLinePriceOfIs(name, price string) error {
	line, err := c.findLine(name)
	if err != nil {
		return err
	}
	want, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	if !line.Price.Equal(want) {
		return fmt.Errorf("expected line price %s for %q, got %s", want, name, line.Price)
	}
	return nil
}

func (c *cartTestContext) isShownAsUnavailable(name string) error {
	line, err := c.findLine(name)
	if err != nil {
		return err
	}
	if line.Pet.Available {
		return fmt.Errorf("expected %q to be unavailable", name)
	}
	if line.Pet.Name != name {
		return fmt.Errorf("expected snapshot name %q, got %q", name, line.Pet.Name)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a pet "([^"]*)" priced (\d+(?:\.\d+)?)$`, tc.aPetPriced)
	ctx.Step(`^the pet "([^"]*)" is sold$`, tc.thePetIsSold)
	ctx.Step(`^the pet "([^"]*)" is removed from the catalog$`, tc.thePetIsRemovedFromTheCatalog)
	ctx.Step(`^the price of "([^"]*)" changes to (\d+(?:\.\d+)?)$`, tc.thePriceOfChangesTo)

	// When steps
	ctx.Step(`^user "([^"]*)" opens their cart$`, tc.userOpensTheirCart)
	ctx.Step(`^user "([^"]*)" adds (-?\d+) of "([^"]*)"$`, tc.userAddsOf)
	ctx.Step(`^user "([^"]*)" sets the quantity of "([^"]*)" to (-?\d+)$`, tc.userSetsTheQuantityOfTo)
	ctx.Step(`^user "([^"]*)" removes an unknown item$`, tc.userRemovesAnUnknownItem)
	ctx.Step(`^user "([^"]*)" removes "([^"]*)"$`, tc.userRemoves)
	ctx.Step(`^user "([^"]*)" clears their cart$`, tc.userClearsTheirCart)

	// Then steps
	ctx.Step(`^the operation succeeds$`, tc.theOperationSucceeds)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
	ctx.Step(`^the error message is "([^"]*)"$`, tc.theErrorMessageIs)
	ctx.Step(`^the cart has (\d+) items?$`, tc.theCartHasItems)
	ctx.Step(`^the cart total is (\d+(?:\.\d+)?)$`, tc.theCartTotalIs)
	ctx.Step(`^the quantity of "([^"]*)" is (\d+)$`, tc.theQuantityOfIs)
	ctx.Step(`^the line price of "([^"]*)" is (\d+(?:\.\d+)?)$`, tc.theLinePriceOfIs)
	ctx.Step(`^"([^"]*)" is shown as unavailable$`, tc.isShownAsUnavailable)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
