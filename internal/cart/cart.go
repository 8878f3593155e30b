// Package cart holds the in-progress order for one checkout session as an
// immutable state container updated through reducer-style transitions.
package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/calderwood/conreg-backend/internal/pricing"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
)

// Item is one validated line of the cart. ItemUUID is stable for the lifetime
// of the item so a retried submission reuses it as its idempotency key.
type Item struct {
	ItemUUID   uuid.UUID
	OfferingID uuid.UUID
	VariantID  *uuid.UUID
	Amount     string
	Fields     pricing.Input
}

// State is an immutable snapshot of the cart. OrderUUID correlates every
// item in the session to one server-side order.
type State struct {
	OrderUUID uuid.UUID
	Items     []Item
}

// Subscriber observes the state after each transition.
type Subscriber func(State)

// Container owns the cart state for one session. All mutations go through
// the reducer methods and notify subscribers synchronously.
type Container struct {
	mu      sync.Mutex
	state   State
	subs    map[int]Subscriber
	nextSub int
}

// New creates an empty cart and mints the session's order UUID.
func New() *Container {
	return &Container{
		state: State{OrderUUID: uuid.New()},
		subs:  map[int]Subscriber{},
	}
}

// State returns a copy of the current snapshot.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// OrderUUID returns the session's order correlation id.
func (c *Container) OrderUUID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.OrderUUID
}

// Add validates the input against the offering and appends a new item. The
// item is refused when the resolver reports any error; the cart never holds
// an inadmissible item.
func (c *Container) Add(offering *models.Offering, input pricing.Input) (Item, error) {
	if offering == nil {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "offering is required")
	}

	result := pricing.Validate(offering, input)
	if !result.OK() {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "item failed validation").
			WithDetails(map[string]any{"messages": result.Messages})
	}

	var variantID *uuid.UUID
	var variant *models.Variant
	if input.VariantID != "" {
		for i := range offering.Variants {
			if offering.Variants[i].ID.String() == input.VariantID {
				variant = &offering.Variants[i]
				id := variant.ID
				variantID = &id
				break
			}
		}
	}

	amount := input.Amount
	if derived, ok := pricing.DeriveAmount(offering, variant); ok {
		amount = derived
	}

	item := Item{
		ItemUUID:   uuid.New(),
		OfferingID: offering.ID,
		VariantID:  variantID,
		Amount:     amount,
		Fields:     input,
	}

	c.mu.Lock()
	items := make([]Item, len(c.state.Items), len(c.state.Items)+1)
	copy(items, c.state.Items)
	c.state = State{OrderUUID: c.state.OrderUUID, Items: append(items, item)}
	snapshot, subs := c.snapshotAndSubs()
	c.mu.Unlock()

	notify(subs, snapshot)
	return item, nil
}

// Remove drops the item with the given UUID. Removing an absent id is a
// no-op and notifies nobody.
func (c *Container) Remove(itemUUID uuid.UUID) {
	c.mu.Lock()
	found := false
	items := make([]Item, 0, len(c.state.Items))
	for _, item := range c.state.Items {
		if item.ItemUUID == itemUUID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		c.mu.Unlock()
		return
	}
	c.state = State{OrderUUID: c.state.OrderUUID, Items: items}
	snapshot, subs := c.snapshotAndSubs()
	c.mu.Unlock()

	notify(subs, snapshot)
}

// Clear resets to a brand-new empty cart with a fresh order UUID. Used after
// full-order payment completion, never partially.
func (c *Container) Clear() {
	c.mu.Lock()
	c.state = State{OrderUUID: uuid.New()}
	snapshot, subs := c.snapshotAndSubs()
	c.mu.Unlock()

	notify(subs, snapshot)
}

// Subscribe registers fn to observe every state transition. The returned
// cancel func unsubscribes.
func (c *Container) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Container) snapshot() State {
	items := make([]Item, len(c.state.Items))
	copy(items, c.state.Items)
	return State{OrderUUID: c.state.OrderUUID, Items: items}
}

func (c *Container) snapshotAndSubs() (State, []Subscriber) {
	subs := make([]Subscriber, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return c.snapshot(), subs
}

func notify(subs []Subscriber, state State) {
	for _, fn := range subs {
		fn(state)
	}
}
