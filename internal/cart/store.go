// Package cart implements the in-memory cart store. The store owns the
// ordered line sequence and nothing else: persistence and analytics hang
// off the events it publishes, keeping mutation logic free of I/O.
package cart

import (
	"sync"
	"time"

	"storefront-core/internal/domain"
	"storefront-core/internal/events"
)

// AddInput carries the candidate line for AddItem. Quantity is implicit:
// each call adds one unit.
type AddInput struct {
	ItemID         string
	Variant        string
	DisplayName    string
	UnitPriceCents int64
	ImageRef       string
	Subscription   *domain.SubscriptionMeta
}

// Store holds an ordered line item sequence for one session. Insertion
// order is display order and is never re-sorted. All methods are safe
// for concurrent use; HTTP handlers are not a single event loop.
type Store struct {
	mu       sync.Mutex
	ownerKey string
	items    []domain.LineItem
	promo    *domain.PromoCode
	pub      events.Publisher
	now      func() time.Time
}

// NewStore builds an empty store publishing events under ownerKey.
func NewStore(ownerKey string, pub events.Publisher) *Store {
	return &Store{
		ownerKey: ownerKey,
		pub:      pub,
		now:      time.Now,
	}
}

// SetOwner rebinds the store to a new persistence owner. Used by the
// session manager on identity transitions.
func (s *Store) SetOwner(ownerKey string) {
	s.mu.Lock()
	s.ownerKey = ownerKey
	s.mu.Unlock()
}

// Owner returns the current persistence owner key.
func (s *Store) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerKey
}

// Hydrate replaces the store contents from a persisted snapshot. It does
// not publish events: hydration mirrors the backing store, so writing it
// back through would be a pointless round trip.
func (s *Store) Hydrate(items []domain.LineItem) {
	s.mu.Lock()
	s.items = domain.CloneLines(items)
	s.mu.Unlock()
}

// AddItem appends the candidate with quantity 1, or bumps the quantity
// of the existing line with the same (itemId, variant) key.
func (s *Store) AddItem(in AddInput) {
	s.mu.Lock()
	key := domain.LineKey{ItemID: in.ItemID, Variant: in.Variant}
	found := false
	var line domain.LineItem
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items[i].Quantity++
			line = s.items[i]
			found = true
			break
		}
	}
	if !found {
		line = domain.LineItem{
			ItemID:         in.ItemID,
			Variant:        in.Variant,
			DisplayName:    in.DisplayName,
			UnitPriceCents: in.UnitPriceCents,
			Quantity:       1,
			ImageRef:       in.ImageRef,
			Subscription:   in.Subscription,
		}
		s.items = append(s.items, line)
	}
	owner, snapshot := s.ownerKey, domain.CloneLines(s.items)
	s.mu.Unlock()

	at := s.now().UTC()
	s.publish(domain.TopicCartItemAdded, domain.ItemAddedEvent{
		OwnerKey:    owner,
		ItemID:      line.ItemID,
		Variant:     line.Variant,
		DisplayName: line.DisplayName,
		Quantity:    line.Quantity,
		At:          at,
	})
	s.publish(domain.TopicCartChanged, domain.CartChangedEvent{OwnerKey: owner, Items: snapshot, At: at})
}

// RemoveItem deletes the matching line. Absence is a no-op, not an
// error, and publishes nothing.
func (s *Store) RemoveItem(itemID, variant string) {
	s.mu.Lock()
	key := domain.LineKey{ItemID: itemID, Variant: variant}
	idx := -1
	for i := range s.items {
		if s.items[i].Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	owner, snapshot := s.ownerKey, domain.CloneLines(s.items)
	s.mu.Unlock()

	at := s.now().UTC()
	s.publish(domain.TopicCartItemRemoved, domain.ItemRemovedEvent{
		OwnerKey: owner,
		ItemID:   itemID,
		Variant:  variant,
		At:       at,
	})
	s.publish(domain.TopicCartChanged, domain.CartChangedEvent{OwnerKey: owner, Items: snapshot, At: at})
}

// SetQuantity replaces the line's quantity. A quantity of zero or below
// removes the line instead; quantity never reaches zero inside the
// store. No upper bound is enforced here.
func (s *Store) SetQuantity(itemID, variant string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID, variant)
		return
	}
	s.mu.Lock()
	key := domain.LineKey{ItemID: itemID, Variant: variant}
	changed := false
	for i := range s.items {
		if s.items[i].Key() == key {
			changed = s.items[i].Quantity != quantity
			s.items[i].Quantity = quantity
			break
		}
	}
	owner, snapshot := s.ownerKey, domain.CloneLines(s.items)
	s.mu.Unlock()

	if changed {
		s.publish(domain.TopicCartChanged, domain.CartChangedEvent{OwnerKey: owner, Items: snapshot, At: s.now().UTC()})
	}
}

// Clear empties the sequence and drops any applied promo.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.promo = nil
	owner := s.ownerKey
	s.mu.Unlock()

	s.publish(domain.TopicCartChanged, domain.CartChangedEvent{OwnerKey: owner, Items: nil, At: s.now().UTC()})
}

// Snapshot returns a deep copy of the current line sequence, safe from
// subsequent mutations.
func (s *Store) Snapshot() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneLines(s.items)
}

// ApplyPromo attaches a validated promo code to the cart.
func (s *Store) ApplyPromo(code domain.PromoCode) {
	s.mu.Lock()
	s.promo = &code
	s.mu.Unlock()
}

// Promo returns a copy of the applied promo, or nil.
func (s *Store) Promo() *domain.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo == nil {
		return nil
	}
	promo := *s.promo
	return &promo
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) publish(topic string, payload interface{}) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(topic, payload)
}
