package cart

import (
	"encoding/json"
	"reflect"
	"testing"

	"storefront-core/internal/domain"
)

type capturingPublisher struct {
	topics   []string
	payloads []interface{}
}

func (p *capturingPublisher) Publish(topic string, payload interface{}) {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
}

func (p *capturingPublisher) count(topic string) int {
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

func TestAddItemIdempotentByKey(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})

	store.AddItem(AddInput{ItemID: "tea", Variant: "mint", DisplayName: "Mint Tea", UnitPriceCents: 500})
	store.AddItem(AddInput{ItemID: "tea", Variant: "mint", DisplayName: "Mint Tea", UnitPriceCents: 500})

	items := store.Snapshot()
	if len(items) != 1 {
		t.Fatalf("expected one line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddItemDistinctVariants(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})

	store.AddItem(AddInput{ItemID: "tea", Variant: "mint", UnitPriceCents: 500})
	store.AddItem(AddInput{ItemID: "tea", Variant: "ginger", UnitPriceCents: 500})
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})

	items := store.Snapshot()
	if len(items) != 3 {
		t.Fatalf("expected three lines, got %d", len(items))
	}
	// Insertion order is display order.
	if items[0].Variant != "mint" || items[1].Variant != "ginger" || items[2].Variant != "" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestRemoveItemNoopOnAbsence(t *testing.T) {
	pub := &capturingPublisher{}
	store := NewStore("device:d1", pub)
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})
	before := store.Snapshot()
	published := len(pub.topics)

	store.RemoveItem("coffee", "")

	if !reflect.DeepEqual(store.Snapshot(), before) {
		t.Fatalf("cart changed on removing absent item")
	}
	if len(pub.topics) != published {
		t.Fatalf("expected no events for a no-op removal")
	}
}

func TestSetQuantityFloorRemoves(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})

	store.SetQuantity("tea", "", 0)
	if store.Len() != 0 {
		t.Fatalf("expected empty cart after setting quantity to 0")
	}

	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})
	store.SetQuantity("tea", "", -3)
	if store.Len() != 0 {
		t.Fatalf("expected empty cart after negative quantity")
	}
}

func TestSetQuantityReplaces(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})

	store.SetQuantity("tea", "", 7)

	items := store.Snapshot()
	if items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", items[0].Quantity)
	}
}

func TestClearEmptiesAndDropsPromo(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})
	store.ApplyPromo(domain.PromoCode{Code: "WELCOME10", Fraction: 0.1})

	store.Clear()

	if store.Len() != 0 {
		t.Fatalf("expected empty cart")
	}
	if store.Promo() != nil {
		t.Fatalf("expected promo dropped on clear")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500, Subscription: &domain.SubscriptionMeta{Tier: "monthly"}})

	snap := store.Snapshot()
	snap[0].Quantity = 99
	snap[0].Subscription.Tier = "weekly"

	items := store.Snapshot()
	if items[0].Quantity != 1 {
		t.Fatalf("snapshot mutation leaked into store quantity")
	}
	if items[0].Subscription.Tier != "monthly" {
		t.Fatalf("snapshot mutation leaked into subscription metadata")
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	pub := &capturingPublisher{}
	store := NewStore("device:d1", pub)

	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})
	store.SetQuantity("tea", "", 2)
	store.RemoveItem("tea", "")
	store.Clear()

	if got := pub.count(domain.TopicCartItemAdded); got != 1 {
		t.Fatalf("expected 1 item_added event, got %d", got)
	}
	if got := pub.count(domain.TopicCartItemRemoved); got != 1 {
		t.Fatalf("expected 1 item_removed event, got %d", got)
	}
	// add, set, remove, clear each publish a changed snapshot.
	if got := pub.count(domain.TopicCartChanged); got != 4 {
		t.Fatalf("expected 4 changed events, got %d", got)
	}

	ev, ok := pub.payloads[0].(domain.ItemAddedEvent)
	if !ok {
		t.Fatalf("expected ItemAddedEvent first, got %T", pub.payloads[0])
	}
	if ev.OwnerKey != "device:d1" || ev.ItemID != "tea" || ev.Quantity != 1 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestNilPublisherIsSafe(t *testing.T) {
	store := NewStore("device:d1", nil)
	store.AddItem(AddInput{ItemID: "tea", UnitPriceCents: 500})
	if store.Len() != 1 {
		t.Fatalf("expected mutation to succeed without a publisher")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore("device:d1", &capturingPublisher{})
	store.AddItem(AddInput{ItemID: "tea", Variant: "mint", DisplayName: "Mint Tea", UnitPriceCents: 500})
	store.AddItem(AddInput{ItemID: "coffee", DisplayName: "Coffee", UnitPriceCents: 1500})
	store.AddItem(AddInput{ItemID: "tea", Variant: "mint", DisplayName: "Mint Tea", UnitPriceCents: 500})

	raw, err := json.Marshal(store.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored []domain.LineItem
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	hydrated := NewStore("device:d2", nil)
	hydrated.Hydrate(restored)

	if !reflect.DeepEqual(hydrated.Snapshot(), store.Snapshot()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", hydrated.Snapshot(), store.Snapshot())
	}
}
