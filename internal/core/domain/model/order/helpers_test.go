package order_test

import (
	"testing"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

type testActor struct {
	id    kernel.UUID
	admin bool
}

func (a testActor) ID() kernel.UUID { return a.id }
func (a testActor) IsAdmin() bool   { return a.admin }

func newAdmin() testActor    { return testActor{id: kernel.NewUUID(), admin: true} }
func newCustomer() testActor { return testActor{id: kernel.NewUUID()} }

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T, owner testActor) *order.Order {
	t.Helper()

	tags, err := order.ZipTags([]string{"GG", "Was geht"}, []string{"happy", "chill"})
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), owner.ID(), kernel.NewUUID(), 3, "Emotes for my channel", tags, baseTime)
	require.NoError(t, err)
	return o
}

func testFiles(t *testing.T) []order.DeliveryFile {
	t.Helper()

	f, err := order.NewDeliveryFile("delivery_20250310120000_tags.zip", "tags.zip", 2048, baseTime)
	require.NoError(t, err)
	return []order.DeliveryFile{f}
}

func deliveredOrder(t *testing.T, owner, admin testActor) *order.Order {
	t.Helper()

	o := newTestOrder(t, owner)
	_, err := o.Deliver(admin, "Here you go", testFiles(t), baseTime.Add(time.Hour))
	require.NoError(t, err)
	return o
}

func eventTypes(o *order.Order) []order.EventType {
	events := o.UncommittedEvents()
	types := make([]order.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type())
	}
	return types
}
