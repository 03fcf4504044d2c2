package services

import (
	"slices"
	"time"

	"tagging/internal/core/domain/model/order"
)

// TimelineEntryKind distinguishes the two sources of a timeline.
type TimelineEntryKind string

const (
	TimelineDelivery TimelineEntryKind = "delivery"
	TimelineEvent    TimelineEntryKind = "event"
)

// TimelineEntry is either a Delivery or an Event, never both.
type TimelineEntry struct {
	Kind     TimelineEntryKind
	At       time.Time
	Delivery *order.Delivery
	Event    *order.Event
}

// TimelineBuilder merges an order's deliveries and events into a single
// chronological history.
//
// Business rules:
//   - "delivered" events are dropped; the Delivery entry represents them
//   - entries are ordered by time, oldest first
//   - at equal timestamps request_approved precedes delivery_date_updated
//   - otherwise equal timestamps keep deliveries first, then events in the
//     given order
type TimelineBuilder struct{}

func NewTimelineBuilder() TimelineBuilder {
	return TimelineBuilder{}
}

func (TimelineBuilder) Build(deliveries []*order.Delivery, events []*order.Event) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(deliveries)+len(events))

	for _, d := range deliveries {
		entries = append(entries, TimelineEntry{Kind: TimelineDelivery, At: d.DeliveredAt(), Delivery: d})
	}
	for _, e := range events {
		if e.Type() == order.EventDelivered {
			continue
		}
		entries = append(entries, TimelineEntry{Kind: TimelineEvent, At: e.CreatedAt(), Event: e})
	}

	slices.SortStableFunc(entries, func(a, b TimelineEntry) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return priority(a) - priority(b)
	})
	return entries
}

func priority(e TimelineEntry) int {
	if e.Event != nil && e.Event.Type() == order.EventDeliveryDateUpdated {
		return 1
	}
	return 0
}
