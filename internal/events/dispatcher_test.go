package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventPaymentRecorded, func(_ context.Context, e Event) error {
		got = append(got, e)
		return errors.New("first handler failed")
	})
	d.Subscribe(EventPaymentRecorded, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventPaymentRecorded, ResourceID: "p1"})
	assert.Error(t, err)
	require.Len(t, got, 2, "every handler runs even if one fails")
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, "p1", got[1].ResourceID)

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventBookingCreated}))
}
