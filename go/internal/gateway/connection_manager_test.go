package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareConnection(cm *ConnectionManager, id string) *Connection {
	c := &Connection{ID: id, UserID: id, Send: make(chan []byte, 8), Manager: cm}
	cm.registerConnection(c)
	return c
}

func drain(cm *ConnectionManager) {
	for {
		select {
		case out := <-cm.broadcastCh:
			cm.handleBroadcast(out)
		default:
			return
		}
	}
}

func received(t *testing.T, c *Connection) []events.EventType {
	t.Helper()
	var out []events.EventType
	for {
		select {
		case data := <-c.Send:
			var evt events.Event
			require.NoError(t, json.Unmarshal(data, &evt))
			out = append(out, evt.Type)
		default:
			return out
		}
	}
}

func TestSendOrderedQueuesBehindBroadcasts(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	a := newBareConnection(cm, "a")
	b := newBareConnection(cm, "b")
	now := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	changed, err := events.New(events.EventTypeStateChanged, map[string]int{"version": 4}, now)
	require.NoError(t, err)
	initial, err := events.New(events.EventTypeInitialState, map[string]int{"version": 5}, now)
	require.NoError(t, err)
	reset, err := events.New(events.EventTypeGameReset, map[string]int{"version": 6}, now)
	require.NoError(t, err)

	cm.Broadcast(changed)
	require.NoError(t, cm.SendOrdered(a, initial))
	cm.Broadcast(reset)
	drain(cm)

	assert.Equal(t, []events.EventType{
		events.EventTypeStateChanged,
		events.EventTypeInitialState,
		events.EventTypeGameReset,
	}, received(t, a))
	assert.Equal(t, []events.EventType{
		events.EventTypeStateChanged,
		events.EventTypeGameReset,
	}, received(t, b))
}

func TestSendOrderedSkipsClosedConnection(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	a := newBareConnection(cm, "a")
	cm.unregisterConnection(a)

	evt, err := events.New(events.EventTypeInitialState, map[string]int{}, time.Now())
	require.NoError(t, err)
	require.NoError(t, cm.SendOrdered(a, evt))
	assert.NotPanics(t, func() { drain(cm) })
}
