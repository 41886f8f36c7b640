package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialEvents(t *testing.T, api *API) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	// the server registers the client right after the handshake completes
	require.Eventually(t, func() bool { return api.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestEventsPushCatalogChanges(t *testing.T) {
	api := newTestAPI(t)
	conn := dialEvents(t, api)

	api.catalog.ToggleAvailability("prod_default_001")

	event := readEvent(t, conn)
	assert.Equal(t, TopicCatalog, event.Topic)
	assert.False(t, event.At.IsZero())
}

func TestEventsPushCheckoutTwice(t *testing.T) {
	api := newTestAPI(t)
	product, ok := api.catalog.GetByID("prod_default_002")
	require.True(t, ok)
	api.orders.AddToCart(product, 1)

	conn := dialEvents(t, api)
	_, ok = api.orders.Checkout()
	require.True(t, ok)

	assert.Equal(t, TopicOrders, readEvent(t, conn).Topic)
	assert.Equal(t, TopicOrders, readEvent(t, conn).Topic)
}

func TestEventsRejectForeignOrigin(t *testing.T) {
	api := newTestAPI(t)
	api.hub = NewHub("http://till.local", api.log)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubCloseStopsFollowing(t *testing.T) {
	api := newTestAPI(t)
	conn := dialEvents(t, api)

	api.Close()
	assert.Zero(t, api.hub.ClientCount())

	// the client sees the close frame rather than an event
	api.catalog.ToggleAvailability("prod_default_001")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
