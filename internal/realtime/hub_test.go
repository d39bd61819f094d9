package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu/internal/lifecycle"
	"qrmenu/internal/models"
	"qrmenu/internal/monitoring"
	"qrmenu/internal/store"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type testRig struct {
	engine *lifecycle.Engine
	server *httptest.Server
	cancel context.CancelFunc
}

func newTestRig(t *testing.T) *testRig {
	return newTestRigWithMonitor(t, nil)
}

func newTestRigWithMonitor(t *testing.T, monitor *monitoring.Monitor) *testRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := store.NewMemoryStore()
	hub := NewHub(orders, monitor)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", hub.Serve)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &testRig{
		engine: lifecycle.NewEngine(orders, hub, monitor),
		server: server,
		cancel: cancel,
	}
}

func (r *testRig) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(r.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func submitOrder(t *testing.T, engine *lifecycle.Engine) *models.Order {
	t.Helper()
	order, err := engine.Submit(context.Background(),
		[]models.OrderItem{{ItemID: "a", Name: "Tea", Quantity: 2, Price: 10}}, 20)
	require.NoError(t, err)
	return order
}

func TestSnapshotOnSubscribe(t *testing.T) {
	rig := newTestRig(t)
	existing := submitOrder(t, rig.engine)

	conn := rig.dial(t)
	f := readFrame(t, conn)
	require.Equal(t, "loadOrders", f.Event)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(f.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, existing.OrderID, orders[0].OrderID)
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	rig := newTestRig(t)

	first := rig.dial(t)
	second := rig.dial(t)
	require.Equal(t, "loadOrders", readFrame(t, first).Event)
	require.Equal(t, "loadOrders", readFrame(t, second).Event)

	order := submitOrder(t, rig.engine)
	for _, conn := range []*websocket.Conn{first, second} {
		f := readFrame(t, conn)
		assert.Equal(t, "newOrder", f.Event)

		var got models.Order
		require.NoError(t, json.Unmarshal(f.Data, &got))
		assert.Equal(t, order.OrderID, got.OrderID)
		assert.Equal(t, models.StatusPending, got.Status)
	}

	_, err := rig.engine.Advance(context.Background(), order.OrderID)
	require.NoError(t, err)
	for _, conn := range []*websocket.Conn{first, second} {
		f := readFrame(t, conn)
		assert.Equal(t, "orderUpdated", f.Event)

		var got models.Order
		require.NoError(t, json.Unmarshal(f.Data, &got))
		assert.Equal(t, models.StatusAccepted, got.Status)
	}

	require.NoError(t, rig.engine.Remove(context.Background(), order.OrderID))
	for _, conn := range []*websocket.Conn{first, second} {
		f := readFrame(t, conn)
		assert.Equal(t, "orderDeleted", f.Event)

		var got struct {
			OrderID int `json:"orderId"`
		}
		require.NoError(t, json.Unmarshal(f.Data, &got))
		assert.Equal(t, order.OrderID, got.OrderID)
	}
}

func gaugeValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return -1
}

func TestSubscriberCleanupOnDisconnect(t *testing.T) {
	reg := prometheus.NewRegistry()
	rig := newTestRigWithMonitor(t, monitoring.NewMonitor(reg))

	conn := rig.dial(t)
	require.Equal(t, "loadOrders", readFrame(t, conn).Event)
	require.Equal(t, 1.0, gaugeValue(reg, "qrmenu_dashboard_subscribers"))

	conn.Close()
	assert.Eventually(t, func() bool {
		return gaugeValue(reg, "qrmenu_dashboard_subscribers") == 0
	}, 3*time.Second, 10*time.Millisecond, "subscriber still registered after disconnect")
}

func TestShutdownReleasesSubscribers(t *testing.T) {
	reg := prometheus.NewRegistry()
	rig := newTestRigWithMonitor(t, monitoring.NewMonitor(reg))

	conn := rig.dial(t)
	require.Equal(t, "loadOrders", readFrame(t, conn).Event)

	rig.cancel()

	// The stopped hub closes every send channel, so the write pump answers
	// with a close frame and the read side unblocks instead of hanging.
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	assert.Eventually(t, func() bool {
		return gaugeValue(reg, "qrmenu_dashboard_subscribers") == 0
	}, 3*time.Second, 10*time.Millisecond, "subscriber still registered after shutdown")
}

func TestRequestOrdersResync(t *testing.T) {
	rig := newTestRig(t)

	conn := rig.dial(t)
	require.Equal(t, "loadOrders", readFrame(t, conn).Event)

	order := submitOrder(t, rig.engine)
	require.Equal(t, "newOrder", readFrame(t, conn).Event)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"requestOrders"}`)))

	f := readFrame(t, conn)
	require.Equal(t, "loadOrders", f.Event)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(f.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderID, orders[0].OrderID)
}
