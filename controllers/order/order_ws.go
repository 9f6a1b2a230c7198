package orderControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsClients   = make(map[*websocket.Conn]bool)
	wsClientsMu sync.Mutex
)

// GET /orders/ws (admin)
// Live order feed for the admin dashboard. Every placed order, status change
// and cancellation is pushed to all connected clients.
func HandleOrderSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ WebSocket upgrade failed:", err)
		return
	}

	wsClientsMu.Lock()
	wsClients[conn] = true
	wsClientsMu.Unlock()

	go func() {
		defer func() {
			wsClientsMu.Lock()
			delete(wsClients, conn)
			wsClientsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastOrder pushes an order snapshot to every connected dashboard.
// Dead connections are dropped on write failure.
func BroadcastOrder(order *models.Order) {
	payload, err := json.Marshal(gin.H{
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"grand_total":    order.GrandTotal,
		"city":           order.City,
	})
	if err != nil {
		return
	}

	wsClientsMu.Lock()
	defer wsClientsMu.Unlock()
	for conn := range wsClients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(wsClients, conn)
		}
	}
}
