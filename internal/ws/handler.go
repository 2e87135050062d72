package ws

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rlflinkage/backend/internal/linkage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy is enforced by the CORS layer
	},
}

// LinkageHub is the single hub for all analysis connections.
var LinkageHub *Hub

var analyzer *linkage.Analyzer

// Start wires the analyzer into the websocket layer and runs the hub.
func Start(a *linkage.Analyzer) {
	analyzer = a
	LinkageHub = NewHub()
	go LinkageHub.Run()
}

// HandleWebSocket upgrades the connection and starts its pumps. Each inbound
// frame is one analysis request; the reply goes back to the sender only.
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade error: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		id:   generateConnectionID(),
		send: make(chan []byte, 256),
	}

	LinkageHub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump reads analysis requests and dispatches them to the analyzer.
func (c *Client) readPump() {
	defer func() {
		LinkageHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for client %s: %v", c.id, err)
			} else {
				log.Printf("[WS] read error for client %s: %v", c.id, err)
			}
			break
		}

		var req linkage.AnalysisRequest
		if err := json.Unmarshal(message, &req); err != nil {
			log.Printf("[WS] invalid request from client %s: %v", c.id, err)
			LinkageHub.SendTo(c.id, linkage.ErrorResponse{Error: true, Message: "invalid request: " + err.Error()})
			continue
		}

		resp := analyzer.Process(&req)
		LinkageHub.SendTo(c.id, resp)

		// A simulation solve moves shared geometry: let other viewers
		// (and other instances, via Redis) follow along.
		if ar, ok := resp.(linkage.AnalysisResponse); ok && req.SimulationMode {
			event := map[string]interface{}{
				"type":              "geometry_update",
				"updatedPoints":     ar.UpdatedPoints,
				"cylinderExtension": req.CylinderExtension,
			}
			LinkageHub.Broadcast(event, c.id)
			PublishGeometryUpdate(event)
		}
	}
}

// generateConnectionID returns a random opaque connection handle.
func generateConnectionID() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, 12)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return "CONN_" + string(result)
}
