package handlers

import (
	"encoding/json"
	"sync"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	websocket "github.com/gofiber/websocket/v2"
)

// ScanStatus is one running root folder scan, as shown in the admin UI
type ScanStatus struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	StartTime int64  `json:"start_time"`
}

// scanStatusManager tracks WebSocket clients and running scans
type scanStatusManager struct {
	clients    map[*websocket.Conn]bool
	activeScan map[string]ScanStatus
	mu         sync.RWMutex
	writeMu    sync.Mutex
	pingTicker *time.Ticker
	stopPing   chan struct{}
}

var statusManager = &scanStatusManager{
	clients:    make(map[*websocket.Conn]bool),
	activeScan: make(map[string]ScanStatus),
	stopPing:   make(chan struct{}),
}

func init() {
	statusManager.pingTicker = time.NewTicker(30 * time.Second)
	go statusManager.pingClients()
}

// pingClients sends periodic pings to all connected clients
func (m *scanStatusManager) pingClients() {
	for {
		select {
		case <-m.pingTicker.C:
			m.mu.RLock()
			clients := make([]*websocket.Conn, 0, len(m.clients))
			for conn := range m.clients {
				clients = append(clients, conn)
			}
			m.mu.RUnlock()

			for _, conn := range clients {
				m.writeMu.Lock()
				err := conn.WriteMessage(websocket.PingMessage, []byte{})
				m.writeMu.Unlock()

				if err != nil {
					log.Debugf("Failed to ping scan status client: %v", err)
					m.unregisterClient(conn)
				}
			}
		case <-m.stopPing:
			return
		}
	}
}

// HandleScanStatusWebSocketUpgrade upgrades the connection to WebSocket
func HandleScanStatusWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			handleScanStatusWebSocket(conn)
		})(c)
	}
	return c.Status(fiber.StatusUpgradeRequired).SendString("WebSocket upgrade required")
}

func handleScanStatusWebSocket(conn *websocket.Conn) {
	statusManager.registerClient(conn)
	defer func() {
		statusManager.unregisterClient(conn)
		log.Debug("Scan status WebSocket client disconnected")
	}()

	log.Debug("Scan status WebSocket client connected")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	statusManager.sendActiveScansToClient(conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debugf("Scan status WebSocket error: %v", err)
			}
			break
		}
	}
}

func (m *scanStatusManager) registerClient(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[conn] = true
}

func (m *scanStatusManager) unregisterClient(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, conn)
	conn.Close()
}

func (m *scanStatusManager) sendActiveScansToClient(conn *websocket.Conn) {
	m.mu.RLock()
	scans := make([]ScanStatus, 0, len(m.activeScan))
	for _, s := range m.activeScan {
		scans = append(scans, s)
	}
	m.mu.RUnlock()

	data, err := json.Marshal(map[string]interface{}{
		"action": "scans_update",
		"scans":  scans,
	})
	if err != nil {
		return
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debugf("Failed to send scan status snapshot: %v", err)
	}
}

func (m *scanStatusManager) broadcastUpdate() {
	m.mu.RLock()
	scans := make([]ScanStatus, 0, len(m.activeScan))
	for _, s := range m.activeScan {
		scans = append(scans, s)
	}
	clients := make([]*websocket.Conn, 0, len(m.clients))
	for conn := range m.clients {
		clients = append(clients, conn)
	}
	m.mu.RUnlock()

	data, err := json.Marshal(map[string]interface{}{
		"action": "scans_update",
		"scans":  scans,
	})
	if err != nil {
		log.Errorf("Failed to marshal scan status update: %v", err)
		return
	}

	for _, conn := range clients {
		m.writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		m.writeMu.Unlock()

		if err != nil {
			log.Debugf("Failed to send scan status update: %v", err)
			m.unregisterClient(conn)
		}
	}
}

// NotifyScanStarted records a running scan and pushes it to clients
func NotifyScanStarted(slug string, name string) {
	statusManager.mu.Lock()
	statusManager.activeScan[slug] = ScanStatus{
		Slug:      slug,
		Name:      name,
		StartTime: time.Now().Unix(),
	}
	statusManager.mu.Unlock()

	statusManager.broadcastUpdate()
	log.Infof("Scan started: %s", slug)
}

// NotifyScanFinished clears a finished scan and pushes the update
func NotifyScanFinished(slug string) {
	statusManager.mu.Lock()
	delete(statusManager.activeScan, slug)
	statusManager.mu.Unlock()

	statusManager.broadcastUpdate()
	log.Infof("Scan finished: %s", slug)
}
