package utils

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	websocket "github.com/gofiber/websocket/v2"
)

// LogEntry is a single captured server log line.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// ConsoleLogManager manages WebSocket connections for console log streaming
// and keeps a ring buffer so the admin log API can replay recent entries.
type ConsoleLogManager struct {
	clients       sync.Map // *websocket.Conn -> struct{}
	buffer        *logBuffer
	captureActive bool
}

type logBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	maxSize int
}

func newLogBuffer(maxSize int) *logBuffer {
	return &logBuffer{
		entries: make([]LogEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

func (lb *logBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries = append(lb.entries, entry)
	if len(lb.entries) > lb.maxSize {
		lb.entries = lb.entries[1:]
	}
}

func (lb *logBuffer) GetAll() []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	result := make([]LogEntry, len(lb.entries))
	copy(result, lb.entries)
	return result
}

func (lb *logBuffer) Since(t time.Time) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	var result []LogEntry
	for _, e := range lb.entries {
		if e.Time.After(t) {
			result = append(result, e)
		}
	}
	return result
}

var consoleLogManager = &ConsoleLogManager{
	clients: sync.Map{},
	buffer:  newLogBuffer(1000), // Keep last 1000 log entries
}

// logWriter wraps an io.Writer to capture and broadcast logs
type logWriter struct {
	manager *ConsoleLogManager
}

func (lw *logWriter) Write(p []byte) (n int, err error) {
	message := strings.TrimRight(string(p), "\n")

	if message != "" {
		entry := LogEntry{Time: time.Now(), Message: message}
		lw.manager.buffer.Add(entry)
		lw.manager.broadcast(entry)
	}

	return len(p), nil
}

// InitializeConsoleLogger sets up console log capture and streaming
func InitializeConsoleLogger() {
	if consoleLogManager.captureActive {
		return
	}

	writer := &logWriter{manager: consoleLogManager}

	// Write to both stdout and the broadcaster
	log.SetOutput(io.MultiWriter(os.Stdout, writer))

	consoleLogManager.captureActive = true

	log.Debug("Console log streaming initialized")
}

// LogEntriesSince returns buffered log entries newer than t.
func LogEntriesSince(t time.Time) []LogEntry {
	return consoleLogManager.buffer.Since(t)
}

// HandleConsoleLogsWebSocket establishes a WebSocket connection for streaming console logs.
// Note: Authentication must be validated by the caller before calling this function.
func HandleConsoleLogsWebSocket(c *websocket.Conn) {
	registerConsoleClient(c)
	defer unregisterConsoleClient(c)

	log.Debug("WebSocket client connected for console logs")

	// Send buffered logs to the new client
	for _, entry := range consoleLogManager.buffer.GetAll() {
		payload, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debugf("Failed to send buffered log to client: %v", err)
			return
		}
	}

	// Keep connection alive and wait for close
	for {
		_, _, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debugf("WebSocket closed unexpectedly: %v", err)
			}
			break
		}
	}
}

// broadcast sends a log entry to all connected clients
func (clm *ConsoleLogManager) broadcast(entry LogEntry) {
	var conns []*websocket.Conn
	clm.clients.Range(func(key, value interface{}) bool {
		conns = append(conns, key.(*websocket.Conn))
		return true
	})
	if len(conns) == 0 {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// Client disconnected, clean up
			unregisterConsoleClient(conn)
		}
	}
}

func registerConsoleClient(conn *websocket.Conn) {
	consoleLogManager.clients.Store(conn, struct{}{})
}

func unregisterConsoleClient(conn *websocket.Conn) {
	consoleLogManager.clients.Delete(conn)
	conn.Close()
}
