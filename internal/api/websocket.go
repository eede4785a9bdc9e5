package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dungeonmaze/server/internal/auth"
	"github.com/dungeonmaze/server/internal/compression"
	"github.com/dungeonmaze/server/internal/config"
	"github.com/dungeonmaze/server/internal/database"
	"github.com/dungeonmaze/server/internal/performance"
	"github.com/dungeonmaze/server/internal/streaming"
	"github.com/dungeonmaze/server/internal/worldgen"
	"github.com/gorilla/websocket"
)

const (
	// Supported WebSocket protocol versions
	ProtocolVersion1 = "dungeonmaze-v1"

	// Default ping interval (30 seconds)
	defaultPingInterval = 30 * time.Second

	// Pong wait timeout (60 seconds)
	pongWait = 60 * time.Second

	// Write timeout (10 seconds)
	writeTimeout = 10 * time.Second
)

// WebSocketConnection represents an active WebSocket connection
type WebSocketConnection struct {
	conn     *websocket.Conn
	userID   int64
	username string
	role     string
	version  string
	send     chan []byte
	hub      *WebSocketHub
}

// WebSocketHub manages all active WebSocket connections
type WebSocketHub struct {
	connections map[*WebSocketConnection]bool
	broadcast   chan []byte
	register    chan *WebSocketConnection
	unregister  chan *WebSocketConnection
	mu          sync.RWMutex
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WebSocketError represents an error message sent over WebSocket
type WebSocketError struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewWebSocketHub creates a new WebSocket hub
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		connections: make(map[*WebSocketConnection]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *WebSocketConnection),
		unregister:  make(chan *WebSocketConnection),
	}
}

// Run starts the hub's main loop
func (h *WebSocketHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			log.Printf("WebSocket connection registered: user_id=%d, version=%s", conn.userID, conn.version)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.send)
			}
			h.mu.Unlock()
			log.Printf("WebSocket connection unregistered: user_id=%d", conn.userID)

		case message := <-h.broadcast:
			// Write lock: blocked connections are evicted from the map here.
			h.mu.Lock()
			for conn := range h.connections {
				select {
				case conn.send <- message:
				default:
					close(conn.send)
					delete(h.connections, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(message []byte) {
	h.broadcast <- message
}

// SendToUser sends a message to a specific user
func (h *WebSocketHub) SendToUser(userID int64, message []byte) {
	// Write lock: blocked connections are evicted from the map here.
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		if conn.userID == userID {
			select {
			case conn.send <- message:
			default:
				close(conn.send)
				delete(h.connections, conn)
			}
		}
	}
}

// WebSocketHandlers handles WebSocket connections
type WebSocketHandlers struct {
	hub           *WebSocketHub
	db            *sql.DB
	config        *config.Config
	jwtService    *auth.JWTService
	overlays      *database.OverlayStorage
	streamManager *streaming.Manager
	profiler      *performance.Profiler
	upgrader      websocket.Upgrader
}

// NewWebSocketHandlers creates a new WebSocket handlers instance
func NewWebSocketHandlers(db *sql.DB, cfg *config.Config, profiler *performance.Profiler) *WebSocketHandlers {
	jwtService := auth.NewJWTService(cfg)

	var overlays *database.OverlayStorage
	if db != nil {
		overlays = database.NewOverlayStorage(db)
	}

	// Get allowed origins from config or use defaults
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}

	return &WebSocketHandlers{
		hub:           NewWebSocketHub(),
		db:            db,
		config:        cfg,
		jwtService:    jwtService,
		overlays:      overlays,
		streamManager: streaming.NewManager(),
		profiler:      profiler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Non-browser clients send no Origin header
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket handles WebSocket connection upgrades
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate the connection
	token, err := h.extractToken(r)
	if err != nil {
		log.Printf("WebSocket authentication failed: %v", err)
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	// Validate token
	claims, err := h.jwtService.ValidateAccessToken(token)
	if err != nil {
		log.Printf("WebSocket token validation failed: %v", err)
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	// Negotiate protocol version
	requestedVersions := r.Header.Get("Sec-WebSocket-Protocol")
	selectedVersion := h.negotiateVersion(requestedVersions)
	if selectedVersion == "" {
		log.Printf("WebSocket version negotiation failed: requested=%s", requestedVersions)
		http.Error(w, "Unsupported protocol version", http.StatusBadRequest)
		return
	}

	// Set the selected protocol version in response headers
	responseHeaders := http.Header{}
	responseHeaders.Set("Sec-WebSocket-Protocol", selectedVersion)

	// Upgrade connection
	conn, err := h.upgrader.Upgrade(w, r, responseHeaders)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	// Create connection object
	wsConn := &WebSocketConnection{
		conn:     conn,
		userID:   claims.UserID,
		username: claims.Username,
		role:     claims.Role,
		version:  selectedVersion,
		send:     make(chan []byte, 256),
		hub:      h.hub,
	}

	// Register connection
	h.hub.register <- wsConn

	// Start connection handlers
	go wsConn.writePump()
	go wsConn.readPump(h)
}

// extractToken extracts JWT token from request (query param or header)
func (h *WebSocketHandlers) extractToken(r *http.Request) (string, error) {
	// Try query parameter first (common for WebSocket)
	token := r.URL.Query().Get("token")
	if token != "" {
		return token, nil
	}

	// Try Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], nil
		}
	}

	return "", fmt.Errorf("missing authentication token")
}

// negotiateVersion selects the highest supported protocol version
func (h *WebSocketHandlers) negotiateVersion(requested string) string {
	if requested == "" {
		// Default to v1 if no version specified
		return ProtocolVersion1
	}

	// Parse requested versions (comma-separated)
	requestedVersions := strings.Split(requested, ",")
	for i := range requestedVersions {
		requestedVersions[i] = strings.TrimSpace(requestedVersions[i])
	}

	// Supported versions in order (highest first)
	supportedVersions := []string{ProtocolVersion1}

	// Find highest mutually supported version
	for _, supported := range supportedVersions {
		for _, requested := range requestedVersions {
			if requested == supported {
				return supported
			}
		}
	}

	return ""
}

// readPump handles incoming messages from the WebSocket connection
func (c *WebSocketConnection) readPump(handlers *WebSocketHandlers) {
	defer func() {
		handlers.streamManager.DropUserSubscriptions(c.userID)
		c.hub.unregister <- c
		if err := c.conn.Close(); err != nil {
			log.Printf("Failed to close connection: %v", err)
		}
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
			return err
		}
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Parse message
		var msg WebSocketMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.sendError("invalid_message", "Invalid message format", "InvalidMessageFormat")
			continue
		}

		// Handle message based on type
		handlers.handleMessage(c, &msg)
	}
}

// writePump handles outgoing messages to the WebSocket connection
func (c *WebSocketConnection) writePump() {
	ticker := time.NewTicker(defaultPingInterval)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			log.Printf("Failed to close connection: %v", err)
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Printf("Failed to set write deadline: %v", err)
				return
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.Printf("Failed to write close message: %v", err)
				}
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				if closeErr := w.Close(); closeErr != nil {
					log.Printf("Failed to close writer after write error: %v", closeErr)
				}
				return
			}

			// Send queued messages
			n := len(c.send)
			for i := 0; i < n; i++ {
				if _, err := w.Write([]byte{'\n'}); err != nil {
					if closeErr := w.Close(); closeErr != nil {
						log.Printf("Failed to close writer after write error: %v", closeErr)
					}
					return
				}
				if _, err := w.Write(<-c.send); err != nil {
					if closeErr := w.Close(); closeErr != nil {
						log.Printf("Failed to close writer after write error: %v", closeErr)
					}
					return
				}
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Printf("Failed to set write deadline for ping: %v", err)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *WebSocketConnection) sendError(id, errorMsg, code string) {
	errorResp := WebSocketError{
		Type:    "error",
		ID:      id,
		Error:   errorMsg,
		Message: errorMsg,
		Code:    code,
	}

	messageBytes, err := json.Marshal(errorResp)
	if err != nil {
		log.Printf("Failed to marshal error message: %v", err)
		return
	}

	select {
	case c.send <- messageBytes:
	default:
		log.Printf("Failed to send error message: channel full")
	}
}

// sendMessage marshals a typed payload and queues it on the connection.
func (c *WebSocketConnection) sendMessage(messageType, id string, payload interface{}) {
	response := WebSocketMessage{
		Type: messageType,
		ID:   id,
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal %s payload: %v", messageType, err)
			return
		}
		response.Data = data
	}

	responseBytes, err := json.Marshal(response)
	if err != nil {
		log.Printf("Failed to marshal %s response: %v", messageType, err)
		return
	}

	select {
	case c.send <- responseBytes:
	default:
		log.Printf("Failed to send %s: channel full", messageType)
	}
}

// handleMessage routes messages to appropriate handlers
func (h *WebSocketHandlers) handleMessage(conn *WebSocketConnection, msg *WebSocketMessage) {
	switch msg.Type {
	case "ping":
		h.handlePing(conn, msg)
	case "player_move":
		h.handlePlayerMove(conn, msg)
	case "open_chest":
		h.handleOpenChest(conn, msg)
	case "stream_subscribe":
		h.handleStreamSubscribe(conn, msg)
	case "stream_update_pose":
		h.handleStreamUpdatePose(conn, msg)
	default:
		conn.sendError(msg.ID, "Unknown message type", "UnknownMessageType")
	}
}

// handlePing responds to ping messages
func (h *WebSocketHandlers) handlePing(conn *WebSocketConnection, msg *WebSocketMessage) {
	conn.sendMessage("pong", msg.ID, nil)
}

// OverlayState is the mutable per-cell state attached to a chunk payload.
type OverlayState struct {
	CellX        int  `json:"cell_x"`
	CellZ        int  `json:"cell_z"`
	ChestEmptied bool `json:"chest_emptied"`
}

// ChunkData represents a single chunk in a stream_delta payload. The cell
// grid travels in the compact binary encoding; overlays ride alongside.
type ChunkData struct {
	X         int64                       `json:"x"`
	Y         int64                       `json:"y"`
	Z         int64                       `json:"z"`
	Structure string                      `json:"structure"`
	Grid      *compression.CompressedGrid `json:"grid"`
	Overlays  []OverlayState              `json:"overlays,omitempty"`
}

// ChunkDataResponse represents the data payload for a stream_delta message
type ChunkDataResponse struct {
	Chunks        []ChunkData           `json:"chunks"`
	RemovedChunks []worldgen.ChunkCoord `json:"removed_chunks,omitempty"`
}

// loadChunks generates and packages the chunks at the given coordinates.
// Generation is pure; the only fallible parts are the overlay lookup and
// the grid encoding, both of which drop the chunk from the payload rather
// than failing the whole batch.
func (h *WebSocketHandlers) loadChunks(coords []worldgen.ChunkCoord) []ChunkData {
	op := h.profiler.Start(performance.OpChunkLoading)
	defer op.End()

	seed := h.config.World.Seed

	chunks := make([]ChunkData, 0, len(coords))
	for _, coord := range coords {
		genOp := h.profiler.Start(performance.OpChunkGeneration)
		chunk := worldgen.ChunkFromXYZSeed(seed, coord.X, coord.Y, coord.Z)
		genOp.End()

		compressOp := h.profiler.Start(performance.OpChunkCompression)
		grid, err := compression.CompressAndFormatGrid(&chunk)
		compressOp.End()
		if err != nil {
			log.Printf("Failed to encode chunk (%d,%d,%d): %v", coord.X, coord.Y, coord.Z, err)
			continue
		}

		var overlayStates []OverlayState
		if h.overlays != nil {
			overlays, err := h.overlays.GetChunkOverlays(coord.X, coord.Y, coord.Z)
			if err != nil {
				log.Printf("Failed to load overlays for chunk (%d,%d,%d): %v", coord.X, coord.Y, coord.Z, err)
			} else {
				for key, overlay := range overlays {
					overlayStates = append(overlayStates, OverlayState{
						CellX:        key.X,
						CellZ:        key.Z,
						ChestEmptied: overlay.ChestEmptied,
					})
				}
			}
		}

		chunks = append(chunks, ChunkData{
			X:         chunk.X,
			Y:         chunk.Y,
			Z:         chunk.Z,
			Structure: string(chunk.Structure),
			Grid:      grid,
			Overlays:  overlayStates,
		})
	}

	return chunks
}

// sendChunkData sends chunk payloads to a WebSocket connection
func (h *WebSocketHandlers) sendChunkData(conn *WebSocketConnection, chunks []ChunkData, removed []worldgen.ChunkCoord, messageType, messageID string) {
	// Recover handles sends racing connection teardown (channel closed by hub).
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Failed to send %s: connection closed (panic: %v)", messageType, r)
		}
	}()

	conn.sendMessage(messageType, messageID, ChunkDataResponse{
		Chunks:        chunks,
		RemovedChunks: removed,
	})
}

// handleStreamSubscribe registers a server-driven streaming subscription.
func (h *WebSocketHandlers) handleStreamSubscribe(conn *WebSocketConnection, msg *WebSocketMessage) {
	var req streaming.SubscriptionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		conn.sendError(msg.ID, "Invalid stream_subscribe payload", "InvalidMessageFormat")
		return
	}

	log.Printf("[Stream] stream_subscribe received: user_id=%d, position=(%.1f,%.1f,%.1f), distances=(%d,%d,%d), include_chunks=%v",
		conn.userID, req.Pose.Position.X, req.Pose.Position.Y, req.Pose.Position.Z,
		req.XDistance, req.YDistance, req.ZDistance, req.IncludeChunks)

	op := h.profiler.Start(performance.OpStreamSubscribe)
	plan, err := h.streamManager.PlanSubscription(conn.userID, req)
	op.End()
	if err != nil {
		log.Printf("[Stream] PlanSubscription failed: %v", err)
		conn.sendError(msg.ID, err.Error(), "InvalidSubscriptionRequest")
		return
	}

	log.Printf("[Stream] PlanSubscription success: subscription_id=%s, active_chunk=(%d,%d,%d), chunk_count=%d",
		plan.SubscriptionID, plan.ActiveChunk.X, plan.ActiveChunk.Y, plan.ActiveChunk.Z, len(plan.Chunks))

	ackPayload := struct {
		SubscriptionID string                `json:"subscription_id"`
		ActiveChunk    worldgen.ChunkCoord   `json:"active_chunk"`
		Chunks         []worldgen.ChunkCoord `json:"chunks,omitempty"`
	}{
		SubscriptionID: plan.SubscriptionID,
		ActiveChunk:    plan.ActiveChunk,
		Chunks:         plan.Chunks,
	}
	conn.sendMessage("stream_ack", msg.ID, ackPayload)

	// Initial chunk delivery runs asynchronously; generation of a full
	// window is too slow to block the read pump.
	if req.IncludeChunks && len(plan.Chunks) > 0 {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Stream] Recovered from panic while sending chunks for subscription %s: %v", plan.SubscriptionID, r)
				}
			}()
			chunks := h.loadChunks(plan.Chunks)
			log.Printf("[Stream] Loaded %d chunks (requested %d) for subscription %s", len(chunks), len(plan.Chunks), plan.SubscriptionID)
			if len(chunks) > 0 {
				h.sendChunkData(conn, chunks, nil, "stream_delta", "")
			}
		}()
	}
}

// StreamUpdatePoseData represents the data payload for a stream_update_pose message
type StreamUpdatePoseData struct {
	SubscriptionID string               `json:"subscription_id"`
	Pose           streaming.PlayerPose `json:"pose"`
}

// handleStreamUpdatePose handles pose update messages and sends chunk deltas.
func (h *WebSocketHandlers) handleStreamUpdatePose(conn *WebSocketConnection, msg *WebSocketMessage) {
	var req StreamUpdatePoseData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		conn.sendError(msg.ID, "Invalid stream_update_pose payload", "InvalidMessageFormat")
		return
	}

	if req.SubscriptionID == "" {
		conn.sendError(msg.ID, "subscription_id is required", "InvalidMessageFormat")
		return
	}

	op := h.profiler.Start(performance.OpStreamUpdatePose)
	chunkDelta, err := h.streamManager.UpdatePose(conn.userID, req.SubscriptionID, req.Pose)
	op.End()
	if err != nil {
		log.Printf("[Stream] UpdatePose failed: %v", err)
		conn.sendError(msg.ID, err.Error(), "InvalidSubscriptionRequest")
		return
	}

	subscription, err := h.streamManager.GetSubscription(req.SubscriptionID)
	if err != nil {
		log.Printf("[Stream] GetSubscription failed: %v", err)
		conn.sendError(msg.ID, err.Error(), "InvalidSubscriptionRequest")
		return
	}

	// Added chunks are generated and delivered asynchronously; removed
	// chunks ride along so the client can evict them.
	if subscription.Request.IncludeChunks &&
		(len(chunkDelta.AddedChunks) > 0 || len(chunkDelta.RemovedChunks) > 0) {
		log.Printf("[Stream] Chunk delta: added=%d, removed=%d", len(chunkDelta.AddedChunks), len(chunkDelta.RemovedChunks))

		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Stream] Recovered from panic while sending chunk deltas for subscription %s: %v", req.SubscriptionID, r)
				}
			}()
			chunks := h.loadChunks(chunkDelta.AddedChunks)
			if len(chunks) > 0 || len(chunkDelta.RemovedChunks) > 0 {
				h.sendChunkData(conn, chunks, chunkDelta.RemovedChunks, "stream_delta", "")
			}
		}()
	}

	ackPayload := struct {
		SubscriptionID string                `json:"subscription_id"`
		ChunkDelta     *streaming.ChunkDelta `json:"chunk_delta,omitempty"`
	}{
		SubscriptionID: req.SubscriptionID,
		ChunkDelta:     chunkDelta,
	}
	conn.sendMessage("stream_pose_ack", msg.ID, ackPayload)
}

// PlayerMoveData represents the data payload for a player_move message
type PlayerMoveData struct {
	Position worldgen.WorldPosition `json:"position"`
}

// handlePlayerMove handles player movement updates
func (h *WebSocketHandlers) handlePlayerMove(conn *WebSocketConnection, msg *WebSocketMessage) {
	var moveData PlayerMoveData
	if err := json.Unmarshal(msg.Data, &moveData); err != nil {
		conn.sendError(msg.ID, "Invalid player_move format", "InvalidMessageFormat")
		return
	}

	if err := moveData.Position.Validate(); err != nil {
		conn.sendError(msg.ID, "Invalid position", "InvalidMessageFormat")
		return
	}

	if h.db != nil {
		query := `
			UPDATE players
			SET position_x = $1,
			    position_y = $2,
			    position_z = $3
			WHERE id = $4
			RETURNING id
		`
		var updatedID int64
		err := h.db.QueryRow(query, moveData.Position.X, moveData.Position.Y, moveData.Position.Z, conn.userID).Scan(&updatedID)
		if err == sql.ErrNoRows {
			conn.sendError(msg.ID, "Player not found", "NotFound")
			return
		}
		if err != nil {
			log.Printf("Failed to update player position: %v", err)
			conn.sendError(msg.ID, "Failed to update position", "InternalError")
			return
		}
	}

	marker := worldgen.MarkerFromPosition(moveData.Position)
	cellX, cellZ := marker.CellXZ()

	ackPayload := struct {
		Success     bool                `json:"success"`
		ActiveChunk worldgen.ChunkCoord `json:"active_chunk"`
		CellX       int                 `json:"cell_x"`
		CellZ       int                 `json:"cell_z"`
	}{
		Success:     true,
		ActiveChunk: marker.ChunkXYZ(),
		CellX:       cellX,
		CellZ:       cellZ,
	}
	conn.sendMessage("player_move_ack", msg.ID, ackPayload)
}

// OpenChestData represents the data payload for an open_chest message
type OpenChestData struct {
	Chunk worldgen.ChunkCoord `json:"chunk"`
	CellX int                 `json:"cell_x"`
	CellZ int                 `json:"cell_z"`
}

// handleOpenChest marks a generated treasure chest as emptied. The overlay
// write is idempotent; reopening an emptied chest simply acks again.
func (h *WebSocketHandlers) handleOpenChest(conn *WebSocketConnection, msg *WebSocketMessage) {
	if h.overlays == nil {
		conn.sendError(msg.ID, "Overlay storage unavailable", "InternalError")
		return
	}

	var data OpenChestData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		conn.sendError(msg.ID, "Invalid open_chest format", "InvalidMessageFormat")
		return
	}

	chunk := worldgen.ChunkFromXYZSeed(h.config.World.Seed, data.Chunk.X, data.Chunk.Y, data.Chunk.Z)
	if data.CellZ < 0 || data.CellZ >= len(chunk.Cells) || data.CellX < 0 || data.CellX >= len(chunk.Cells[data.CellZ]) {
		conn.sendError(msg.ID, "Cell position out of range", "InvalidMessageFormat")
		return
	}
	if chunk.Cells[data.CellZ][data.CellX].Special != worldgen.SpecialTreasureChest {
		conn.sendError(msg.ID, "No treasure chest at this cell", "InvalidTarget")
		return
	}

	if err := h.overlays.SetChestEmptied(data.Chunk.X, data.Chunk.Y, data.Chunk.Z, data.CellX, data.CellZ); err != nil {
		log.Printf("Failed to empty chest at (%d,%d,%d) cell (%d,%d): %v",
			data.Chunk.X, data.Chunk.Y, data.Chunk.Z, data.CellX, data.CellZ, err)
		conn.sendError(msg.ID, "Failed to update chest state", "InternalError")
		return
	}

	ackPayload := struct {
		Success bool                `json:"success"`
		Chunk   worldgen.ChunkCoord `json:"chunk"`
		CellX   int                 `json:"cell_x"`
		CellZ   int                 `json:"cell_z"`
	}{
		Success: true,
		Chunk:   data.Chunk,
		CellX:   data.CellX,
		CellZ:   data.CellZ,
	}
	conn.sendMessage("chest_opened", msg.ID, ackPayload)
}

// GetHub returns the WebSocket hub (for use in other packages)
func (h *WebSocketHandlers) GetHub() *WebSocketHub {
	return h.hub
}
