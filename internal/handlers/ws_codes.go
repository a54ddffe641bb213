// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the room handler.
// Authentication fails with HTTP 401 before the upgrade, so it has no close code.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	InvalidUserIDError  = 3002 // User is not seated in the room.
	InvalidRoomIDError  = 3003 // Room in the WS URL does not exist or has ended.
)
