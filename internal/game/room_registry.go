package game

import (
	"sync"

	"github.com/google/uuid"
)

// RoomRegistry tracks the live RoomActor of every room.
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*RoomActor
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[uuid.UUID]*RoomActor),
	}
}

func (r *RoomRegistry) Add(actor *RoomActor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[actor.ID] = actor
}

func (r *RoomRegistry) Get(id uuid.UUID) (*RoomActor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rooms[id]
	return a, ok
}

func (r *RoomRegistry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// StopAll stops every registered actor. Used on shutdown.
func (r *RoomRegistry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.rooms {
		a.Stop()
		delete(r.rooms, id)
	}
}
