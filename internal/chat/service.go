package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"teamchat-backend/internal/weather"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// aggregateFanout bounds how many weather lookups one aggregation keeps in
// flight at a time.
const aggregateFanout = 4

// WeatherResolver is the lookup-cache seam; *weather.Service implements it.
type WeatherResolver interface {
	Resolve(ctx context.Context, city string) (weather.Payload, error)
}

// Service owns the room registry and per-connection membership state and
// implements the join/leave/disconnect lifecycle, the message relay, and
// the team weather aggregation. One mutex serializes all registry and
// joined-set mutation; it is never held across a network call or a sink
// send.
type Service struct {
	mu       sync.Mutex
	registry *Registry
	conns    map[string]map[string]struct{}

	sink    Sink
	weather WeatherResolver
	now     func() time.Time
	newID   func() string
}

func New(registry *Registry, sink Sink, resolver WeatherResolver) *Service {
	return NewWithClock(registry, sink, resolver, time.Now, uuid.NewString)
}

func NewWithClock(registry *Registry, sink Sink, resolver WeatherResolver, now func() time.Time, newID func() string) *Service {
	return &Service{
		registry: registry,
		conns:    make(map[string]map[string]struct{}),
		sink:     sink,
		weather:  resolver,
		now:      now,
		newID:    newID,
	}
}

// Join adds the connection to the room, sends it the room history, and
// notifies the room. An empty roomID is a complete no-op: no room is
// created, nothing is emitted.
func (s *Service) Join(ctx context.Context, connID, roomID, username, city, country string) {
	if roomID == "" {
		return
	}

	name := strings.TrimSpace(username)
	if name == "" {
		name = GuestName
	}

	s.mu.Lock()
	room := s.registry.GetOrCreate(roomID)
	room.UpsertMember(connID, Member{
		Name:    name,
		City:    strings.TrimSpace(city),
		Country: strings.TrimSpace(country),
	})
	if s.conns[connID] == nil {
		s.conns[connID] = make(map[string]struct{})
	}
	s.conns[connID][roomID] = struct{}{}
	history := room.Messages()
	s.mu.Unlock()

	s.sink.SendToConn(connID, Event{Name: EventRoomHistory, Payload: RoomHistoryPayload{RoomID: roomID, Messages: history}})
	s.sink.SendToRoomExcept(roomID, connID, Event{Name: EventUserJoined, Payload: PresencePayload{RoomID: roomID, Username: name}})
	s.EmitAggregate(ctx, roomID)
}

// Leave is a no-op unless the connection actually joined the room.
func (s *Service) Leave(ctx context.Context, connID, roomID string) {
	if roomID == "" {
		return
	}

	s.mu.Lock()
	joined := s.conns[connID]
	if _, ok := joined[roomID]; !ok {
		s.mu.Unlock()
		return
	}
	room, ok := s.registry.Get(roomID)
	if !ok {
		s.mu.Unlock()
		return
	}
	member, _ := room.RemoveMember(connID)
	delete(joined, roomID)
	s.mu.Unlock()

	name := member.Name
	if name == "" {
		name = GuestName
	}
	s.sink.SendToRoomExcept(roomID, connID, Event{Name: EventUserLeft, Payload: PresencePayload{RoomID: roomID, Username: name}})
	s.EmitAggregate(ctx, roomID)
}

// Disconnect performs leave cleanup for every room the connection is still
// in. Safe to call repeatedly and after explicit leaves.
func (s *Service) Disconnect(ctx context.Context, connID string) {
	s.mu.Lock()
	joined := s.conns[connID]
	roomIDs := make([]string, 0, len(joined))
	for roomID := range joined {
		roomIDs = append(roomIDs, roomID)
	}
	delete(s.conns, connID)
	s.mu.Unlock()

	for _, roomID := range roomIDs {
		s.mu.Lock()
		room, ok := s.registry.Get(roomID)
		if !ok {
			s.mu.Unlock()
			continue
		}
		member, _ := room.RemoveMember(connID)
		s.mu.Unlock()

		name := member.Name
		if name == "" {
			name = GuestName
		}
		s.sink.SendToRoomExcept(roomID, connID, Event{Name: EventUserLeft, Payload: PresencePayload{RoomID: roomID, Username: name}})
		s.EmitAggregate(ctx, roomID)
	}
}

// Send relays a message to every subscriber of the room, the sender
// included. Sending without joining is permitted and defaults the sender
// name; the room is created on first reference.
func (s *Service) Send(connID, roomID, content string) {
	if roomID == "" || content == "" {
		return
	}

	s.mu.Lock()
	room := s.registry.GetOrCreate(roomID)
	sender := GuestName
	if m, ok := room.Member(connID); ok && m.Name != "" {
		sender = m.Name
	}
	msg := Message{
		ID:        s.newID(),
		RoomID:    roomID,
		Content:   content,
		Sender:    sender,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	room.Append(msg)
	s.mu.Unlock()

	s.sink.SendToRoom(roomID, Event{Name: EventMessage, Payload: msg})
}

// Aggregate resolves weather for every current member of the room. The
// result preserves join order; one member's failure never aborts the rest.
// An absent or empty room yields an empty slice without creating the room.
func (s *Service) Aggregate(ctx context.Context, roomID string) []MemberWeather {
	s.mu.Lock()
	room, ok := s.registry.Get(roomID)
	if !ok || room.MemberCount() == 0 {
		s.mu.Unlock()
		return []MemberWeather{}
	}
	snapshot := room.MembersInOrder()
	s.mu.Unlock()

	results := make([]MemberWeather, len(snapshot))
	var g errgroup.Group
	g.SetLimit(aggregateFanout)
	for i, entry := range snapshot {
		i, entry := i, entry
		g.Go(func() error {
			results[i] = s.memberWeather(ctx, entry)
			return nil
		})
	}
	g.Wait()
	return results
}

func (s *Service) memberWeather(ctx context.Context, entry RoomMember) MemberWeather {
	mw := MemberWeather{
		ID:       entry.ConnID,
		Username: entry.Member.Name,
		City:     entry.Member.City,
		Country:  entry.Member.Country,
	}

	payload, err := s.weather.Resolve(ctx, entry.Member.City)
	if err != nil {
		condition := "Weather unavailable"
		if errors.Is(err, weather.ErrNotConfigured) {
			condition = "Weather service not configured"
		}
		log.Printf("[CHAT]: weather lookup for %q failed: %v", entry.Member.City, err)
		mw.Weather = WeatherSummary{Condition: condition, Error: err.Error()}
		return mw
	}

	mw.Weather = WeatherSummary{
		Temperature: payload.Temperature,
		Condition:   payload.Condition,
		Icon:        payload.Icon,
	}
	return mw
}

// EmitAggregate broadcasts the roster to the room, or a room-scoped error
// event if aggregation itself faults. Per-member lookup failures are
// already absorbed into their entries and do not take this path. Exactly
// one event is emitted per call.
func (s *Service) EmitAggregate(ctx context.Context, roomID string) {
	users, err := s.aggregateSafe(ctx, roomID)
	if err != nil {
		log.Printf("[CHAT]: aggregate for room %q faulted: %v", roomID, err)
		s.sink.SendToRoom(roomID, Event{Name: EventUsersWeatherError, Payload: WeatherErrorPayload{
			RoomID:  roomID,
			Message: "Unable to load team weather data.",
		}})
		return
	}
	s.sink.SendToRoom(roomID, Event{Name: EventUsersWeatherUpdate, Payload: WeatherRosterPayload{RoomID: roomID, Users: users}})
}

func (s *Service) aggregateSafe(ctx context.Context, roomID string) (users []MemberWeather, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregate panicked: %v", r)
		}
	}()
	return s.Aggregate(ctx, roomID), nil
}

// RoomCount reports registry size for metrics.
func (s *Service) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Len()
}
