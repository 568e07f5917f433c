package chat

// HistoryLimit bounds every room's message buffer; the oldest message is
// evicted first once the bound is reached.
const HistoryLimit = 500

const GuestName = "Guest"

type Message struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

type Member struct {
	Name    string
	City    string
	Country string
}

// RoomMember pairs a member with the connection id that owns it, used for
// ordered snapshots of a room's membership.
type RoomMember struct {
	ConnID string
	Member Member
}

// Room holds one channel's history and membership. Rooms are not safe for
// concurrent use on their own; the owning Service serializes access.
type Room struct {
	messages []Message
	members  map[string]Member
	order    []string
}

func newRoom() *Room {
	return &Room{
		members: make(map[string]Member),
	}
}

func (r *Room) Append(msg Message) {
	r.messages = append(r.messages, msg)
	if len(r.messages) > HistoryLimit {
		r.messages = r.messages[len(r.messages)-HistoryLimit:]
	}
}

// Messages returns a copy of the history so callers can use it after the
// registry lock is released.
func (r *Room) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// UpsertMember inserts or overwrites the member for connID. A re-join keeps
// the member's original position in the iteration order.
func (r *Room) UpsertMember(connID string, m Member) {
	if _, exists := r.members[connID]; !exists {
		r.order = append(r.order, connID)
	}
	r.members[connID] = m
}

func (r *Room) RemoveMember(connID string) (Member, bool) {
	m, ok := r.members[connID]
	if !ok {
		return Member{}, false
	}
	delete(r.members, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return m, true
}

func (r *Room) Member(connID string) (Member, bool) {
	m, ok := r.members[connID]
	return m, ok
}

func (r *Room) MemberCount() int {
	return len(r.members)
}

// MembersInOrder snapshots the membership in join order.
func (r *Room) MembersInOrder() []RoomMember {
	out := make([]RoomMember, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, RoomMember{ConnID: id, Member: r.members[id]})
	}
	return out
}

// Registry owns the room map. Rooms are created lazily and live for the
// process lifetime. Access is serialized by the owning Service.
type Registry struct {
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (reg *Registry) GetOrCreate(roomID string) *Room {
	room, ok := reg.rooms[roomID]
	if !ok {
		room = newRoom()
		reg.rooms[roomID] = room
	}
	return room
}

func (reg *Registry) Get(roomID string) (*Room, bool) {
	room, ok := reg.rooms[roomID]
	return room, ok
}

func (reg *Registry) Len() int {
	return len(reg.rooms)
}
