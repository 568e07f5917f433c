package chat

import (
	"fmt"
	"testing"
)

func TestRoomHistoryEvictsOldestPastLimit(t *testing.T) {
	room := newRoom()
	for i := 1; i <= HistoryLimit+1; i++ {
		room.Append(Message{ID: fmt.Sprintf("m%d", i), Content: fmt.Sprintf("msg %d", i)})
	}

	messages := room.Messages()
	if len(messages) != HistoryLimit {
		t.Fatalf("expected %d messages, got %d", HistoryLimit, len(messages))
	}
	if messages[0].ID != "m2" {
		t.Fatalf("expected oldest message to be m2, got %s", messages[0].ID)
	}
	if messages[len(messages)-1].ID != fmt.Sprintf("m%d", HistoryLimit+1) {
		t.Fatalf("unexpected newest message %s", messages[len(messages)-1].ID)
	}
}

func TestRoomMemberOrderSurvivesRejoin(t *testing.T) {
	room := newRoom()
	room.UpsertMember("c1", Member{Name: "Alice"})
	room.UpsertMember("c2", Member{Name: "Bob"})
	room.UpsertMember("c1", Member{Name: "Alicia"})

	members := room.MembersInOrder()
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].ConnID != "c1" || members[0].Member.Name != "Alicia" {
		t.Fatalf("re-join should keep the original slot, got %+v", members[0])
	}
	if members[1].ConnID != "c2" {
		t.Fatalf("expected c2 second, got %s", members[1].ConnID)
	}
}

func TestRoomRemoveMember(t *testing.T) {
	room := newRoom()
	room.UpsertMember("c1", Member{Name: "Alice"})
	room.UpsertMember("c2", Member{Name: "Bob"})

	m, ok := room.RemoveMember("c1")
	if !ok || m.Name != "Alice" {
		t.Fatalf("expected to remove Alice, got %+v ok=%v", m, ok)
	}
	if _, ok := room.RemoveMember("c1"); ok {
		t.Fatal("second removal should report absence")
	}
	members := room.MembersInOrder()
	if len(members) != 1 || members[0].ConnID != "c2" {
		t.Fatalf("unexpected members after removal: %+v", members)
	}
}

func TestRegistryGetDoesNotCreate(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Get("nowhere"); ok {
		t.Fatal("Get must not create rooms")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}

	room := reg.GetOrCreate("general")
	if room == nil {
		t.Fatal("GetOrCreate returned nil")
	}
	if again := reg.GetOrCreate("general"); again != room {
		t.Fatal("GetOrCreate must be idempotent")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one room, got %d", reg.Len())
	}
}
