package room_service_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
)

// MockRoomRepo is a testify mock over the room repository contract so the
// service tests can exercise lifecycle decisions without a database.
type MockRoomRepo struct {
	mock.Mock
}

func roomResult(args mock.Arguments) (*entity.Room, *app_error.AppError) {
	var room *entity.Room
	if v := args.Get(0); v != nil {
		room = v.(*entity.Room)
	}
	var appErr *app_error.AppError
	if v := args.Get(1); v != nil {
		appErr = v.(*app_error.AppError)
	}
	return room, appErr
}

func (m *MockRoomRepo) FindActiveRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, userA, userB))
}

func (m *MockRoomRepo) FindOrCreateRoom(ctx context.Context, userA, userB string, ttl time.Duration) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, userA, userB, ttl))
}

func (m *MockRoomRepo) FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, roomID))
}

func (m *MockRoomRepo) GetRoomSnapshot(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, roomID))
}

func (m *MockRoomRepo) RecordMessage(ctx context.Context, roomID string, msg *entity.Message) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, roomID, msg))
}

func (m *MockRoomRepo) RequestEnd(ctx context.Context, roomID, userID string) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, roomID, userID))
}

func (m *MockRoomRepo) MarkExpired(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	return roomResult(m.Called(ctx, roomID))
}

func (m *MockRoomRepo) SweepExpired(ctx context.Context, now time.Time) ([]*entity.Room, *app_error.AppError) {
	args := m.Called(ctx, now)
	var rooms []*entity.Room
	if v := args.Get(0); v != nil {
		rooms = v.([]*entity.Room)
	}
	var appErr *app_error.AppError
	if v := args.Get(1); v != nil {
		appErr = v.(*app_error.AppError)
	}
	return rooms, appErr
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Append(ctx context.Context, roomID, senderID, content string, msgType entity.MessageType) (*entity.Message, *app_error.AppError) {
	args := m.Called(ctx, roomID, senderID, content, msgType)
	var msg *entity.Message
	if v := args.Get(0); v != nil {
		msg = v.(*entity.Message)
	}
	var appErr *app_error.AppError
	if v := args.Get(1); v != nil {
		appErr = v.(*app_error.AppError)
	}
	return msg, appErr
}

func (m *MockMessageRepo) Range(ctx context.Context, roomID string, start int64, end *int64) ([]*entity.Message, *app_error.AppError) {
	args := m.Called(ctx, roomID, start, end)
	var msgs []*entity.Message
	if v := args.Get(0); v != nil {
		msgs = v.([]*entity.Message)
	}
	var appErr *app_error.AppError
	if v := args.Get(1); v != nil {
		appErr = v.(*app_error.AppError)
	}
	return msgs, appErr
}

func (m *MockMessageRepo) Count(ctx context.Context, roomID string) (int64, *app_error.AppError) {
	args := m.Called(ctx, roomID)
	var appErr *app_error.AppError
	if v := args.Get(1); v != nil {
		appErr = v.(*app_error.AppError)
	}
	return args.Get(0).(int64), appErr
}

// memoryLog implements the message log contract with the same dense 0-based
// seq semantics as the mongo repo, for tests that read back what they wrote.
type memoryLog struct {
	mu       sync.Mutex
	messages map[string][]*entity.Message
}

func newMemoryLog() *memoryLog {
	return &memoryLog{messages: make(map[string][]*entity.Message)}
}

func (l *memoryLog) Append(ctx context.Context, roomID, senderID, content string, msgType entity.MessageType) (*entity.Message, *app_error.AppError) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := &entity.Message{
		RoomID:    roomID,
		Seq:       int64(len(l.messages[roomID])),
		SenderID:  senderID,
		Type:      msgType,
		Content:   content,
		CreatedAt: time.Now(),
	}
	l.messages[roomID] = append(l.messages[roomID], msg)
	return msg, nil
}

func (l *memoryLog) Range(ctx context.Context, roomID string, start int64, end *int64) ([]*entity.Message, *app_error.AppError) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*entity.Message, 0)
	for _, msg := range l.messages[roomID] {
		if msg.Seq < start {
			continue
		}
		if end != nil && msg.Seq > *end {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (l *memoryLog) Count(ctx context.Context, roomID string) (int64, *app_error.AppError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.messages[roomID])), nil
}
