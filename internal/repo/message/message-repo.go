package message_repo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
	"github.com/xenn00/pair-chat/state"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	databaseName       = "pair_chat"
	messagesCollection = "messages"
	countersCollection = "room_counters"

	insertMaxAttempts = 3
)

type MessageRepo struct {
	AppState *state.AppState
}

func NewMessageRepo(appState *state.AppState) MessageRepoContract {
	return &MessageRepo{
		AppState: appState,
	}
}

func (r *MessageRepo) messages() *mongo.Collection {
	return r.AppState.Mongo.Database(databaseName).Collection(messagesCollection)
}

func (r *MessageRepo) counters() *mongo.Collection {
	return r.AppState.Mongo.Database(databaseName).Collection(countersCollection)
}

// nextSeq atomically increments the room's counter and returns the id for
// the message being appended. The counter is the single writer order for the
// room's log: two concurrent appends can never receive the same seq. The
// counter document holds the number of allocated ids, so the first message
// of a room gets seq 0.
func (r *MessageRepo) nextSeq(ctx context.Context, roomID string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.counters().FindOneAndUpdate(ctx,
		bson.M{"_id": roomID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq - 1, nil
}

func (r *MessageRepo) Append(ctx context.Context, roomID, senderID, content string, msgType entity.MessageType) (*entity.Message, *app_error.AppError) {
	seq, err := r.nextSeq(ctx, roomID)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to allocate message seq: %v", err), "mongo")
	}

	msg := &entity.Message{
		RoomID:    roomID,
		Seq:       seq,
		SenderID:  senderID,
		Type:      msgType,
		Content:   content,
		CreatedAt: time.Now(),
	}

	// Transient store failures get a bounded retry; the unique (room_id, seq)
	// index makes a retried insert either succeed once or fail as duplicate.
	var insertErr error
	for attempt := 0; attempt < insertMaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(100*(1<<attempt)) * time.Millisecond)
		}
		if _, insertErr = r.messages().InsertOne(ctx, msg); insertErr == nil {
			return msg, nil
		}
		if mongo.IsDuplicateKeyError(insertErr) {
			// A previous attempt landed after its error surfaced.
			return msg, nil
		}
		log.Warn().Err(insertErr).Str("roomID", roomID).Int64("seq", seq).Int("attempt", attempt+1).Msg("message insert failed, retrying")
	}

	return nil, app_error.NewAppError(http.StatusServiceUnavailable, fmt.Sprintf("failed to append message: %v", insertErr), "mongo")
}

func (r *MessageRepo) Range(ctx context.Context, roomID string, start int64, end *int64) ([]*entity.Message, *app_error.AppError) {
	seqFilter := bson.M{"$gte": start}
	if end != nil {
		seqFilter["$lte"] = *end
	}
	filter := bson.M{"room_id": roomID, "seq": seqFilter}

	cur, err := r.messages().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	messages := make([]*entity.Message, 0)
	if err := cur.All(ctx, &messages); err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	return messages, nil
}

func (r *MessageRepo) Count(ctx context.Context, roomID string) (int64, *app_error.AppError) {
	n, err := r.messages().CountDocuments(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to count messages: %v", err), "mongo")
	}
	return n, nil
}
