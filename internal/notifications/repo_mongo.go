package notifications

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "notifications"

type notificationDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Message   string    `bson:"message"`
	Type      string    `bson:"type"`
	Read      bool      `bson:"read"`
	CreatedAt time.Time `bson:"created_at"`
	Seq       int64     `bson:"seq"`
}

func toDoc(n Notification) notificationDoc {
	return notificationDoc{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.Date.UTC(),
		Seq:       n.Seq,
	}
}

func (d notificationDoc) notification() Notification {
	return Notification{
		ID:      d.ID,
		UserID:  d.UserID,
		Message: d.Message,
		Type:    Type(d.Type),
		Read:    d.Read,
		Date:    d.CreatedAt.UTC(),
		Seq:     d.Seq,
	}
}

// MongoRepo stores notifications as documents keyed by id.
type MongoRepo struct {
	col *mongo.Collection

	mu      sync.Mutex
	lastSeq int64
	now     func() time.Time
}

// NewMongoRepo returns a repo over the notifications collection of db.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{col: db.Collection(mongoCollection), now: time.Now}
}

// EnsureIndexes creates the per-user listing index.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "seq", Value: -1}},
		Options: options.Index().SetName("by_user_created"),
	})
	return err
}

// nextSeq returns a strictly increasing nanosecond stamp.
func (r *MongoRepo) nextSeq() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.now().UnixNano()
	if seq <= r.lastSeq {
		seq = r.lastSeq + 1
	}
	r.lastSeq = seq
	return seq
}

func (r *MongoRepo) Insert(ctx context.Context, n Notification) (Notification, error) {
	n.Seq = r.nextSeq()
	if _, err := r.col.InsertOne(ctx, toDoc(n)); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.notification())
	}
	return out, nil
}

func (r *MongoRepo) MarkRead(ctx context.Context, userID, id string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

var _ Repo = (*MongoRepo)(nil)
