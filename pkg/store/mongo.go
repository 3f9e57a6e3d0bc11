package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	flowerrors "github.com/matzehuels/flowdoc/pkg/errors"
)

// Collection names used by [MongoStore].
const (
	DocumentsCollection = "documents"
	HistoryCollection   = "history"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI      string
	Database string
}

// MongoStore keeps one document per record, keyed by record id, and one
// document per snapshot.
type MongoStore struct {
	client  *mongo.Client
	docs    *mongo.Collection
	history *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the history index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageErr(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storageErr(err, "ping mongo")
	}
	s := NewMongoStoreFromClient(client, cfg.Database)

	_, err = s.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "documentId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storageErr(err, "create history index")
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client. Closing the store
// disconnects the client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:  client,
		docs:    db.Collection(DocumentsCollection),
		history: db.Collection(HistoryCollection),
	}
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.docs.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "get document %s", id)
	}
	return &rec, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	var prev *Record
	if rec != nil && flowerrors.ValidateDocumentID(rec.ID) == nil {
		var err error
		if prev, err = s.Get(ctx, rec.ID); err != nil {
			return err
		}
	}
	if err := prepare(rec, prev); err != nil {
		return err
	}
	_, err := s.docs.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(err, "put document %s", rec.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.docs.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storageErr(err, "delete document %s", id)
	}
	return s.ClearHistory(ctx, id)
}

func (s *MongoStore) List(ctx context.Context) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.docs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr(err, "list documents")
	}
	recs := []*Record{}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, storageErr(err, "list documents")
	}
	return recs, nil
}

// snapshotDoc adds the generated object id used to order and trim history.
type snapshotDoc struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty"`
	Snapshot `bson:",inline"`
}

func (s *MongoStore) AddSnapshot(ctx context.Context, id, code string) (bool, error) {
	filter := bson.M{"documentId": id}
	newest := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})

	var last snapshotDoc
	err := s.history.FindOne(ctx, filter, newest).Decode(&last)
	switch {
	case err == nil && last.Code == code:
		return false, nil
	case err != nil && !errors.Is(err, mongo.ErrNoDocuments):
		return false, storageErr(err, "add snapshot %s", id)
	}

	snap := snapshotDoc{Snapshot: Snapshot{DocumentID: id, Code: code, Timestamp: now()}}
	if _, err := s.history.InsertOne(ctx, snap); err != nil {
		return false, storageErr(err, "add snapshot %s", id)
	}
	return true, s.trimHistory(ctx, id)
}

// trimHistory deletes the oldest snapshots beyond MaxSnapshots.
func (s *MongoStore) trimHistory(ctx context.Context, id string) error {
	filter := bson.M{"documentId": id}
	count, err := s.history.CountDocuments(ctx, filter)
	if err != nil {
		return storageErr(err, "trim history %s", id)
	}
	over := count - MaxSnapshots
	if over <= 0 {
		return nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(over).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.history.Find(ctx, filter, opts)
	if err != nil {
		return storageErr(err, "trim history %s", id)
	}
	var oldest []snapshotDoc
	if err := cur.All(ctx, &oldest); err != nil {
		return storageErr(err, "trim history %s", id)
	}
	ids := make([]primitive.ObjectID, len(oldest))
	for i, d := range oldest {
		ids[i] = d.ObjectID
	}
	if _, err := s.history.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return storageErr(err, "trim history %s", id)
	}
	return nil
}

func (s *MongoStore) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.history.Find(ctx, bson.M{"documentId": id}, opts)
	if err != nil {
		return nil, storageErr(err, "read history %s", id)
	}
	var docs []snapshotDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr(err, "read history %s", id)
	}
	history := make([]Snapshot, len(docs))
	for i, d := range docs {
		history[i] = d.Snapshot
	}
	return history, nil
}

func (s *MongoStore) ClearHistory(ctx context.Context, id string) error {
	if _, err := s.history.DeleteMany(ctx, bson.M{"documentId": id}); err != nil {
		return storageErr(err, "clear history %s", id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
