package profile

import (
	"context"
	goerrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/snapline/pkg/errors"
)

// mongoDocument is the stored shape of one profile.
type mongoDocument struct {
	Name      string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per profile, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	// owned reports whether Close should disconnect the client.
	owned bool
}

// NewMongoStore uses coll from an existing client. Close leaves the client
// connected.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: coll.Database().Client(), coll: coll}
}

// OpenMongo connects to uri and verifies the connection.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	s := NewMongoStore(client.Database(database).Collection(collection))
	s.owned = true
	return s, nil
}

// Load finds the profile document.
func (s *MongoStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStorage, err, "load profile %s", name)
	}
	return doc.Data, true, nil
}

// Save replaces or inserts the profile document.
func (s *MongoStore) Save(ctx context.Context, name string, data []byte) error {
	doc := mongoDocument{Name: name, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save profile %s", name)
	}
	return nil
}

// Delete removes the profile document.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete profile %s", name)
	}
	return nil
}

// Close disconnects the client when the store opened it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
