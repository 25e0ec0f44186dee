package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

const (
	usersCollection  = "users"
	sheetsCollection = "sheets"
)

// Store keeps users and sheets in two collections. Questions are embedded in
// their sheet document.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	sheets *mongo.Collection
	now    func() time.Time
	newID  func() string
}

var (
	_ ports.SheetRepository = (*Store)(nil)
	_ ports.UserRepository  = (*Store)(nil)
)

// New connects to uri, checks the connection and makes sure the indexes exist.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		sheets: db.Collection(sheetsCollection),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "clerkId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.sheets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureUser inserts the user unless one with the same ClerkID exists.
func (s *Store) EnsureUser(ctx context.Context, user model.User) error {
	now := s.now()
	_, err := s.users.UpdateOne(ctx,
		bson.M{"clerkId": user.ClerkID},
		bson.M{"$setOnInsert": userDoc{
			ClerkID:   user.ClerkID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}},
		options.Update().SetUpsert(true),
	)
	return model.NewStorageError("mongo: ensure user", err)
}
