// Package mongo implements the UserStore contract against a MongoDB
// collection. The active-account predicate is part of every finder filter
// rather than an implicit query hook, so the exclusion of soft-deleted
// users stays visible at the call site.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LiquidN2/natours/store"
)

// Store wraps the users collection.
type Store struct {
	coll *mongo.Collection
}

// New returns a Store over db's "users" collection.
func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// activeFilter matches documents whose active flag has not been flipped off.
func activeFilter() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*store.User, error) {
	var u store.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	filter := activeFilter()
	filter["email"] = store.NormalizeEmail(email)
	return s.findOne(ctx, filter)
}

func (s *Store) FindByID(ctx context.Context, id string) (*store.User, error) {
	filter := activeFilter()
	filter["_id"] = id
	return s.findOne(ctx, filter)
}

func (s *Store) FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*store.User, error) {
	filter := activeFilter()
	filter["passwordResetToken"] = hash
	filter["passwordResetExpires"] = bson.M{"$gt": now}
	return s.findOne(ctx, filter)
}

func (s *Store) FindByConfirmTokenHash(ctx context.Context, hash string) (*store.User, error) {
	filter := activeFilter()
	filter["emailConfirmToken"] = hash
	return s.findOne(ctx, filter)
}

func (s *Store) Create(ctx context.Context, user *store.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.Email = store.NormalizeEmail(user.Email)

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, user *store.User) error {
	user.Email = store.NormalizeEmail(user.Email)

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("save user: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, update store.Update) (*store.User, error) {
	set := bson.M{}
	unset := bson.M{}

	if update.EmailConfirmed != nil {
		set["emailConfirmed"] = *update.EmailConfirmed
	}
	if update.EmailConfirmToken != nil {
		if *update.EmailConfirmToken == "" {
			unset["emailConfirmToken"] = ""
		} else {
			set["emailConfirmToken"] = *update.EmailConfirmToken
		}
	}
	if update.TwoFactorEnabled != nil {
		set["twoFactorEnabled"] = *update.TwoFactorEnabled
	}
	if update.TwoFactorSecret != nil {
		if *update.TwoFactorSecret == "" {
			unset["twoFactorSecret"] = ""
		} else {
			set["twoFactorSecret"] = *update.TwoFactorSecret
		}
	}

	change := bson.M{}
	if len(set) > 0 {
		change["$set"] = set
	}
	if len(unset) > 0 {
		change["$unset"] = unset
	}
	if len(change) == 0 {
		return s.FindByID(ctx, id)
	}

	filter := activeFilter()
	filter["_id"] = id

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u store.User
	err := s.coll.FindOneAndUpdate(ctx, filter, change, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}
