package mongostore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"park-and-ride/internal/domain/user"
	"park-and-ride/internal/infra"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type userDocument struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	LoyaltyPoints  int       `bson:"loyalty_points"`
	CreatedAt      time.Time `bson:"created_at"`
}

type UserRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewUserRepository(db *mongo.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		coll:   db.Collection(usersCollection),
		logger: logger,
	}
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_unique"),
		},
	})
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create user indexes", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	doc := userDocument{
		ID:             u.ID().String(),
		Email:          u.Email().Value(),
		HashedPassword: u.PasswordHash(),
		LoyaltyPoints:  u.LoyaltyPoints(),
		CreatedAt:      u.CreatedAt(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "user email already registered", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"email": email.Value()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find user by email", err)
	}

	return toDomainUser(doc)
}

func toDomainUser(doc userDocument) (*user.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, err
	}
	email, err := user.NewEmail(doc.Email)
	if err != nil {
		return nil, err
	}
	return user.Reconstruct(id, email, doc.HashedPassword, doc.LoyaltyPoints, doc.CreatedAt.UTC()), nil
}
