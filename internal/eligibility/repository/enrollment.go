package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"confstay/pkg/config"
	"confstay/pkg/model"
)

const EnrollmentCollectionName = "Enrollments"

// EnrollmentRepository reads the registration records imported from the
// upstream enrollment service. Read-only from this core's point of view.
type EnrollmentRepository interface {
	FindByUser(ctx context.Context, userID int64) (*model.Enrollment, error)
}

type mongoEnrollmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEnrollmentRepository(cfg *config.Config) EnrollmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEnrollmentRepository{
		cfg:        cfg,
		collection: db.Collection(EnrollmentCollectionName),
	}
}

func (r *mongoEnrollmentRepository) FindByUser(ctx context.Context, userID int64) (*model.Enrollment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var enrollment model.Enrollment
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}

	return &enrollment, nil
}

// withTimeout wraps the context with a timeout unless the caller is already
// inside a transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
