package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"confstay/pkg/config"
	"confstay/pkg/model"
)

const TicketCollectionName = "Tickets"

// TicketRepository reads the purchase records owned by the payments service.
// The ticket document embeds its type, so one read answers paid/remote/hotel.
type TicketRepository interface {
	FindByEnrollment(ctx context.Context, enrollmentID int64) (*model.Ticket, error)
}

type mongoTicketRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTicketRepository(cfg *config.Config) TicketRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTicketRepository{
		cfg:        cfg,
		collection: db.Collection(TicketCollectionName),
	}
}

func (r *mongoTicketRepository) FindByEnrollment(ctx context.Context, enrollmentID int64) (*model.Ticket, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var ticket model.Ticket
	err := r.collection.FindOne(ctx, bson.M{"enrollment_id": enrollmentID}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return &ticket, nil
}
