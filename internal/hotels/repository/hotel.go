package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"confstay/pkg/config"
	"confstay/pkg/model"
)

const (
	CollectionName     = "Hotels"
	RoomCollectionName = "Rooms"
)

var ErrHotelNotFound = errors.New("hotel not found")

const defaultTimeout = 5 * time.Second

// HotelRepository reads the hotel catalog. The catalog is seeded by an
// upstream admin flow, so this surface is read-only.
type HotelRepository interface {
	FindAll(ctx context.Context) ([]model.Hotel, error)
	FindByIDWithRooms(ctx context.Context, hotelID int64) (*model.HotelWithRooms, error)
}

type mongoHotelRepository struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	return &mongoHotelRepository{
		cfg: cfg,
		db:  cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
	}
}

func (r *mongoHotelRepository) FindAll(ctx context.Context) ([]model.Hotel, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.db.Collection(CollectionName).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	hotels := []model.Hotel{}
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *mongoHotelRepository) FindByIDWithRooms(ctx context.Context, hotelID int64) (*model.HotelWithRooms, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": hotelID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         RoomCollectionName,
			"localField":   "_id",
			"foreignField": "hotel_id",
			"as":           "rooms",
		}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.db.Collection(CollectionName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.HotelWithRooms
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrHotelNotFound
	}
	return &results[0], nil
}

// withTimeout bounds a storage call unless the caller already runs inside a
// session, whose lifetime the transaction manager owns.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}
