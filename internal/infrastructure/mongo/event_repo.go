package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/the-abed/event-flow-server/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type eventDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	OwnerID     string        `bson:"owner_id"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Date        time.Time     `bson:"date"`
	Location    string        `bson:"location"`
	Image       *string       `bson:"image,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"`
}

func (d *eventDoc) toDomain() *domain.Event {
	return &domain.Event{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Location:    d.Location,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
	}
}

type EventRepository struct {
	coll *mongo.Collection
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	doc := eventDoc{
		ID:          bson.NewObjectID(),
		OwnerID:     event.OwnerID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Location:    event.Location,
		Image:       event.Image,
		CreatedAt:   event.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	var doc eventDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	return r.find(ctx, bson.D{})
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	return r.find(ctx, bson.D{{Key: "owner_id", Value: ownerID}})
}

func (r *EventRepository) find(ctx context.Context, filter bson.D) ([]*domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]*domain.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toDomain())
	}
	return events, nil
}
