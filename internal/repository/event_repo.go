package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"event-share/internal/database"
	"event-share/internal/model"
)

type creatorDocument struct {
	UserID   string `bson:"userId"`
	Username string `bson:"username"`
}

type commentDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    string        `bson:"userId"`
	Username  string        `bson:"username"`
	Text      string        `bson:"text"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type eventDocument struct {
	ID           bson.ObjectID     `bson:"_id,omitempty"`
	Title        string            `bson:"title"`
	Description  string            `bson:"description"`
	Date         time.Time         `bson:"date"`
	Participants []string          `bson:"participants"`
	CreatedBy    creatorDocument   `bson:"createdBy"`
	Comments     []commentDocument `bson:"comments"`
	CreatedAt    time.Time         `bson:"createdAt"`
	UpdatedAt    time.Time         `bson:"updatedAt"`
}

func (d eventDocument) toModel() model.Event {
	e := model.Event{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Date:         d.Date.UTC(),
		Participants: append([]string{}, d.Participants...),
		CreatedBy:    model.Creator{UserID: d.CreatedBy.UserID, Username: d.CreatedBy.Username},
		Comments:     make([]model.Comment, 0, len(d.Comments)),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	for _, c := range d.Comments {
		e.Comments = append(e.Comments, model.Comment{
			ID:        c.ID.Hex(),
			UserID:    c.UserID,
			Username:  c.Username,
			Text:      c.Text,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return e
}

type EventRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{collection: db.Collection(database.EventsCollection), now: time.Now}
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]model.Event, 0)
	for cursor.Next(ctx) {
		var doc eventDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.toModel())
	}
	return events, cursor.Err()
}

func (r *EventRepository) Get(ctx context.Context, id string) (model.Event, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Event{}, model.ErrEventNotFound
	}

	var doc eventDocument
	err = r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Event{}, model.ErrEventNotFound
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("get event: %w", err)
	}
	return doc.toModel(), nil
}

func (r *EventRepository) Create(ctx context.Context, e model.Event) (model.Event, error) {
	now := r.now().UTC()
	doc := eventDocument{
		ID:           bson.NewObjectID(),
		Title:        e.Title,
		Description:  e.Description,
		Date:         e.Date.UTC(),
		Participants: []string{},
		CreatedBy:    creatorDocument{UserID: e.CreatedBy.UserID, Username: e.CreatedBy.Username},
		Comments:     []commentDocument{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return model.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return doc.toModel(), nil
}

func (r *EventRepository) Update(ctx context.Context, id string, changes model.EventChanges) (model.Event, error) {
	set := bson.D{{Key: "updatedAt", Value: r.now().UTC()}}
	if changes.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *changes.Title})
	}
	if changes.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *changes.Description})
	}
	if changes.Date != nil {
		set = append(set, bson.E{Key: "date", Value: changes.Date.UTC()})
	}

	return r.findOneAndUpdate(ctx, id, nil, bson.D{{Key: "$set", Value: set}}, model.ErrEventNotFound)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrEventNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

// AddParticipant appends username only while it is absent, so two concurrent
// joins cannot both succeed.
func (r *EventRepository) AddParticipant(ctx context.Context, id string, username string) (model.Event, error) {
	return r.findOneAndUpdate(ctx, id,
		bson.D{{Key: "participants", Value: bson.D{{Key: "$ne", Value: username}}}},
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "participants", Value: username}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: r.now().UTC()}}},
		},
		model.ErrParticipantsChanged)
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, id string, username string) (model.Event, error) {
	return r.findOneAndUpdate(ctx, id,
		bson.D{{Key: "participants", Value: username}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "participants", Value: username}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: r.now().UTC()}}},
		},
		model.ErrParticipantsChanged)
}

func (r *EventRepository) AddComment(ctx context.Context, id string, c model.Comment) (model.Event, error) {
	doc := commentDocument{
		ID:        bson.NewObjectID(),
		UserID:    c.UserID,
		Username:  c.Username,
		Text:      c.Text,
		CreatedAt: r.now().UTC(),
	}

	return r.findOneAndUpdate(ctx, id, nil,
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "comments", Value: doc}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: doc.CreatedAt}}},
		},
		model.ErrEventNotFound)
}

// findOneAndUpdate applies update to the event matching id and the optional
// guard, returning the updated event or missErr when nothing matched.
func (r *EventRepository) findOneAndUpdate(ctx context.Context, id string, guard bson.D, update bson.D, missErr error) (model.Event, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Event{}, model.ErrEventNotFound
	}

	filter := append(bson.D{{Key: "_id", Value: oid}}, guard...)

	var doc eventDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Event{}, missErr
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}
	return doc.toModel(), nil
}
