// Package mongostore keeps users, notices and events as MongoDB documents.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
)

const (
	usersCollection   = "users"
	noticesCollection = "notices"
	eventsCollection  = "events"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
	}
}

// EnsureIndexes creates the unique email index the user store relies on for
// duplicate detection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (s *Store) Users() repository.UserStore {
	return userStore{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Notices() repository.NoticeStore {
	return noticeStore{coll: s.db.Collection(noticesCollection)}
}

func (s *Store) Events() repository.EventStore {
	return eventStore{coll: s.db.Collection(eventsCollection)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type userStore struct {
	coll *mongo.Collection
}

func (u userStore) Create(ctx context.Context, user models.User) error {
	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (u userStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, repository.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (u userStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := u.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u userStore) UpdateProfile(ctx context.Context, email string, profile models.UserProfile, at time.Time) (models.User, error) {
	var user models.User
	err := u.coll.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": profileUpdate(profile, at)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, repository.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func profileUpdate(profile models.UserProfile, at time.Time) bson.M {
	set := bson.M{
		"fullName":    profile.FullName,
		"designation": profile.Designation,
		"updatedAt":   at,
	}
	if profile.Image != nil {
		set["image"] = *profile.Image
	}
	if profile.ID != nil {
		set["id"] = *profile.ID
	}
	if profile.Department != nil {
		set["department"] = *profile.Department
	}
	if profile.UserType != nil {
		set["userType"] = *profile.UserType
	}
	return set
}

func (u userStore) UpdateRole(ctx context.Context, email string, role models.UserRole, at time.Time) error {
	res, err := u.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role, "updatedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (u userStore) Delete(ctx context.Context, email string) error {
	res, err := u.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// noticeQuery renders a visibility filter as a MongoDB query document.
func noticeQuery(filter repository.NoticeFilter) bson.M {
	if filter.Unrestricted {
		return bson.M{}
	}
	clauses := bson.A{
		bson.M{"targetAudience": bson.M{"$in": filter.Audiences}},
	}
	if len(filter.Departments) > 0 {
		clauses = append(clauses, bson.M{"department": bson.M{"$in": filter.Departments}})
	}
	return bson.M{"$or": clauses}
}

type noticeStore struct {
	coll *mongo.Collection
}

func (n noticeStore) Create(ctx context.Context, notice models.Notice) error {
	_, err := n.coll.InsertOne(ctx, notice)
	return err
}

func (n noticeStore) Get(ctx context.Context, id string, filter repository.NoticeFilter) (models.Notice, error) {
	query := bson.M{"_id": id}
	if !filter.Unrestricted {
		query = bson.M{"$and": bson.A{query, noticeQuery(filter)}}
	}

	var notice models.Notice
	if err := n.coll.FindOne(ctx, query).Decode(&notice); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notice{}, repository.ErrNoticeNotFound
		}
		return models.Notice{}, err
	}
	return notice, nil
}

func (n noticeStore) List(ctx context.Context, filter repository.NoticeFilter) ([]models.Notice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := n.coll.Find(ctx, noticeQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	notices := []models.Notice{}
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

func (n noticeStore) Update(ctx context.Context, notice models.Notice) (models.Notice, error) {
	var updated models.Notice
	err := n.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": notice.ID},
		bson.M{"$set": bson.M{
			"title":          notice.Title,
			"category":       notice.Category,
			"description":    notice.Description,
			"image":          notice.Image,
			"date":           notice.Date,
			"targetAudience": notice.TargetAudience,
			"department":     notice.Department,
			"updatedAt":      notice.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notice{}, repository.ErrNoticeNotFound
		}
		return models.Notice{}, err
	}
	return updated, nil
}

func (n noticeStore) Delete(ctx context.Context, id string) error {
	res, err := n.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNoticeNotFound
	}
	return nil
}

type eventStore struct {
	coll *mongo.Collection
}

func (e eventStore) Create(ctx context.Context, event models.Event) error {
	_, err := e.coll.InsertOne(ctx, event)
	return err
}

func (e eventStore) Get(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := e.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, repository.ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (e eventStore) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := e.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (e eventStore) Update(ctx context.Context, event models.Event) (models.Event, error) {
	var updated models.Event
	err := e.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": event.ID},
		bson.M{"$set": bson.M{
			"name":      event.Name,
			"date":      event.Date,
			"time":      event.Time,
			"venue":     event.Venue,
			"details":   event.Details,
			"image":     event.Image,
			"updatedAt": event.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, repository.ErrEventNotFound
		}
		return models.Event{}, err
	}
	return updated, nil
}

func (e eventStore) Delete(ctx context.Context, id string) error {
	res, err := e.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrEventNotFound
	}
	return nil
}
