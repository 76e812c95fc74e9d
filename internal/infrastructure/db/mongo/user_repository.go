package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on MongoDB. The unique
// indexes on email, username and employee_code are the final arbiter for
// the policy layer's uniqueness rules: concurrent writers that both pass
// the pre-checks conflict here, surfacing as domain.ErrConflict.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	OrgID           string             `bson:"org_id"`
	OrgName         string             `bson:"org_name"`
	Email           string             `bson:"email"`
	Username        string             `bson:"username"`
	PasswordHash    string             `bson:"password_hash"`
	FullName        string             `bson:"full_name"`
	Phone           string             `bson:"phone,omitempty"`
	Department      string             `bson:"department,omitempty"`
	Designation     string             `bson:"designation,omitempty"`
	DateOfJoining   time.Time          `bson:"date_of_joining,omitempty"`
	EmployeeCode    string             `bson:"employee_code"`
	EmploymentType  string             `bson:"employment_type"`
	Role            string             `bson:"role"`
	ProfileImageURL string             `bson:"profile_image_url,omitempty"`
	IsActive        bool               `bson:"is_active"`
	LastLogin       *time.Time         `bson:"last_login,omitempty"`
	CreatedByID     string             `bson:"created_by_id,omitempty"`
	CreatedByName   string             `bson:"created_by_name,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toDoc(u *domain.User) userDoc {
	return userDoc{
		OrgID:           u.OrgID,
		OrgName:         u.OrgName,
		Email:           u.Email,
		Username:        u.Username,
		PasswordHash:    u.PasswordHash,
		FullName:        u.FullName,
		Phone:           u.Phone,
		Department:      u.Department,
		Designation:     u.Designation,
		DateOfJoining:   u.DateOfJoining,
		EmployeeCode:    u.EmployeeCode,
		EmploymentType:  string(u.EmploymentType),
		Role:            string(u.Role),
		ProfileImageURL: u.ProfileImageURL,
		IsActive:        u.IsActive,
		LastLogin:       u.LastLogin,
		CreatedByID:     u.CreatedByID,
		CreatedByName:   u.CreatedByName,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:              d.ID.Hex(),
		OrgID:           d.OrgID,
		OrgName:         d.OrgName,
		Email:           d.Email,
		Username:        d.Username,
		PasswordHash:    d.PasswordHash,
		FullName:        d.FullName,
		Phone:           d.Phone,
		Department:      d.Department,
		Designation:     d.Designation,
		DateOfJoining:   d.DateOfJoining,
		EmployeeCode:    d.EmployeeCode,
		EmploymentType:  domain.EmploymentType(d.EmploymentType),
		Role:            domain.Role(d.Role),
		ProfileImageURL: d.ProfileImageURL,
		IsActive:        d.IsActive,
		LastLogin:       d.LastLogin,
		CreatedByID:     d.CreatedByID,
		CreatedByName:   d.CreatedByName,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDoc(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *u
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Update replaces the mutable fields of an existing document in a single
// atomic write.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{
		"email":             u.Email,
		"username":          u.Username,
		"full_name":         u.FullName,
		"phone":             u.Phone,
		"department":        u.Department,
		"designation":       u.Designation,
		"date_of_joining":   u.DateOfJoining,
		"employee_code":     u.EmployeeCode,
		"employment_type":   string(u.EmploymentType),
		"role":              string(u.Role),
		"profile_image_url": u.ProfileImageURL,
		"is_active":         u.IsActive,
		"updated_at":        u.UpdatedAt,
	}}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.FindByID(ctx, u.ID)
}

// FindByID retrieves a user by its record id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmployeeCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"employee_code": code})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

// FindTopByEmployeeCodePrefix returns the lexicographically greatest
// employee code starting with prefix.
func (r *UserRepository) FindTopByEmployeeCodePrefix(ctx context.Context, prefix string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"employee_code": bson.M{"$regex": "^" + prefix}}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "employee_code", Value: -1}}).
		SetProjection(bson.M{"employee_code": 1})

	var d struct {
		EmployeeCode string `bson:"employee_code"`
	}
	if err := r.col.FindOne(ctx, filter, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("find top employee code: %w", err)
	}
	return d.EmployeeCode, nil
}

// List returns a page of users matching filter and the total count.
func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"email": pattern},
			bson.M{"employee_code": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.User
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	return out, total, nil
}

// SetLastLogin records a successful login timestamp.
func (r *UserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"last_login": at}})
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique indexes that back the uniqueness
// invariants on email, username and employee_code.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "employee_code", Value: 1}}, Options: unique},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
