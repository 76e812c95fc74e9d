package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peopleops/hrms-api/internal/core/domain"
)

const collectionOrganizations = "organizations"

// defaultOrgName is the tenant every user is attached to until multi-org
// support lands.
const defaultOrgName = "Default Organization"

// OrganizationRepository implements ports.OrganizationRepository.
type OrganizationRepository struct {
	col *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{col: db.Collection(collectionOrganizations)}
}

type orgDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// Default returns the default organization, creating it on first use.
func (r *OrganizationRepository) Default(ctx context.Context) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d orgDoc
	err := r.col.FindOne(ctx, bson.M{"name": defaultOrgName}).Decode(&d)
	if err == nil {
		return &domain.Organization{ID: d.ID.Hex(), Name: d.Name}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find organization: %w", err)
	}

	res, err := r.col.InsertOne(ctx, orgDoc{Name: defaultOrgName})
	if err != nil {
		return nil, fmt.Errorf("seed organization: %w", err)
	}
	return &domain.Organization{
		ID:   res.InsertedID.(primitive.ObjectID).Hex(),
		Name: defaultOrgName,
	}, nil
}
