package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

const vehiclesCollection = "veiculos"

type VehicleRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{db: db, col: db.Collection(vehiclesCollection)}
}

type vehicleDoc struct {
	ID    int64  `bson:"_id"`
	Name  string `bson:"nome"`
	Brand string `bson:"marca"`
	Year  int    `bson:"ano"`
}

func (d vehicleDoc) toDomain() *domain.Vehicle {
	return &domain.Vehicle{ID: d.ID, Name: d.Name, Brand: d.Brand, Year: d.Year}
}

// containsFold matches s anywhere in the field, ignoring case.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *VehicleRepository) List(ctx context.Context, f ports.VehicleFilter) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Name != "" {
		filter["nome"] = containsFold(f.Name)
	}
	if f.Brand != "" {
		filter["marca"] = containsFold(f.Brand)
	}

	cur, err := r.col.Find(ctx, filter, pageOptions(f.Page, ports.PageSize, f.Offset()))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	var docs []vehicleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	out := make([]*domain.Vehicle, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d vehicleDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle %d: %w", id, err)
	}
	return d.toDomain(), nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, vehiclesCollection)
	if err != nil {
		return err
	}

	doc := vehicleDoc{ID: id, Name: v.Name, Brand: v.Brand, Year: v.Year}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}

	v.ID = id
	return nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$set": bson.M{
		"nome":  v.Name,
		"marca": v.Brand,
		"ano":   v.Year,
	}})
	if err != nil {
		return fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the list filters.
func (r *VehicleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "nome", Value: 1}}},
		{Keys: bson.D{{Key: "marca", Value: 1}}},
	})
	return err
}
