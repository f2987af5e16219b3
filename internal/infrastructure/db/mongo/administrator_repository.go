package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Caiquefelipe/minimal-api/internal/core/domain"
	"github.com/Caiquefelipe/minimal-api/internal/core/ports"
)

const administratorsCollection = "administradores"

type AdministratorRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAdministratorRepository(db *mongo.Database) *AdministratorRepository {
	return &AdministratorRepository{db: db, col: db.Collection(administratorsCollection)}
}

type administratorDoc struct {
	ID       int64  `bson:"_id"`
	Email    string `bson:"email"`
	Password string `bson:"senha"`
	Role     string `bson:"perfil"`
}

func (d administratorDoc) toDomain() *domain.Administrator {
	return &domain.Administrator{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domain.Role(d.Role),
	}
}

func (r *AdministratorRepository) List(ctx context.Context, page int) ([]*domain.Administrator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, pageOptions(page, ports.PageSize, ports.PageOffset(page)))
	if err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	var docs []administratorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}

	out := make([]*domain.Administrator, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AdministratorRepository) GetByID(ctx context.Context, id int64) (*domain.Administrator, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AdministratorRepository) GetByEmail(ctx context.Context, email string) (*domain.Administrator, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AdministratorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Administrator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d administratorDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdministratorNotFound
		}
		return nil, fmt.Errorf("find administrator: %w", err)
	}
	return d.toDomain(), nil
}

func (r *AdministratorRepository) Create(ctx context.Context, a *domain.Administrator) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, administratorsCollection)
	if err != nil {
		return err
	}

	doc := administratorDoc{ID: id, Email: a.Email, Password: a.PasswordHash, Role: a.Role.String()}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAdministratorExists
		}
		return fmt.Errorf("insert administrator: %w", err)
	}

	a.ID = id
	return nil
}

func (r *AdministratorRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count administrators: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique e-mail index.
func (r *AdministratorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
