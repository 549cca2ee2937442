package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

const collectionPromotions = "admin_promotion_requests"

// PromotionRepository is an append-only log; entries are never updated.
type PromotionRepository struct {
	col *mongo.Collection
}

func NewPromotionRepository(db *mongo.Database) *PromotionRepository {
	return &PromotionRepository{col: db.Collection(collectionPromotions)}
}

type promotionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	RequestedBy string             `bson:"requested_by,omitempty"`
	TargetEmail string             `bson:"target_email"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *PromotionRepository) Append(ctx context.Context, p *domain.AdminPromotionRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, promotionDoc{
		RequestedBy: p.RequestedBy,
		TargetEmail: domain.NormalizeEmail(p.TargetEmail),
		Status:      p.Status,
		CreatedAt:   p.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *PromotionRepository) FindByEmail(ctx context.Context, email string) ([]domain.AdminPromotionRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"target_email": domain.NormalizeEmail(email)})
	if err != nil {
		return nil, fmt.Errorf("find promotions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []promotionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode promotions: %w", err)
	}
	out := make([]domain.AdminPromotionRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.AdminPromotionRequest{
			ID:          d.ID.Hex(),
			RequestedBy: d.RequestedBy,
			TargetEmail: d.TargetEmail,
			Status:      d.Status,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, nil
}

func (r *PromotionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "target_email", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
