package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estatedash/internal/domain/valuation"
)

// HistoryRepository stores completed valuations in the valuations collection.
type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(ctx context.Context, db *mongo.Database) (*HistoryRepository, error) {
	col := db.Collection("valuations")
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}); err != nil {
		return nil, err
	}
	return &HistoryRepository{col: col}, nil
}

func (r *HistoryRepository) Save(ctx context.Context, rec valuation.Record) error {
	if rec.ID == "" {
		return valuation.ErrRecordInvalid
	}
	doc := fromRecord(rec)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]valuation.Record, error) {
	if limit <= 0 {
		limit = valuation.DefaultHistoryLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []historyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]valuation.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toRecord())
	}
	return out, nil
}

type payloadDocument struct {
	City     string  `bson:"city"`
	District string  `bson:"district"`
	Ward     string  `bson:"ward"`
	Street   string  `bson:"street"`
	Area     float64 `bson:"area"`
	Type     string  `bson:"type"`
	Bedroom  int     `bson:"bedroom"`
	Bathroom int     `bson:"bathroom"`
	Frontage float64 `bson:"frontage"`
	Legal    string  `bson:"legal"`
}

type historyDocument struct {
	ID             string          `bson:"_id"`
	Source         string          `bson:"source"`
	ListingID      string          `bson:"listing_id,omitempty"`
	Payload        payloadDocument `bson:"payload"`
	PredictedPrice float64         `bson:"predicted_price"`
	CreatedAt      time.Time       `bson:"created_at"`
}

func fromRecord(rec valuation.Record) historyDocument {
	p := rec.Payload
	return historyDocument{
		ID:        rec.ID,
		Source:    string(rec.Source),
		ListingID: rec.ListingID,
		Payload: payloadDocument{
			City: p.City, District: p.District, Ward: p.Ward, Street: p.Street,
			Area: p.Area, Type: p.Type, Bedroom: p.Bedroom, Bathroom: p.Bathroom,
			Frontage: p.Frontage, Legal: p.Legal,
		},
		PredictedPrice: rec.PredictedPrice,
		CreatedAt:      rec.CreatedAt.UTC(),
	}
}

func (d historyDocument) toRecord() valuation.Record {
	p := d.Payload
	return valuation.Record{
		ID:        d.ID,
		Source:    valuation.Source(d.Source),
		ListingID: d.ListingID,
		Payload: valuation.Payload{
			City: p.City, District: p.District, Ward: p.Ward, Street: p.Street,
			Area: p.Area, Type: p.Type, Bedroom: p.Bedroom, Bathroom: p.Bathroom,
			Frontage: p.Frontage, Legal: p.Legal,
		},
		PredictedPrice: d.PredictedPrice,
		CreatedAt:      d.CreatedAt,
	}
}

var _ valuation.HistoryRepository = (*HistoryRepository)(nil)
