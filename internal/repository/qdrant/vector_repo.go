package qdrant

import (
	"context"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// VectorRepo хранит векторы признаков товаров в Qdrant. ID точки равен ID товара.
type VectorRepo struct {
	client *clients.QdrantClient
}

func NewVectorRepo(client *clients.QdrantClient) *VectorRepo {
	return &VectorRepo{client: client}
}

// Upsert сохраняет или обновляет векторы товаров.
func (q *VectorRepo) Upsert(ctx context.Context, vectors []domain.ProductVector) error {
	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, vector := range vectors {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(vector.ProductID)),
			Vectors: qdrant.NewVectors(vector.Vector...),
			Payload: qdrant.NewValueMap(map[string]any(vector.Payload)),
		})
	}

	_, err := q.client.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.client.CollectionName(),
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Similar возвращает ID ближайших товаров по косинусной близости, исключая сам товар.
func (q *VectorRepo) Similar(ctx context.Context, productID int64, vector []float32, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}

	points, err := q.client.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.client.CollectionName(),
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			MustNot: []*qdrant.Condition{
				qdrant.NewHasID(qdrant.NewIDNum(uint64(productID))),
			},
		},
		Limit: qdrant.PtrOf(uint64(limit)),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ids := make([]int64, 0, len(points))
	for _, p := range points {
		ids = append(ids, int64(p.GetId().GetNum()))
	}

	return ids, nil
}
