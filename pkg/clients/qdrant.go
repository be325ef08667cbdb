package clients

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// keywordFields поля payload вектора товара, по которым строятся keyword-индексы.
var keywordFields = []string{"category", "brand", "efficiency"}

type QdrantClient struct {
	Client *qdrant.Client
	cfg    *config.QdrantCfg
}

func NewQdrantClient(cfg *config.QdrantCfg) (*QdrantClient, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.ApiKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &QdrantClient{Client: client, cfg: cfg}, nil
}

func (c *QdrantClient) CollectionName() string {
	return c.cfg.QdrantCollectionName
}

func (c *QdrantClient) VectorSize() uint64 {
	return c.cfg.VectorSize
}

func (c *QdrantClient) Close() error {
	return c.Client.Close()
}

// EnsureCollection создает коллекцию векторов товаров с индексами payload.
// Если коллекция уже есть, ее размерность должна совпадать с VECTOR_SIZE.
func EnsureCollection(ctx context.Context, c *QdrantClient) error {
	name := c.CollectionName()

	exists, err := c.Client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %q: %w", name, err)
	}

	if exists {
		info, err := c.Client.GetCollectionInfo(ctx, name)
		if err != nil {
			return fmt.Errorf("get collection %q: %w", name, err)
		}
		return CheckVectorSize(name, info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize(), c.VectorSize())
	}

	if err := c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.VectorSize(),
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("create collection %q: %w", name, err)
	}

	for _, field := range keywordFields {
		if _, err := c.Client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		}); err != nil {
			return fmt.Errorf("create %s index: %w", field, err)
		}
	}

	return nil
}

// CheckVectorSize сравнивает размерность существующей коллекции с настроенной.
func CheckVectorSize(collection string, actual, want uint64) error {
	if actual != want {
		return fmt.Errorf("collection %q has vector size %d, configured %d: recreate it or change VECTOR_SIZE", collection, actual, want)
	}
	return nil
}
