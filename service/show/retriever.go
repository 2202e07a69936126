package show

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/constant"
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/clients/embedding"
	"github.com/rayymaxx/CinePal/pkg/ragdoc"
	"github.com/rayymaxx/CinePal/pkg/tools"
	"github.com/rayymaxx/CinePal/repository/factory"
)

var (
	retrieverOnce     sync.Once
	retrieverInstance *Retriever
)

// EmbeddingProvider 查询向量化
type EmbeddingProvider interface {
	GetTextEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Retriever show_index 上的语义检索
type Retriever struct {
	repositoryFactory factory.Factory
	embeddingProvider EmbeddingProvider
	topK              int
}

func NewRetriever(repositoryFactory factory.Factory, embeddingProvider EmbeddingProvider) *Retriever {
	retrieverOnce.Do(func() {
		retrieverInstance = &Retriever{
			repositoryFactory: repositoryFactory,
			embeddingProvider: embeddingProvider,
			topK:              config.GetInstance().GetIntOrDefault(config.ChatRetrievalTopK, constant.DefaultRetrievalTopK),
		}
	})

	return retrieverInstance
}

// Retrieve 以查询文本做余弦相似度检索，返回 top-k 结果
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]ragdoc.Doc, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	vector, err := r.embeddingProvider.GetTextEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	session := r.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	indexRepo, err := r.repositoryFactory.NewShowIndexRepository(session)
	if err != nil {
		return nil, err
	}

	rows, err := indexRepo.VectorSearch(&model.VectorSearchCondition{
		QueryVector: embedding.VectorToString(vector),
		Limit:       r.topK,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	log.Debugf("Retrieved %d index rows for query %q", len(rows), query)
	return docsFromIndexRows(rows), nil
}

func docsFromIndexRows(rows []*entity.ShowIndex) []ragdoc.Doc {
	docs := make([]ragdoc.Doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, ragdoc.Doc{
			Title:   row.Title,
			Score:   row.Similarity,
			ShowID:  strconv.FormatInt(row.ShowID, 10),
			Excerpt: row.Content,
		})
	}
	return docs
}

// IndexShow 将一条影视元数据写入语义索引
func (r *Retriever) IndexShow(ctx context.Context, data *model.ShowData) error {
	content := indexContent(data)

	vector, err := r.embeddingProvider.GetTextEmbedding(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed show %q: %w", data.Title, err)
	}

	session := r.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	indexRepo, err := r.repositoryFactory.NewShowIndexRepository(session)
	if err != nil {
		return err
	}

	return indexRepo.Insert([]*entity.ShowIndex{{
		ShowID:    data.ShowID,
		Title:     data.Title,
		Content:   content,
		Embedding: embedding.VectorToString(vector),
	}})
}

// indexContent 拼接被向量化的摘要文本
func indexContent(data *model.ShowData) string {
	genres := ""
	for i, g := range data.Genres {
		if i > 0 {
			genres += ", "
		}
		genres += g
	}
	return fmt.Sprintf("%s (%s). Genres: %s. %s", data.Title, data.Type, genres, data.Plot)
}
