package xormimplement

import (
	"fmt"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/repository"
)

type ShowIndexRepository struct {
	session *Session
}

func NewShowIndexRepository(session *Session) repository.ShowIndexRepository {
	return &ShowIndexRepository{session: session}
}

func (r *ShowIndexRepository) Insert(rows []*entity.ShowIndex) error {
	if len(rows) == 0 {
		return fmt.Errorf("show_index rows cannot be empty")
	}

	for _, row := range rows {
		if row == nil {
			return fmt.Errorf("show_index row cannot be nil")
		}
	}

	_, err := r.session.Table(entity.TableNameShowIndex).Insert(rows)
	if err != nil {
		return fmt.Errorf("failed to insert show_index: %w", err)
	}

	return nil
}

// VectorSearch 向量相似度检索（使用 pgvector 的余弦相似度）
// 1 - (embedding <=> query_vector) 得到相似度分数（越大越相似）
func (r *ShowIndexRepository) VectorSearch(condition *model.VectorSearchCondition) ([]*entity.ShowIndex, error) {
	if condition == nil {
		return nil, fmt.Errorf("vector search condition cannot be nil")
	}
	if condition.QueryVector == "" {
		return nil, fmt.Errorf("query_vector is required")
	}
	if condition.Limit <= 0 {
		condition.Limit = 10
	}

	sql := fmt.Sprintf(`
		SELECT id, show_id, title, content, embedding,
		       1 - (embedding <=> '%s'::vector) as similarity
		FROM %s
	`, condition.QueryVector, entity.TableNameShowIndex)

	args := make([]interface{}, 0, 1)
	if condition.Threshold != nil {
		sql += fmt.Sprintf(" WHERE (1 - (embedding <=> '%s'::vector)) >= $1", condition.QueryVector)
		args = append(args, *condition.Threshold)
	}

	sql += fmt.Sprintf(" ORDER BY similarity DESC LIMIT %d", condition.Limit)

	var results []*entity.ShowIndex
	err := r.session.SQL(sql, args...).Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to vector search show_index: %w", err)
	}

	return results, nil
}
