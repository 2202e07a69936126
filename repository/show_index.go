package repository

import (
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
)

type ShowIndexRepository interface {
	Insert(rows []*entity.ShowIndex) error
	// VectorSearch pgvector 余弦相似度检索，按相似度降序返回
	VectorSearch(condition *model.VectorSearchCondition) ([]*entity.ShowIndex, error)
}
