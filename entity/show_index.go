package entity

const (
	TableNameShowIndex = "show_index"

	ShowIndexFieldID        = "id"
	ShowIndexFieldShowID    = "show_id"
	ShowIndexFieldTitle     = "title"
	ShowIndexFieldContent   = "content"
	ShowIndexFieldEmbedding = "embedding"
)

// ShowIndex 语义检索的 show 语料索引
type ShowIndex struct {
	ID        int64  `xorm:"pk autoincr id" json:"id"`
	ShowID    int64  `xorm:"show_id" json:"show_id"`
	Title     string `xorm:"title" json:"title"`
	Content   string `xorm:"content" json:"content"`     // 剧情/类型摘要文本，被向量化的内容
	Embedding string `xorm:"embedding" json:"embedding"` // PostgreSQL vector 类型，存储为字符串

	// Similarity 向量检索时由查询别名填充，不是表字段
	Similarity float64 `xorm:"similarity" json:"similarity,omitempty"`
}

func (e *ShowIndex) TableName() string {
	return TableNameShowIndex
}
