// Package ragdoc 定义检索结果文本块的编解码格式。
// 该格式是检索阶段与回复生成、历史落库两个消费方之间的契约，
// 序列化与解析必须同源维护，改动任一字段顺序或分隔符需同时升级双方。
package ragdoc

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// SentinelNoRetrieval 本轮未触发检索时的占位文本
	SentinelNoRetrieval = "No RAG needed for this intent."

	// SentinelNoResults 检索成功但无结果时的占位文本
	SentinelNoResults = "No relevant cached data found."

	// sentinelUnavailablePrefix 检索后端不可用时的占位前缀
	sentinelUnavailablePrefix = "RAG UNAVAILABLE"

	// recordSeparator 记录之间的分隔符
	recordSeparator = "\n\n---\n\n"
)

// Doc 单条检索结果
type Doc struct {
	Title   string
	Score   float64
	ShowID  string
	Excerpt string
}

// ShowRef 从检索文本块解析出的 (show_id, title) 引用
type ShowRef struct {
	ShowID string
	Title  string
}

// recordPattern 提取记录头部结构化字段的正则
// 记录格式: [Title: <title>, Score: <score>, Show ID: <id>] <excerpt>
var recordPattern = regexp.MustCompile(`\[Title: (.*?), Score: .*?, Show ID: (\d+)\]`)

// Unavailable 生成后端不可用的占位文本
func Unavailable(reason string) string {
	return fmt.Sprintf("%s: %s", sentinelUnavailablePrefix, reason)
}

// IsSentinel 判断文本块是否为占位文本（无可解析的检索记录）
func IsSentinel(raw string) bool {
	return raw == SentinelNoRetrieval ||
		raw == SentinelNoResults ||
		strings.HasPrefix(raw, sentinelUnavailablePrefix)
}

// Format 将检索结果序列化为文本块，空结果返回 SentinelNoResults
func Format(docs []Doc) string {
	if len(docs) == 0 {
		return SentinelNoResults
	}

	formatted := make([]string, 0, len(docs))
	for _, doc := range docs {
		formatted = append(formatted, fmt.Sprintf("[Title: %s, Score: %.2f, Show ID: %s] %s",
			doc.Title, doc.Score, doc.ShowID, doc.Excerpt))
	}

	return strings.Join(formatted, recordSeparator)
}

// ParseShowRefs 从文本块解析有序的 show 引用列表。
// 占位文本或格式不符的输入返回空列表，从不报错。
func ParseShowRefs(raw string) []ShowRef {
	refs := make([]ShowRef, 0)
	if !strings.Contains(raw, "Title:") {
		return refs
	}

	for _, match := range recordPattern.FindAllStringSubmatch(raw, -1) {
		title := strings.TrimSpace(match[1])
		showID := strings.TrimSpace(match[2])
		if title == "" || showID == "" {
			continue
		}
		refs = append(refs, ShowRef{ShowID: showID, Title: title})
	}

	return refs
}

// ParseTitles 从文本块解析有序的标题列表，用于接口响应的 suggested_shows 字段
func ParseTitles(raw string) []string {
	refs := ParseShowRefs(raw)
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		titles = append(titles, ref.Title)
	}
	return titles
}
