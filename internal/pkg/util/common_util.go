package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRegex     = regexp.MustCompile(`#(\S+)`)
	mentionRegex = regexp.MustCompile(`@(\w+)`)
)

// ExtractTags 只负责提取去重后的标签列表
func ExtractTags(rawContent string) []string {
	matches := tagRegex.FindAllStringSubmatch(rawContent, -1)

	tagSet := make(map[string]struct{})
	var tags []string

	for _, m := range matches {
		if len(m) > 1 {
			tagName := m[1]

			tagName = strings.Trim(tagName, ".,，。!?！？")

			if tagName != "" {
				if _, exists := tagSet[tagName]; !exists {
					tagSet[tagName] = struct{}{}
					tags = append(tags, tagName)
				}
			}
		}
	}

	return tags
}

// ExtractMentions 提取评论里被 @ 的用户名，去重并保持出现顺序
func ExtractMentions(rawContent string) []string {
	matches := mentionRegex.FindAllStringSubmatch(rawContent, -1)

	seen := make(map[string]struct{})
	var names []string

	for _, m := range matches {
		if len(m) > 1 && m[1] != "" {
			if _, exists := seen[m[1]]; !exists {
				seen[m[1]] = struct{}{}
				names = append(names, m[1])
			}
		}
	}

	return names
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}

// PtrStr 用于将 string 转换为 *string
func PtrStr(s string) *string {
	return &s
}

// PtrFloat32 用于将 float32 转换为 *float32
func PtrFloat32(f float32) *float32 {
	return &f
}

// StrSliceToUInt64Slice 字符串切片批量转 uint64
func StrSliceToUInt64Slice(strs []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(strs))
	for _, s := range strs {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
