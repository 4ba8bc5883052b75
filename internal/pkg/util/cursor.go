package util

import (
	"encoding/base64"

	"github.com/goccy/go-json"
)

// EncodeCursor 将 ES 返回的 Sort 值数组编码为 Base64 字符串
func EncodeCursor(sortValues []interface{}) string {
	if len(sortValues) == 0 {
		return ""
	}
	b, _ := json.Marshal(sortValues)
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCursor 将前端传来的 Base64 字符串解码为 Sort 值数组
func DecodeCursor(cursor string) ([]interface{}, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var sortValues []interface{}
	err = json.Unmarshal(b, &sortValues)
	return sortValues, err
}

// feedCursor 信息流分页游标，锚定到聚合结果的时间线位置
type feedCursor struct {
	LastUpdate int64  `json:"u"`
	LastThing  uint64 `json:"t"`
}

// EncodeFeedCursor 由最后一个条目的更新时间与 thingID 生成游标
func EncodeFeedCursor(lastUpdateUnix int64, lastThingID uint64) string {
	b, _ := json.Marshal(feedCursor{LastUpdate: lastUpdateUnix, LastThing: lastThingID})
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeFeedCursor 解码信息流游标；空串表示第一页
func DecodeFeedCursor(cursor string) (lastUpdateUnix int64, lastThingID uint64, err error) {
	if cursor == "" {
		return 0, 0, nil
	}
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, 0, err
	}
	var c feedCursor
	if err = json.Unmarshal(b, &c); err != nil {
		return 0, 0, err
	}
	return c.LastUpdate, c.LastThing, nil
}
