package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IDList Discord ID 목록입니다. 숫자로 저장된 기존 문서도 읽을 수 있습니다
type IDList []string

// UnmarshalJSON 문자열과 숫자가 섞인 배열을 모두 받아들입니다
func (list *IDList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make(IDList, 0, len(raw))
	for _, item := range raw {
		id, err := parseSnowflake(item)
		if err != nil {
			return err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	*list = ids
	return nil
}

// Contains ID가 목록에 있는지 확인합니다
func (list IDList) Contains(id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// Snowflake 문자열 또는 숫자로 저장된 단일 Discord ID입니다
type Snowflake string

// UnmarshalJSON 문자열, 숫자, null을 받아들입니다
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	id, err := parseSnowflake(data)
	if err != nil {
		return err
	}
	*s = Snowflake(id)
	return nil
}

func parseSnowflake(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("invalid discord id %s: %w", data, err)
	}
	return n.String(), nil
}
