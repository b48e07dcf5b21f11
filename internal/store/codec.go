package store

import (
	"encoding/json"
	"errors"

	"github.com/theirongolddev/blockstime/internal/model"
)

// "null" is valid JSON but not a snapshot.
var errNullSnapshot = errors.New("snapshot is null")

// EncodeSnapshot serializes the category list as a JSON array.
func EncodeSnapshot(cats []model.Category) ([]byte, error) {
	if cats == nil {
		cats = []model.Category{}
	}
	return json.Marshal(cats)
}

// DecodeSnapshot parses a JSON array of categories, order preserved.
func DecodeSnapshot(data []byte) ([]model.Category, error) {
	var cats []model.Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		return nil, errNullSnapshot
	}
	return cats, nil
}
