package bangumi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// Infobox is one key of a wiki infobox
type Infobox struct {
	Key   string       `json:"key"`
	Value InfoboxValue `json:"value"`
}

// InfoboxValue is either a single string or an ordered list of items. Which
// one is decided by the JSON kind of the value: a string decodes as Single,
// an array decodes as List, anything else is rejected.
type InfoboxValue struct {
	single string
	list   []InfoboxItem
	isList bool
}

// InfoboxItem is an element of a list value: a {k,v} pair or a bare {v}.
type InfoboxItem struct {
	Key    string
	Value  string
	HasKey bool
}

// SingleValue returns an InfoboxValue holding one string
func SingleValue(s string) InfoboxValue {
	return InfoboxValue{single: s}
}

// ListValue returns an InfoboxValue holding the given items
func ListValue(items ...InfoboxItem) InfoboxValue {
	if items == nil {
		items = []InfoboxItem{}
	}
	return InfoboxValue{list: items, isList: true}
}

// KV returns a keyed list item
func KV(k, v string) InfoboxItem {
	return InfoboxItem{Key: k, Value: v, HasKey: true}
}

// V returns a value-only list item
func V(v string) InfoboxItem {
	return InfoboxItem{Value: v}
}

// IsList reports whether the value is a list
func (v InfoboxValue) IsList() bool {
	return v.isList
}

// Single returns the string value and whether the value is a single string
func (v InfoboxValue) Single() (string, bool) {
	return v.single, !v.isList
}

// List returns the items and whether the value is a list
func (v InfoboxValue) List() ([]InfoboxItem, bool) {
	return v.list, v.isList
}

// String joins list items with ", "; keyed items render as "k: v".
func (v InfoboxValue) String() string {
	if !v.isList {
		return v.single
	}
	var out string
	for i, item := range v.list {
		if i > 0 {
			out += ", "
		}
		if item.HasKey {
			out += item.Key + ": "
		}
		out += item.Value
	}
	return out
}

// MarshalJSON encodes a Single as a JSON string and a List as an array
func (v InfoboxValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		items := v.list
		if items == nil {
			items = []InfoboxItem{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.single)
}

// UnmarshalJSON dispatches on the JSON kind of data
func (v *InfoboxValue) UnmarshalJSON(data []byte) error {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return fmt.Errorf("infobox value: %w", err)
	}

	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return fmt.Errorf("infobox value: %w", err)
		}
		*v = SingleValue(s)
		return nil

	case jsonparser.Array:
		items := []InfoboxItem{}
		var itemErr error
		_, err := jsonparser.ArrayEach(value, func(raw []byte, dt jsonparser.ValueType, _ int, _ error) {
			if itemErr != nil {
				return
			}
			item, err := decodeInfoboxItem(raw, dt)
			if err != nil {
				itemErr = fmt.Errorf("infobox value item %d: %w", len(items), err)
				return
			}
			items = append(items, item)
		})
		if err != nil {
			return fmt.Errorf("infobox value: %w", err)
		}
		if itemErr != nil {
			return itemErr
		}
		*v = ListValue(items...)
		return nil

	default:
		return fmt.Errorf("infobox value: expected string or array, got %s", dataType)
	}
}

// MarshalJSON omits "k" for value-only items
func (i InfoboxItem) MarshalJSON() ([]byte, error) {
	if i.HasKey {
		return json.Marshal(struct {
			K string `json:"k"`
			V string `json:"v"`
		}{i.Key, i.Value})
	}
	return json.Marshal(struct {
		V string `json:"v"`
	}{i.Value})
}

// UnmarshalJSON accepts {k,v} first and falls back to {v}
func (i *InfoboxItem) UnmarshalJSON(data []byte) error {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return err
	}
	item, err := decodeInfoboxItem(value, dataType)
	if err != nil {
		return err
	}
	*i = item
	return nil
}

func decodeInfoboxItem(raw []byte, dataType jsonparser.ValueType) (InfoboxItem, error) {
	if dataType != jsonparser.Object {
		return InfoboxItem{}, fmt.Errorf("expected object, got %s", dataType)
	}

	v, err := getItemString(raw, "v")
	if err != nil {
		return InfoboxItem{}, err
	}

	// A missing, null or non-string key falls back to the value-only form
	if k, err := getItemString(raw, "k"); err == nil {
		return KV(k, v), nil
	}
	return V(v), nil
}

func getItemString(raw []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(raw, key)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return "", fmt.Errorf("missing %q: %w", key, err)
		}
		return "", err
	}
	if dataType != jsonparser.String {
		return "", fmt.Errorf("%q: expected string, got %s", key, dataType)
	}
	return jsonparser.ParseString(value)
}
