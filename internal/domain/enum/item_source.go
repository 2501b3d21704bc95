package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemSource tells whether an invoice line came from inventory or was typed in manually
type ItemSource int

const (
	ItemSourceInventory ItemSource = 0
	ItemSourceManual    ItemSource = 1
)

func (s ItemSource) String() string {
	return [...]string{"Inventory", "Manual"}[s]
}

func (s ItemSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ItemSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ItemSource(i)
		return nil
	}
	switch str {
	case "Inventory":
		*s = ItemSourceInventory
	case "Manual":
		*s = ItemSourceManual
	}
	return nil
}

func (s ItemSource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ItemSource) Scan(value interface{}) error {
	if value == nil {
		*s = ItemSourceInventory
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ItemSource(v)
	case int:
		*s = ItemSource(v)
	}
	return nil
}
