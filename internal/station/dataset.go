package station

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// dataset is the bundled lake/station document. A lake's station list mixes
// bare names, structured records and loosely typed objects.
type dataset struct {
	Lakes []lake `json:"lakes"`
}

type lake struct {
	Name      string         `json:"name"`
	Operators []string       `json:"operators"`
	Stations  []stationEntry `json:"stations"`
}

type stationRecord struct {
	Name        string `json:"name"`
	UICRef      string `json:"uic_ref"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
}

type entryKind int

const (
	entryBare entryKind = iota
	entryRecord
	entryKeyValue
)

// stationEntry holds one element of a station list after normalising its
// shape. Latitude and Longitude are zero when unknown; UICRef is empty when
// an id has to be generated.
type stationEntry struct {
	Kind      entryKind
	Name      string
	UICRef    string
	Latitude  float64
	Longitude float64
}

func (e *stationEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty station entry")
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = stationEntry{Kind: entryBare, Name: name}
		return nil
	case '{':
		var rec stationRecord
		if err := json.Unmarshal(data, &rec); err == nil {
			*e = stationEntry{
				Kind:      entryRecord,
				Name:      rec.Name,
				UICRef:    rec.UICRef,
				Latitude:  rec.Coordinates.Latitude,
				Longitude: rec.Coordinates.Longitude,
			}
			return nil
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*e = entryFromFields(fields)
		return nil
	default:
		return fmt.Errorf("unsupported station entry: %s", string(data))
	}
}

// entryFromFields reads what it can from an object that does not match the
// record shape. Missing or unreadable values stay at their zero value.
func entryFromFields(fields map[string]interface{}) stationEntry {
	e := stationEntry{Kind: entryKeyValue}
	e.Name, _ = fields["name"].(string)
	e.UICRef = scalarString(fields["uic_ref"])

	coords, _ := fields["coordinates"].(map[string]interface{})
	if coords == nil {
		coords = fields
	}
	e.Latitude = scalarFloat(coords["latitude"])
	e.Longitude = scalarFloat(coords["longitude"])
	return e
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func scalarFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
