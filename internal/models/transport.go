package models

import (
	"bytes"
	"encoding/json"
)

// Wire shapes of the transport.opendata.ch stationboard endpoint.

type StationboardResponse struct {
	Station      StationInfo `json:"station"`
	Stationboard []Journey   `json:"stationboard"`
}

type StationInfo struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Score      *int                 `json:"score,omitempty"`
	Coordinate *TransportCoordinate `json:"coordinate,omitempty"`
	Distance   *int                 `json:"distance,omitempty"`
}

// TransportCoordinate uses the upstream axis naming: x is the longitude and
// y the latitude.
type TransportCoordinate struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Journey struct {
	Stop        Stop            `json:"stop"`
	Name        *string         `json:"name,omitempty"`
	Category    string          `json:"category"`
	Number      *string         `json:"number,omitempty"`
	Operator    *Operator       `json:"operator,omitempty"`
	To          *string         `json:"to,omitempty"`
	PassList    []Stop          `json:"passList,omitempty"`
	Capacity1st json.RawMessage `json:"capacity1st,omitempty"`
	Capacity2nd json.RawMessage `json:"capacity2nd,omitempty"`
}

type Stop struct {
	Station            StationInfo `json:"station"`
	Arrival            *string     `json:"arrival,omitempty"`
	ArrivalTimestamp   *int64      `json:"arrivalTimestamp,omitempty"`
	Departure          *string     `json:"departure,omitempty"`
	DepartureTimestamp *int64      `json:"departureTimestamp,omitempty"`
	Delay              *int        `json:"delay,omitempty"`
	Platform           *string     `json:"platform,omitempty"`
	Prognosis          *Prognosis  `json:"prognosis,omitempty"`
}

type Prognosis struct {
	Platform    *string         `json:"platform,omitempty"`
	Arrival     *string         `json:"arrival,omitempty"`
	Departure   *string         `json:"departure,omitempty"`
	Capacity1st json.RawMessage `json:"capacity1st,omitempty"`
	Capacity2nd json.RawMessage `json:"capacity2nd,omitempty"`
}

// Operator is the normalized form of the journey operator, which the
// upstream sends either as a bare name or as an object.
type Operator struct {
	Name string  `json:"name"`
	ID   *string `json:"id,omitempty"`
	URL  *string `json:"url,omitempty"`
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &DeserializationError{Field: "operator", Value: string(data)}
	}

	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return &DeserializationError{Field: "operator", Value: string(trimmed), Err: err}
		}
		*o = Operator{Name: name}
		return nil
	case '{':
		// alias drops the method set so decoding does not recurse
		type operatorObject Operator
		var obj operatorObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return &DeserializationError{Field: "operator", Value: string(trimmed), Err: err}
		}
		*o = Operator(obj)
		return nil
	default:
		return &DeserializationError{Field: "operator", Value: string(trimmed)}
	}
}
