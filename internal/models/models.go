package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const MaxRoomPictures = 5

type User struct {
	UserID      string         `json:"userId" db:"user_id"`
	Email       string         `json:"email" db:"email"`
	Username    string         `json:"username" db:"username"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Photo       *Picture       `json:"photo" db:"photo"`
	Rooms       pq.StringArray `json:"rooms" db:"rooms"`
	Token       string         `json:"-" db:"token"`
	Hash        string         `json:"-" db:"hash"`
	Salt        string         `json:"-" db:"salt"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

type Room struct {
	RoomID      string    `json:"roomId" db:"room_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Location    Location  `json:"location" db:"location"`
	Pictures    Pictures  `json:"pictures" db:"pictures"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Picture references an object held in the blob store.
type Picture struct {
	URL       string `json:"url"`
	PictureID string `json:"pictureId"`
}

func (p Picture) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Picture) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, p)
}

// Pictures is the ordered gallery of a room, stored as a JSONB array.
type Pictures []Picture

func (p Pictures) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Pictures) Scan(src any) error {
	if src == nil {
		*p = Pictures{}
		return nil
	}
	b, err := jsonBytes(src)
	if err != nil {
		return err
	}
	var out Pictures
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	if out == nil {
		out = Pictures{}
	}
	*p = out
	return nil
}

// Location is a fixed-order [latitude, longitude] pair.
type Location []float64

func NewLocation(lat, lng float64) Location {
	return Location{lat, lng}
}

func (l Location) Lat() float64 {
	if len(l) < 1 {
		return 0
	}
	return l[0]
}

func (l Location) Lng() float64 {
	if len(l) < 2 {
		return 0
	}
	return l[1]
}

func (l Location) Value() (driver.Value, error) {
	return pq.Float64Array(l).Value()
}

func (l *Location) Scan(src any) error {
	var a pq.Float64Array
	if err := a.Scan(src); err != nil {
		return err
	}
	*l = Location(a)
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("неподдерживаемый тип JSON-колонки: %T", src)
	}
}
