package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runners/game"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("race not found")

// Record is a finished race: enough to replay it from the start.
type Record struct {
	ID        uuid.UUID         `json:"id"`
	Track     game.TrackVersion `json:"track"`
	Racers    []game.RacerName  `json:"racers"` // Seat order
	Outcome   string            `json:"outcome"`
	Turns     int               `json:"turns"`
	First     game.RacerName    `json:"first,omitempty"`
	Second    game.RacerName    `json:"second,omitempty"`
	Initial   *game.BoardState  `json:"initial"`
	History   game.ChangeList   `json:"history"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (r *Record) Copy() *Record {
	c := *r
	c.Racers = append([]game.RacerName(nil), r.Racers...)
	if r.Initial != nil {
		c.Initial = r.Initial.Copy()
	}
	c.History = r.History.Copy()
	return &c
}

// Final rebuilds the board at the end of the race.
func (r *Record) Final() *game.BoardState {
	return game.ReplayTo(r.Initial, r.History, len(r.History))
}

type Store interface {
	SaveRace(ctx context.Context, rec *Record) error
	Close() error
}

// Loader is implemented by stores that can read races back.
type Loader interface {
	LoadRace(ctx context.Context, id uuid.UUID) (*Record, error)
	ListRaces(ctx context.Context) ([]uuid.UUID, error)
}

type Kind string

const (
	None   Kind = "none"
	Memory Kind = "memory"
	JSONL  Kind = "jsonl"
	SQLite Kind = "sqlite"
)

// Open returns the store of the given kind. dir holds the JSONL files and
// sqlitePath the database; a relative sqlitePath is taken inside dir.
func Open(kind Kind, dir, sqlitePath string) (Store, error) {
	switch kind {
	case None, "":
		return Discard(), nil
	case Memory:
		return NewMemory(), nil
	case JSONL:
		return NewJSONL(dir), nil
	case SQLite:
		if !filepath.IsAbs(sqlitePath) {
			sqlitePath = filepath.Join(dir, sqlitePath)
		}
		return OpenSQLite(sqlitePath)
	}
	return nil, fmt.Errorf("unknown storage type %q", kind)
}

type discard struct{}

// Discard returns a store that drops every race.
func Discard() Store {
	return discard{}
}

func (discard) SaveRace(context.Context, *Record) error { return nil }
func (discard) Close() error                            { return nil }
