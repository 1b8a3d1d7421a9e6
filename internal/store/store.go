// Package store is the entity store for users and trips.
//
// Changes are staged with Insert, Update and Delete and only become visible
// after Save, which applies every staged change or none of them. Fetched
// records are copies; editing them has no effect until they are staged again.
package store

import (
	"context"
	"errors"
	"fmt"

	"travgram/internal/models"
)

var (
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = errors.New("record not found")
)

// Entity is a record the store knows how to persist: *models.User or *models.Trip.
type Entity interface {
	EntityID() string
}

type SortKey int

const (
	SortNone SortKey = iota
	SortByDate
	SortByName
)

// UserFilter selects users. Zero-valued fields match everything.
type UserFilter struct {
	ID    string
	Email string
}

func (f UserFilter) matches(u models.User) bool {
	if f.ID != "" && u.ID != f.ID {
		return false
	}
	if f.Email != "" && u.Email != f.Email {
		return false
	}
	return true
}

// TripFilter selects trips. Zero-valued fields match everything.
type TripFilter struct {
	ID      string
	OwnerID string
	Type    models.TripType
	OrderBy SortKey
}

func (f TripFilter) matches(t models.Trip) bool {
	if f.ID != "" && t.ID != f.ID {
		return false
	}
	if f.OwnerID != "" && t.OwnerID != f.OwnerID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

type Store interface {
	Insert(e Entity)
	Update(e Entity)
	Delete(e Entity)
	DeleteAllUsers()
	// Pending reports the number of staged changes.
	Pending() int
	FetchUsers(ctx context.Context, f UserFilter) ([]models.User, error)
	FetchTrips(ctx context.Context, f TripFilter) ([]models.Trip, error)
	Save(ctx context.Context) error
	Close() error
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opDelete
	opDeleteAllUsers
)

func (k opKind) String() string {
	switch k {
	case opInsert:
		return "insert"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	case opDeleteAllUsers:
		return "delete all users"
	}
	return "unknown"
}

// op is one staged change. Exactly one of user and trip is set unless the
// kind is opDeleteAllUsers.
type op struct {
	kind opKind
	user *models.User
	trip *models.Trip
}

func newOp(kind opKind, e Entity) op {
	o := op{kind: kind}
	switch v := e.(type) {
	case *models.User:
		u := v.Clone()
		o.user = &u
	case *models.Trip:
		t := v.Clone()
		for i := range t.Photos {
			t.Photos[i].TripID = t.ID
			t.Photos[i].Position = i
		}
		o.trip = &t
	default:
		panic(fmt.Sprintf("store: unsupported entity %T", e))
	}
	return o
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
)
