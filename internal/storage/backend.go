package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")
)

// Kind names a record collection.
type Kind string

const (
	KindGuild   Kind = "guilds"
	KindMember  Kind = "members"
	KindTodo    Kind = "todos"
	KindHate    Kind = "hates"
	KindLove    Kind = "loves"
	KindRpgUser Kind = "users"
	KindZone    Kind = "zones"
	KindPnj     Kind = "pnjs"
	KindItem    Kind = "items"
)

// Kinds lists every collection, in the order the admin CLI dumps them.
var Kinds = []Kind{KindGuild, KindMember, KindTodo, KindHate, KindLove, KindRpgUser, KindZone, KindPnj, KindItem}

// Decoder decodes the current scanned record into out.
type Decoder func(out any) error

// Backend is the document persistence boundary. Records are addressed by kind and a
// stable key; implementations encode them as JSON or BSON documents.
type Backend interface {
	// Get decodes the record into out or returns ErrNotFound.
	Get(ctx context.Context, kind Kind, key string, out any) error
	// Create stores a new record or returns ErrExists.
	Create(ctx context.Context, kind Kind, key string, doc any) error
	// Put stores the record, replacing any previous version.
	Put(ctx context.Context, kind Kind, key string, doc any) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, kind Kind, key string) error
	// Scan calls fn for every record of kind until fn returns an error.
	Scan(ctx context.Context, kind Kind, fn func(key string, decode Decoder) error) error
	Close(ctx context.Context) error
}
