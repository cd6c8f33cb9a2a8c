package notifications

import "workforce/internal/platform/datastore"

type Store struct {
	DB datastore.Gateway
}

func NewStore(db datastore.Gateway) *Store {
	return &Store{DB: db}
}
