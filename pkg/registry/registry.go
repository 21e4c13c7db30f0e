package registry

import (
	"unicode/utf8"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("registration not found")

// Key layout: one logical table, two namespaces. The user namespace holds
// the canonical mapping, the device namespace is a secondary index so a
// registration can be removed by either identifier.
const (
	nsUser   = "user/"
	nsDevice = "device/"
)

type StorageError struct {
	err error
}

func NewStorageError(err error) *StorageError {
	return &StorageError{err: err}
}

func (e *StorageError) Error() string {
	return "registry storage: " + e.err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.err
}

// Registry is the durable user token to device token mapping. The store
// handle is opened once at startup and injected here; the registry never
// opens or owns process-wide state itself.
type Registry struct {
	db *badger.DB
}

func New(db *badger.DB) *Registry {
	return &Registry{db: db}
}

// Register upserts the mapping for a user. Last write wins: re-registering
// the same pair is a no-op, a new device token replaces the stale one and
// drops its index entry in the same transaction.
func (r *Registry) Register(userToken, deviceToken string) error {

	err := r.db.Update(func(txn *badger.Txn) error {

		prev, err := valueAt(txn, userKey(userToken))
		switch err {
		case nil:
			if prev != deviceToken {
				if err := txn.Delete(deviceKey(prev)); err != nil {
					return err
				}
			}
		case badger.ErrKeyNotFound:
		default:
			return err
		}

		if err := txn.Set(userKey(userToken), []byte(deviceToken)); err != nil {
			return err
		}

		return txn.Set(deviceKey(deviceToken), []byte(userToken))
	})

	if err != nil {
		return NewStorageError(err)
	}

	return nil
}

// Lookup returns the device token for an exact or prefix match on the user
// token, first match in key order. A stored value that is not valid text is
// treated as absent.
func (r *Registry) Lookup(userToken string) (string, error) {

	var deviceToken string

	err := r.db.View(func(txn *badger.Txn) error {

		opts := badger.DefaultIteratorOptions
		opts.Prefix = userKey(userToken)

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		if !it.Valid() {
			return badger.ErrKeyNotFound
		}

		value, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}

		if !utf8.Valid(value) {
			return badger.ErrKeyNotFound
		}

		deviceToken = string(value)
		return nil
	})

	if err == badger.ErrKeyNotFound {
		return "", ErrNotFound
	} else if err != nil {
		return "", NewStorageError(err)
	}

	return deviceToken, nil
}

// Remove deletes a registration by either identifier: the device index is
// consulted first, then the token is retried as a user key. Both the
// canonical entry and its index entry go away atomically.
func (r *Registry) Remove(token string) error {

	err := r.db.Update(func(txn *badger.Txn) error {

		userToken, err := valueAt(txn, deviceKey(token))
		switch err {
		case nil:
			if err := txn.Delete(userKey(userToken)); err != nil {
				return err
			}
			return txn.Delete(deviceKey(token))
		case badger.ErrKeyNotFound:
		default:
			return err
		}

		deviceToken, err := valueAt(txn, userKey(token))
		if err != nil {
			return err
		}

		if err := txn.Delete(deviceKey(deviceToken)); err != nil {
			return err
		}

		return txn.Delete(userKey(token))
	})

	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	} else if err != nil {
		return NewStorageError(err)
	}

	return nil
}

func valueAt(txn *badger.Txn, key []byte) (string, error) {

	item, err := txn.Get(key)
	if err != nil {
		return "", err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}

	return string(value), nil
}

func userKey(userToken string) []byte {
	return []byte(nsUser + userToken)
}

func deviceKey(deviceToken string) []byte {
	return []byte(nsDevice + deviceToken)
}
