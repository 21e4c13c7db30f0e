package registry

import (
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoundTrip(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user1", "dev123"))

	deviceToken, err := r.Lookup("user1")
	require.NoError(t, err)
	require.Equal(t, "dev123", deviceToken)
}

func TestRegisterIdempotent(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user1", "dev123"))
	require.NoError(t, r.Register("user1", "dev123"))

	deviceToken, err := r.Lookup("user1")
	require.NoError(t, err)
	require.Equal(t, "dev123", deviceToken)
}

func TestRegisterOverwrite(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user1", "dev-a"))
	require.NoError(t, r.Register("user1", "dev-b"))

	deviceToken, err := r.Lookup("user1")
	require.NoError(t, err)
	require.Equal(t, "dev-b", deviceToken)

	// the stale device index must not resolve anymore
	require.Equal(t, ErrNotFound, r.Remove("dev-a"))
}

func TestLookupMiss(t *testing.T) {

	r := getRegistry(t)

	_, err := r.Lookup("unknown")
	require.Equal(t, ErrNotFound, err)
}

func TestLookupPrefixMatch(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user1", "dev123"))

	deviceToken, err := r.Lookup("user")
	require.NoError(t, err)
	require.Equal(t, "dev123", deviceToken)
}

func TestLookupPrefixFirstInKeyOrder(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user2", "dev-2"))
	require.NoError(t, r.Register("user1", "dev-1"))

	deviceToken, err := r.Lookup("user")
	require.NoError(t, err)
	require.Equal(t, "dev-1", deviceToken)
}

func TestRemoveByDeviceToken(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user1", "dev123"))
	require.NoError(t, r.Remove("dev123"))

	_, err := r.Lookup("user1")
	require.Equal(t, ErrNotFound, err)
}

func TestRemoveByUserToken(t *testing.T) {

	r := getRegistry(t)

	require.NoError(t, r.Register("user1", "dev123"))
	require.NoError(t, r.Remove("user1"))

	_, err := r.Lookup("user1")
	require.Equal(t, ErrNotFound, err)

	require.Equal(t, ErrNotFound, r.Remove("dev123"))
}

func TestRemoveNotFound(t *testing.T) {

	r := getRegistry(t)

	require.Equal(t, ErrNotFound, r.Remove("ghost"))
}

func TestRegisterSurvivesReopen(t *testing.T) {

	dir := t.TempDir()

	db := openStore(t, dir)
	require.NoError(t, New(db).Register("user1", "dev123"))
	require.NoError(t, db.Close())

	db = openStore(t, dir)
	defer func() { require.NoError(t, db.Close()) }()

	deviceToken, err := New(db).Lookup("user1")
	require.NoError(t, err)
	require.Equal(t, "dev123", deviceToken)
}

func getRegistry(t *testing.T) *Registry {
	t.Helper()

	db := openStore(t, t.TempDir())
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	return New(db)
}

func openStore(t *testing.T, dir string) *badger.DB {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)

	return db
}
