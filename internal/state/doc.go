// Package state holds the client-side object store.
//
// The Store is the single source of truth for the object list, the loading
// flag and the last error. Fetch, Create, Update and Delete call the API
// and then reconcile the list:
//
//	Fetch   success: replace the list        failure: keep the list
//	Create  success: append                  failure: list unchanged
//	Update  success: replace by id in place  failure: list unchanged
//	Delete  success: remove by id            failure: list unchanged
//
// Every failure records api.Message(err) in Snapshot.Error and raises an
// error toast; successful mutations raise a success toast. Only a failed
// Fetch sets Snapshot.FetchError, which the UI turns into its full-page
// error state.
//
// Bubble Tea runs commands on their own goroutines, so the store guards its
// state with a sync.RWMutex and hands out deep copies from Snapshot. Locks
// are never held across network calls.
package state
