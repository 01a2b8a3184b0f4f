// Package form models the create/edit form for an object: a name plus
// typed key/value rows. It converts rows into request bodies and
// validates them before anything is sent.
package form
