// Package catalog holds the pure helpers behind the object list: search
// filtering, sorting, display formatting, and the colour, icon and image
// chosen for each object.
//
// Nothing here performs I/O or keeps state. Numbers embedded in strings are
// read with JavaScript's parseFloat and parseInt rules, so "$99" is NaN
// and "12 GB" is 12, matching browser clients of the same API.
package catalog
