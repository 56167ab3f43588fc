// Package library reads album records from a beets library database.
//
// The database is opened read-only; beets stays the only writer. Each album
// row becomes a relocate.Album whose fields are the album's fixed columns
// plus its flexible attributes, and whose root is the deepest directory
// containing every track of the album.
package library
