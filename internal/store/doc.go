// Package store persists label collections in a SQLite project database.
//
// The schema mirrors the pose model: videos own frames, frames own
// instances, instances own points. Re-importing a video replaces its
// frames wholesale, so the store always reflects the latest import. A file
// lock beside the database keeps concurrent poselabel processes from
// writing over each other.
package store
