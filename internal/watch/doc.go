// Package watch notices beets imports by watching the library database and
// replays them as host events.
//
// Changes to the database file (or its journal) are debounced; once quiet,
// albums added since the last scan fire album_imported and the whole library
// then fires cli_exit. Only one watcher may run per library, enforced with a
// lock file. All scans and event handling happen on the Run goroutine.
package watch
