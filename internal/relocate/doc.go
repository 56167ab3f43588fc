// Package relocate gathers ancillary album files and applies a relocation
// action to them.
//
// Gather walks each album root, classifies every file by its album-relative
// path, and resolves a destination from the category's path template. It
// touches nothing. Apply then runs an Action (move, copy or dry run) per
// entry; a failing entry is logged and never stops the rest of the batch.
package relocate
