// Package queue implements the file-based download queue shared by the
// queue and wishlist commands. A queue is a plain-text file of pending
// entries (one URL or search expression per line, # for comments). Each
// run takes a sentinel-file lock, dispatches every entry to the external
// downloader one at a time, moves successful entries into a timestamped
// backup file and leaves failed entries in place for the next run.
//
// The package does not persist state between runs beyond the three files
// it owns: the live file, the backup file and the lock sentinel.
package queue
