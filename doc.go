// Package ziptree packs a directory tree into a single ZIP archive and
// unpacks an archive back into a directory tree.
//
// Archives use deflate for every file entry and switch to Zip64 records
// whenever an entry, the archive, or the entry count outgrows the classic
// ZIP limits. Entry names always use "/" as the separator. On hosts with
// POSIX permission bits, entries carry the Unix mode of the object they were
// made from, and extraction restores it.
//
// # Packing
//
//	n, err := ziptree.Pack("./site", "site.zip",
//	    ziptree.PackWithLevel(6),
//	    ziptree.PackWithExclude("*.tmp", "node_modules/*"),
//	)
//
// Exclusion globs are matched against each slash-separated relative path.
// "*" and "?" also match "/", so "*.tmp" excludes temporary files at any
// depth. Excluding a directory skips only its marker entry; its children are
// matched individually. Malformed globs are ignored unless
// [PackWithRejectInvalidPatterns] is given.
//
// Symbolic links are followed by default: a link to a file is archived as
// that file, a link to a directory as an empty directory marker. Use
// [PackWithSymlinkPolicy] with [SymlinksSkip] to leave links out.
//
// # Unpacking
//
//	err := ziptree.Unpack("site.zip", "./restore")
//
// Entries whose names would land outside the output directory ("Zip Slip")
// are skipped by default; see [UnsafePathPolicy].
//
// # Background execution
//
// Pack and Unpack block until done. [Runner] runs them on background
// goroutines with bounded concurrency and returns a [Task] per operation.
//
// # Failures
//
// Every failure is a single error that matches one sentinel with
// [errors.Is], for example [ErrInvalidLevel] or [ErrReadEntry]. Partially
// written output is not removed.
package ziptree
