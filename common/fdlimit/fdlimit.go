// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package fdlimit raises the process's open-file limit so the MPT storage
// pool can keep many chunk files (and many in-flight io_uring-style block
// reads) open at once without hitting EMFILE.
package fdlimit

import "golang.org/x/sys/unix"

// Raise tries to increase the process's file descriptor allowance to at
// least max, returning the allowance actually set.
func Raise(max uint64) (uint64, error) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return 0, err
	}
	if limit.Cur >= max {
		return uint64(limit.Cur), nil
	}
	limit.Cur = max
	if limit.Cur > limit.Max {
		limit.Cur = limit.Max
	}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return 0, err
	}
	cur, err := Current()
	return uint64(cur), err
}

// Current returns the process's current file descriptor allowance.
func Current() (int, error) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return 0, err
	}
	return int(limit.Cur), nil
}

// Maximum returns the hard limit on the file descriptor allowance.
func Maximum() (int, error) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return 0, err
	}
	return int(limit.Max), nil
}
