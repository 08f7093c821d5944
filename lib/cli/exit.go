// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra error
// message. When a command handler returns an ExitError, main exits with the
// given code without printing the error string; the command is expected to
// have already written its own output.
//
// Used for outcomes that are valid but non-zero, such as an interrupted run
// exiting 1.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks for this interface on
// returned errors to distinguish a handled non-zero exit from an unexpected
// error to display.
func (e *ExitError) ExitCode() int {
	return e.Code
}
