// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

package expand

import (
	"errors"
	"os"
	"syscall"
)

func isWindowsErrPathNotFound(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr) && pathErr.Err == syscall.ERROR_PATH_NOT_FOUND
}
