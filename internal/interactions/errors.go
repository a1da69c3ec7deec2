package interactions

import "errors"

var ErrNotFound = errors.New("not found")
