package history

import "errors"

var ErrInvalidInterval = errors.New("interval must be one of day, week, month")
