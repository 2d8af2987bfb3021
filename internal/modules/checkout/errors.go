package checkout

import "errors"

var ErrInvalidAmount = errors.New("amount must be a positive decimal")
