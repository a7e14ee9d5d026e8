package testutil

import "errors"

var errRegistrationRefused = errors.New("registration refused")
