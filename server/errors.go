package server

import "github.com/jrsteele09/go-blog-server/internal/errors"

var errNoSession = errors.Wrapf(errors.ErrVerificationFailure, "[Server] no session cookie")
