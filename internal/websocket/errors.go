package websocket

import "errors"

var ErrNoIdentity = errors.New("ws: no identity on request")
