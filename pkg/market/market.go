package market

import "errors"

var ErrUnknownSymbol = errors.New("unknown symbol")
