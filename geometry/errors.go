package geometry

import "errors"

var ErrDegenerate = errors.New("degenerate point set")
