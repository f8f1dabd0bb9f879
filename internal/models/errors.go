package models

import "errors"

// ErrAssetNotFound is returned when a symbol is not in the reference catalog
var ErrAssetNotFound = errors.New("asset not found")
