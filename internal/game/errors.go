package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned by New and Settings.Validate for settings
// that cannot produce a playable game.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// AssetLoadError reports an asset that failed to load. It never stops the game.
type AssetLoadError struct {
	Name string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("asset %q: %v", e.Name, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
