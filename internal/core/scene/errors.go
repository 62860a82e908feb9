package scene

import "errors"

var (
	ErrUnknownPrefab    = errors.New("scene: unknown prefab")
	ErrUnknownAnimation = errors.New("scene: prefab has no such animation")
	ErrDuplicateSurface = errors.New("scene: duplicate surface id")
	ErrInvalidSurface   = errors.New("scene: surface needs an id and positive half extents")
	ErrInvalidCamera    = errors.New("scene: camera needs a field of view in (0, 180) and a positive pixel aspect")
	ErrInvalidPrefab    = errors.New("scene: prefab needs a name")
)
