package pipeline

import "errors"

var (
	// ErrImageDecode is returned when background bytes are unreadable or corrupt.
	ErrImageDecode = errors.New("thumbforge: image decode failed")

	// ErrFontLoad is returned when a font asset is invalid or in an unsupported format.
	ErrFontLoad = errors.New("thumbforge: font load failed")

	// ErrSurfaceUnavailable is returned when no drawing surface can be obtained.
	ErrSurfaceUnavailable = errors.New("thumbforge: drawing surface unavailable")

	// ErrNoComposition is returned when output is requested before anything was composed.
	ErrNoComposition = errors.New("thumbforge: nothing composed yet")
)
