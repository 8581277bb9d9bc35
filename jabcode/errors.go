// Package jabcode implements the JABCode polychrome matrix symbology:
// encoding a byte string into a colored module bitmap and decoding it back.
package jabcode

import "errors"

var (
	// ErrInvalidColorNumber is returned when color_number is not one of the
	// supported palette sizes {4,8,16,32,64,128}.
	ErrInvalidColorNumber = errors.New("jabcode: invalid color number")

	// ErrInvalidSymbolNumber is returned when symbol_number is outside 1..61.
	ErrInvalidSymbolNumber = errors.New("jabcode: invalid symbol number")

	// ErrVersionOutOfRange is returned when a symbol version is outside 1..32.
	ErrVersionOutOfRange = errors.New("jabcode: symbol version out of range")

	// ErrECCLevelOutOfRange is returned when an ECC level index is outside 0..9.
	ErrECCLevelOutOfRange = errors.New("jabcode: ECC level out of range")

	// ErrDataTooLarge is returned when the segmented bitstream doesn't fit
	// the chosen symbol geometry even at the best available ECC rate.
	ErrDataTooLarge = errors.New("jabcode: data too large for chosen symbols")

	// ErrGeometryMismatch is returned by the synthetic decode path when the
	// supplied data map or dimensions don't match the bitmap.
	ErrGeometryMismatch = errors.New("jabcode: geometry mismatch")

	// ErrLDPCResidual is returned (NORMAL_DECODE only) when a symbol's LDPC
	// decode still has unsatisfied parity checks after the iteration cap.
	ErrLDPCResidual = errors.New("jabcode: LDPC residual errors")

	// ErrBitstreamParse is returned when the decoded bitstream's mode/length
	// framing is inconsistent with the data actually present.
	ErrBitstreamParse = errors.New("jabcode: bitstream parse error")

	// ErrNotDetectable is returned when the caller-supplied symbol geometry
	// has no valid module layout (status 0).
	ErrNotDetectable = errors.New("jabcode: symbol not detectable")
)
