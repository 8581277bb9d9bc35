package jabcode

import (
	"fmt"

	"github.com/jabcode/jabcode/jabcolor"
	"github.com/jabcode/jabcode/ldpc"
	"github.com/jabcode/jabcode/palette"
	"github.com/jabcode/jabcode/placement"
)

// DecodeSynthetic bypasses finder/alignment/metadata detection entirely:
// every piece of information a real decode would have to recover from the
// bitmap is supplied directly by the caller (normally the encoder that
// just produced bmp), exercising the same classification/LDPC/bitstream
// code the full decoder uses (§4.8). pg, if non-nil, overrides the default
// palette (the encoder always uses the default palette today, but a future
// calibrated-palette encoder could pass its fitted one here).
func (d *Decoder) DecodeSynthetic(
	bmp *Bitmap,
	colorNumber, eccLevel, moduleSize, symbolWidth, symbolHeight, maskType int,
	dataMap *placement.DataMap,
	wc, wr int,
	pg []jabcolor.RGB,
	opts DecodeOptions,
) ([]byte, int, error) {
	if !ColorNumbers[colorNumber] {
		return nil, StatusNotDetectable, fmt.Errorf("%w: %d", ErrInvalidColorNumber, colorNumber)
	}
	if dataMap == nil || dataMap.Width != symbolWidth || dataMap.Height != symbolHeight {
		return nil, StatusNotDetectable, fmt.Errorf("%w: data map dimensions do not match symbol geometry", ErrGeometryMismatch)
	}
	if bmp.Width != (symbolWidth+2*placement.QuietZoneModules)*moduleSize ||
		bmp.Height != (symbolHeight+2*placement.QuietZoneModules)*moduleSize {
		return nil, StatusNotDetectable, fmt.Errorf("%w: bitmap size does not match module_size/symbol geometry", ErrGeometryMismatch)
	}

	pal := pg
	if pal == nil {
		var err error
		pal, err = palette.Default(colorNumber)
		if err != nil {
			return nil, StatusNotDetectable, err
		}
	}

	samples := SampleModuleCenters(bmp, symbolWidth, symbolHeight, moduleSize)

	ecc := ldpc.ECCTable[eccLevel]
	if wc > 0 && wr > 0 {
		ecc = ldpc.ECCParam{WC: wc, WR: wr}
	}

	return d.decodeData(samples, dataMap, colorNumber, pal, maskType, ecc, opts)
}
