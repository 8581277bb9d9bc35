package jabcode

import (
	"fmt"

	"github.com/jabcode/jabcode/placement"
)

// JABCodec adapts Encoder/Decoder to the Codec interface so the symbology
// can be registered and looked up by name/UID like any other codec in the
// registry (see codec.go). Decode needs the symbol's pixel geometry, which
// real camera detection would normally recover (§1 Non-goals) — JABCodec
// therefore requires the master symbol's version to be pinned in Config
// (Config.SymbolVersions[0]) rather than auto-chosen, since there is no
// detector here to discover it after the fact.
type JABCodec struct {
	Config EncodeConfig
}

// NewJABCodec returns a JABCodec ready to Register, validating cfg eagerly.
func NewJABCodec(cfg EncodeConfig) (*JABCodec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &JABCodec{Config: cfg}, nil
}

// Encode implements Codec.
func (c *JABCodec) Encode(data []byte, cfg EncodeConfig) (*Bitmap, error) {
	enc := &Encoder{Config: cfg}
	bmp, _, err := enc.Generate(data)
	return bmp, err
}

// Decode implements Codec. It requires c.Config.SymbolVersions[0] to be
// pinned (non-auto): with no detector in this module, there is no other
// way to recover the symbol's pixel geometry from the bitmap alone.
func (c *JABCodec) Decode(bmp *Bitmap, opts DecodeOptions) ([]byte, int, error) {
	vx, vy := c.Config.versionFor(0)
	if vx == 0 {
		return nil, StatusNotDetectable, fmt.Errorf("jabcode: JABCodec.Decode requires a pinned Config.SymbolVersions[0]")
	}
	width, err := placement.SizeForVersion(vx)
	if err != nil {
		return nil, StatusNotDetectable, err
	}
	height, err := placement.SizeForVersion(vy)
	if err != nil {
		return nil, StatusNotDetectable, err
	}
	dec := NewDecoder()
	data, status, err := dec.Decode(bmp, width, height, c.Config.moduleSize(), opts)
	return data, status, err
}

// UID implements Codec; mirrors the registry's "retrieve by stable id"
// convention (the teacher's codecs use a DICOM transfer-syntax UID here).
func (c *JABCodec) UID() string { return "1.2.840.10008.jabcode.1" }

// Name implements Codec.
func (c *JABCodec) Name() string { return "jabcode" }
