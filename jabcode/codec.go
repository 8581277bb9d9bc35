package jabcode

import (
	"errors"
	"sync"
)

// Codec is the symbology-level interface generalizing the teacher's image
// codec registry pattern (Encode/Decode/UID/Name) to a matrix barcode:
// "Encode" produces a pixel bitmap from bytes, "Decode" recovers bytes from
// a bitmap, and UID/Name let multiple symbologies share one registry.
type Codec interface {
	Encode(data []byte, cfg EncodeConfig) (*Bitmap, error)
	Decode(bmp *Bitmap, opts DecodeOptions) ([]byte, int, error)
	UID() string
	Name() string
}

// Registry indexes Codecs by name or UID, mirroring codec.Registry.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

var defaultRegistry = &Registry{codecs: make(map[string]Codec)}

// Register adds codec to the default registry under both its name and UID.
func Register(codec Codec) { defaultRegistry.Register(codec) }

// Get retrieves a codec by name or UID from the default registry.
func Get(nameOrUID string) (Codec, error) { return defaultRegistry.Get(nameOrUID) }

func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[codec.Name()] = codec
	r.codecs[codec.UID()] = codec
}

func (r *Registry) Get(nameOrUID string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[nameOrUID]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return c, nil
}

// ErrCodecNotFound mirrors codec.ErrCodecNotFound for this package's own
// registry.
var ErrCodecNotFound = errors.New("jabcode: codec not found")
