package driver

import (
	"fmt"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/codecs/deflate"
	"github.com/dargueta/pixcodec/codecs/dictionary"
	"github.com/dargueta/pixcodec/codecs/huffman"
	"github.com/dargueta/pixcodec/codecs/predictive"
	"github.com/dargueta/pixcodec/codecs/runlength"
	"github.com/dargueta/pixcodec/pixels"
)

// Codec is the interface every compression technique implements.
type Codec interface {
	// Name gives the name the codec is registered and reported under.
	Name() string
	// Compress reads the image at `inputPath`, writes a container to
	// `outputPath`, and returns metrics describing the result.
	Compress(inputPath, outputPath string) (pixcodec.Metrics, error)
	// Decompress reads the container at `inputPath` and returns the image. If
	// `outputPath` isn't empty the image is also saved there. A non-nil `hint` is
	// checked against the decoded dimensions.
	Decompress(inputPath, outputPath string, hint *pixcodec.ShapeHint) (*pixels.Image, error)
}

// containerExtensions gives the file extension used for each built-in codec's
// containers. Codecs not listed here use their name.
var containerExtensions = map[string]string{
	huffman.Name:    "huf",
	dictionary.Name: "lzw",
	runlength.Name:  "rle",
	deflate.Name:    "zz",
	predictive.Name: "pred",
}

// ContainerExtension returns the file extension (without the dot) for
// containers written by the named codec.
func ContainerExtension(codecName string) string {
	ext, ok := containerExtensions[codecName]
	if ok {
		return ext
	}
	return codecName
}

// Registry maps codec names to codecs, remembering the order they were
// registered in.
type Registry struct {
	codecs map[string]Codec
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// DefaultRegistry returns a registry with every built-in codec, in the order
// they're reported in: huffman, lzw, rle, deflate, predictive_coding.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, codec := range []Codec{
		huffman.Codec{},
		dictionary.Codec{},
		runlength.Codec{},
		deflate.Codec{},
		predictive.Codec{},
	} {
		err := registry.Register(codec)
		if err != nil {
			panic(fmt.Errorf("failed to register built-in codec: %w", err))
		}
	}
	return registry
}

// Register adds a codec. It fails with [pixcodec.ErrExists] if a codec with the
// same name is already registered.
func (registry *Registry) Register(codec Codec) error {
	name := codec.Name()
	if name == "" {
		return pixcodec.ErrInvalidArgument.WithMessage("codec name can't be empty")
	}

	_, exists := registry.codecs[name]
	if exists {
		return pixcodec.ErrExists.WithMessage(
			fmt.Sprintf("a codec named %q is already registered", name))
	}

	registry.codecs[name] = codec
	registry.order = append(registry.order, name)
	return nil
}

// Lookup returns the codec registered under `name`, or [pixcodec.ErrNotFound].
func (registry *Registry) Lookup(name string) (Codec, error) {
	codec, ok := registry.codecs[name]
	if !ok {
		return nil, pixcodec.ErrNotFound.WithMessage(
			fmt.Sprintf("no codec named %q; available: %v", name, registry.order))
	}
	return codec, nil
}

// Names returns the names of all registered codecs in registration order.
func (registry *Registry) Names() []string {
	names := make([]string, len(registry.order))
	copy(names, registry.order)
	return names
}
