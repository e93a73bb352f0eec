// Package driver runs codecs by name: one-off compression and decompression, and
// batch benchmarks that compress many images with many codecs and collect the
// results into a report.
package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/pixels"
	"github.com/hashicorp/go-multierror"
)

// ImageExtensions lists the file extensions [FindImages] picks up, all lowercase.
var ImageExtensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff"}

// Driver dispatches to the codecs in a registry.
type Driver struct {
	registry *Registry
	logger   *log.Logger
}

// New creates a driver. A nil registry means [DefaultRegistry], and a nil logger
// means [log.Default].
func New(registry *Registry, logger *log.Logger) *Driver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{registry: registry, logger: logger}
}

func (driver *Driver) Registry() *Registry {
	return driver.registry
}

// Compress compresses one image with the named codec.
func (driver *Driver) Compress(codecName, inputPath, outputPath string) (pixcodec.Metrics, error) {
	codec, err := driver.registry.Lookup(codecName)
	if err != nil {
		return pixcodec.Metrics{}, err
	}
	return codec.Compress(inputPath, outputPath)
}

// Decompress decompresses one container with the named codec.
func (driver *Driver) Decompress(
	codecName, inputPath, outputPath string, hint *pixcodec.ShapeHint,
) (*pixels.Image, error) {
	codec, err := driver.registry.Lookup(codecName)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(inputPath, outputPath, hint)
}

// ContainerPath gives the path a benchmark writes a container to: the image's
// file name with the codec's extension added, in `outputDir`.
func ContainerPath(outputDir, imagePath, codecName string) string {
	return filepath.Join(
		outputDir, filepath.Base(imagePath)+"."+ContainerExtension(codecName))
}

// Benchmark compresses every image with every named codec, one at a time, and
// returns a report row for each success. If `codecNames` is empty all
// registered codecs are used. An empty `outputDir` means the current directory.
//
// A failure doesn't stop the batch. Each one is logged and collected, and the
// combined error is returned along with the rows that did succeed. Unknown codec
// names are reported the same way.
func (driver *Driver) Benchmark(
	imagePaths []string, outputDir string, codecNames []string,
) ([]ReportRow, error) {
	var result *multierror.Error

	if len(codecNames) == 0 {
		codecNames = driver.registry.Names()
	}
	codecs := make([]Codec, 0, len(codecNames))
	for _, name := range codecNames {
		codec, err := driver.registry.Lookup(name)
		if err != nil {
			driver.logger.Printf("skipping codec: %s", err.Error())
			result = multierror.Append(result, err)
			continue
		}
		codecs = append(codecs, codec)
	}

	if outputDir == "" {
		outputDir = "."
	}
	err := os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return nil, pixcodec.ErrIOFailed.Wrap(err)
	}

	rows := make([]ReportRow, 0, len(imagePaths)*len(codecs))
	for _, imagePath := range imagePaths {
		driver.logger.Printf("processing %s", imagePath)
		for _, codec := range codecs {
			containerPath := ContainerPath(outputDir, imagePath, codec.Name())
			metrics, err := codec.Compress(imagePath, containerPath)
			if err != nil {
				driver.logger.Printf(
					"error processing %s with %s: %s", imagePath, codec.Name(), err.Error())
				result = multierror.Append(
					result, fmt.Errorf("%s with %s: %w", imagePath, codec.Name(), err))
				continue
			}
			rows = append(rows, NewReportRow(filepath.Base(imagePath), codec.Name(), metrics))
		}
	}
	return rows, result.ErrorOrNil()
}

// FindImages expands a list of paths into image files. Files are kept as given;
// directories are replaced by the image files directly inside them (not
// recursively), in name order.
func FindImages(paths []string) ([]string, error) {
	images := []string{}
	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return nil, pixcodec.ErrSourceNotFound.Wrap(err)
			}
			return nil, pixcodec.ErrIOFailed.Wrap(err)
		}
		if !stat.IsDir() {
			images = append(images, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, pixcodec.ErrIOFailed.Wrap(err)
		}
		found := []string{}
		for _, entry := range entries {
			if entry.Type().IsRegular() && isImageFile(entry.Name()) {
				found = append(found, filepath.Join(path, entry.Name()))
			}
		}
		images = append(images, found...)
	}
	return images, nil
}

func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range ImageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
