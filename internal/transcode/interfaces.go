package transcode

import "context"

// Converter defines the interface for an audio conversion engine.
// onProgress receives the completed fraction in the range 0..1.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, onProgress func(float64)) error
}
