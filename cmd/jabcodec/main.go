// Command jabcodec is a thin demo wrapper around the jabcode package:
// it encodes a message into a PNG-saved JABCode bitmap, or decodes one back
// from caller-supplied geometry (module size and version), so no
// camera-detection module is needed.
//
// Usage:
//
//	jabcodec enc [options] <message> <output.png>
//	jabcodec dec [options] <input.png>
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/jabcode/jabcode/jabcode"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "jabcodec: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "jabcodec: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  jabcodec enc [options] <message> <output.png>   Encode a message to a JABCode PNG
  jabcodec dec [options] <input.png>               Decode a JABCode PNG

Run "jabcodec <command> -h" for command-specific options.
`)
}

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	colorNumber := fs.Int("colors", 8, "palette size: 4, 8, 16, 32, 64 or 128")
	moduleSize := fs.Int("module-size", 12, "pixels per module edge")
	eccLevel := fs.Int("ecc", -1, "ECC table index 0-9 (-1 = choose automatically)")
	forceMask := fs.Int("mask", -1, "mask pattern 0-7; parsed but not applied: the encoder always picks the lowest-penalty mask")
	preview := fs.Int("preview", 0, "also write a <output>.preview.png scaled to this pixel width (0 = skip)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("enc: missing <message> <output.png>\nUsage: jabcodec enc [options] <message> <output.png>")
	}
	message, outputPath := fs.Arg(0), fs.Arg(1)

	enc, err := jabcode.NewEncoder(*colorNumber, 1)
	if err != nil {
		return err
	}
	enc.Config.ModuleSize = *moduleSize
	if *eccLevel >= 0 {
		enc.Config.SymbolECCLevels = []int{*eccLevel}
	}
	_ = forceMask // mask forcing lives on DecodeOptions today; encode-side forcing is a future CLI flag, see DESIGN.md

	bmp, _, err := enc.Generate([]byte(message))
	if err != nil {
		return fmt.Errorf("enc: %w", err)
	}

	img := bitmapToImage(bmp)
	if err := writePNG(outputPath, img); err != nil {
		return fmt.Errorf("enc: writing %s: %w", outputPath, err)
	}
	fmt.Fprintf(os.Stderr, "Encoded %d bytes -> %s (%dx%d)\n", len(message), outputPath, bmp.Width, bmp.Height)

	if *preview > 0 {
		previewPath := previewPathFor(outputPath)
		if err := writeScaledPreview(img, *preview, previewPath); err != nil {
			return fmt.Errorf("enc: writing preview %s: %w", previewPath, err)
		}
		fmt.Fprintf(os.Stderr, "Preview -> %s (width %d)\n", previewPath, *preview)
	}
	return nil
}

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	colorNumber := fs.Int("colors", 8, "palette size the symbol was encoded with")
	moduleSize := fs.Int("module-size", 12, "pixels per module edge the symbol was encoded with")
	version := fs.Int("version", 1, "symbol version 1-32 (side = 4*version+17)")
	compatible := fs.Bool("compatible", false, "allow partial decode on residual LDPC errors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing <input.png>\nUsage: jabcodec dec [options] <input.png>")
	}
	inputPath := fs.Arg(0)

	img, err := readPNG(inputPath)
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}
	bmp := imageToBitmap(img)

	side, err := sideForVersion(*version)
	if err != nil {
		return err
	}

	opts := jabcode.DefaultDecodeOptions()
	if *compatible {
		opts.Mode = jabcode.CompatibleDecode
	}
	_ = colorNumber // color_number is recovered from Part-1 metadata; kept as a documented flag for parity with the encoder's -colors flag

	dec := jabcode.NewDecoder()
	data, status, err := dec.Decode(bmp, side, side, *moduleSize, opts)
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}
	if status != jabcode.StatusFullyDecoded && status != jabcode.StatusPartlyDecoded {
		return fmt.Errorf("dec: decode status %d", status)
	}

	os.Stdout.Write(data)
	return nil
}

func sideForVersion(v int) (int, error) {
	if v < 1 || v > 32 {
		return 0, fmt.Errorf("dec: version %d out of range [1,32]", v)
	}
	return 4*v + 17, nil
}

func previewPathFor(outputPath string) string {
	return outputPath + ".preview.png"
}

// writeScaledPreview nearest-neighbor scales img to the given pixel width
// (preserving aspect ratio) using golang.org/x/image/draw, exercising it at
// the CLI boundary instead of the hot rasterization path (SPEC_FULL §3):
// the core encoder already emits a plain, unpadded RGBA buffer, so pulling
// in draw.Scaler there would add an abstraction with nothing to abstract.
func writeScaledPreview(img image.Image, width int, outputPath string) error {
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return writePNG(outputPath, dst)
}

func bitmapToImage(bmp *jabcode.Bitmap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bmp.Width, bmp.Height))
	copy(img.Pix, bmp.Pix)
	return img
}

func imageToBitmap(img image.Image) *jabcode.Bitmap {
	b := img.Bounds()
	bmp := jabcode.NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			bmp.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(bl>>8), uint8(a>>8))
		}
	}
	return bmp
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
