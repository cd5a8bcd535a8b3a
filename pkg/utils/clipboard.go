package utils

import (
	"bytes"
	"image"
	"image/png"
	"os"

	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
)

// CopyImage copies img to the OS clipboard as PNG data, used by the fyne
// driver's Copy Frame menu item.
func CopyImage(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return err
	}

	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())
	return nil
}

// SaveImage prompts for a destination path and writes img there as PNG.
func SaveImage(img image.Image) error {
	filename, err := dialog.File().Filter("PNG Image", "png").Title("Save Image").Save()
	if err != nil {
		return err
	}
	if len(filename) < 4 || filename[len(filename)-4:] != ".png" {
		filename += ".png"
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
