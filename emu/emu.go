package emu

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"nescore/emu/log"
	"nescore/hw"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

type shot struct {
	num   int64
	frame *hw.Frame
}

// Run runs the emulation for the configured number of frames. Frames are
// handed to a second goroutine which writes the requested screenshots.
func Run(ctx context.Context, nes *NES, cfg Config) error {
	log.AddContext(nes)
	defer log.RemoveContext(nes)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	frames := make(chan shot, 1)

	g.Go(func() error {
		defer close(frames)
		return nes.RunFrames(ctx, cfg.Emulation.Frames, func(num int64, f *hw.Frame) error {
			select {
			case frames <- shot{num: num, frame: f}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	g.Go(func() error {
		var last *shot
		for s := range frames {
			if cfg.Video.Screenshot == "" {
				continue
			}
			if every := int64(cfg.Video.ScreenshotEvery); every > 0 && (s.num+1)%every == 0 {
				if err := saveScreenshot(cfg.Video, s); err != nil {
					return err
				}
				continue
			}
			last = &s
		}
		if last != nil && cfg.Video.ScreenshotEvery == 0 {
			return saveScreenshot(cfg.Video, *last)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.ModEmu.InfoZ("emulation done").
		Int64("frames", nes.PPU.FrameCount).
		Duration("elapsed", time.Since(start)).
		End()
	return nil
}

// screenshotPath returns the path of the screenshot of frame num.
func screenshotPath(pattern string, num int64) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, num)
	}
	return pattern
}

// Screenshot returns the frame as an image, scaled by an integer factor.
func Screenshot(f *hw.Frame, scale int) image.Image {
	img := f.Image()
	if scale <= 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, hw.Width*scale, hw.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func saveScreenshot(vcfg VideoConfig, s shot) error {
	path := screenshotPath(vcfg.Screenshot, s.num)
	if err := SaveAsPNG(Screenshot(s.frame, vcfg.Scale), path); err != nil {
		return fmt.Errorf("screenshot of frame %d: %w", s.num, err)
	}
	log.ModEmu.DebugZ("screenshot saved").String("path", path).Int64("num", s.num).End()
	return nil
}

func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
