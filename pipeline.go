package tilemask

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/tilemask/mask"
)

const numWorkers = 10

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".gif", ".bmp":
		return true
	}
	return false
}

func (t *TileMask) findImages(ctx context.Context, base, skip string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Don't pick up our own output
			if info.Mode().IsDir() {
				if file == skip {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// maskFor returns the mask file sitting next to the image, or an empty
// string if there isn't one
func maskFor(file string) (string, error) {
	m := strings.TrimSuffix(file, filepath.Ext(file)) + mask.Extension
	switch _, err := os.Stat(m); {
	case err == nil:
		return m, nil
	case os.IsNotExist(err):
		return "", nil
	default:
		return "", err
	}
}

func (t *TileMask) exportWorker(ctx context.Context, base, outDir string, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			maskFile, err := maskFor(file)
			if err != nil {
				errc <- err
				return
			}

			rel, err := filepath.Rel(base, file)
			if err != nil {
				errc <- err
				return
			}
			outFile := filepath.Join(outDir, outputName(rel))

			switch err := t.export(file, maskFile, outFile); {
			case err == nil:
			case errors.Is(err, ErrNoMask):
				t.logger.Printf("No mask for \"%s\"\n", file)
			case KindOf(err).IsValidation(), KindOf(err) == MaskMismatch:
				t.logger.Printf("Skipping \"%s\": %v\n", file, err)
			default:
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// outputName keeps the source extension of anything that isn't already a
// PNG so that a.gif and a.png don't both end up as a.png
func outputName(rel string) string {
	if strings.EqualFold(filepath.Ext(rel), ".png") {
		return rel
	}
	return rel + ".png"
}

// waitForPipeline drains every error channel and returns the first error
// seen. The first error also cancels the pipeline so the walker stops
// feeding the remaining workers.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var (
		wg    sync.WaitGroup
		once  sync.Once
		first error
	)
	wg.Add(len(errs))
	for _, c := range errs {
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				if err == nil {
					continue
				}
				once.Do(func() {
					first = err
					cancel()
				})
			}
		}(c)
	}
	wg.Wait()
	return first
}

// Batch exports every image under path that has either a mask file alongside
// it or a mask stored in the database. Results are written to the same
// relative location under outDir.
func (t *TileMask) Batch(path, outDir string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	out, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := t.findImages(ctx, dir, out)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := t.exportWorker(ctx, dir, out, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
