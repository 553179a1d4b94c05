// Command infs is the build-time companion to the infs library.
//
// It packs directories of static assets into .infs bundle files and can
// generate the Go source that embeds them:
//
//	infs bundle -out internal/assets -gen internal/assets/assets.go ./web/dist
//	infs inspect internal/assets/dist.infs
//
// Flag defaults can be supplied through the environment or a .env file
// in the working directory (INFS_OUT_DIR, INFS_PKG).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/infs"
	"github.com/meigma/infs/cmd/infs/internal/codegen"
)

const envFile = ".env"

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// loadEnv reads .env defaults for flag fallbacks. A missing file is not
// an error; explicit environment variables win over file values.
func loadEnv() map[string]string {
	env, err := godotenv.Read(envFile)
	if err != nil {
		return map[string]string{}
	}
	return env
}

func envDefault(env map[string]string, key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := env[key]; v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  infs bundle [-out DIR] [-pkg NAME] [-gen FILE] [-v] SRCDIR...
  infs inspect FILE
`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	setupLogging(slog.LevelInfo)

	if len(args) == 0 {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "bundle":
		err = runBundle(ctx, args[1:])
	case "inspect":
		err = runInspect(args[1:])
	default:
		usage()
		return 2
	}
	if err != nil {
		slog.Error("command failed", "err", err)
		return 1
	}
	return 0
}

func runBundle(ctx context.Context, args []string) error {
	env := loadEnv()

	flags := flag.NewFlagSet("bundle", flag.ExitOnError)
	outDir := flags.String("out", envDefault(env, "INFS_OUT_DIR", "."), "output directory for bundle files")
	pkg := flags.String("pkg", envDefault(env, "INFS_PKG", "assets"), "package name for generated code")
	genFile := flags.String("gen", "", "write a generated go:embed shim to this file")
	verbose := flags.Bool("v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *verbose {
		setupLogging(slog.LevelDebug)
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		return errors.New("bundle: no source directories given")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	bundles := make([]codegen.Bundle, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			name := filepath.Base(filepath.Clean(dir))
			file := name + ".infs"
			if err := writeBundle(gctx, dir, filepath.Join(*outDir, file), *verbose); err != nil {
				return fmt.Errorf("bundle %s: %w", dir, err)
			}
			bundles[i] = codegen.Bundle{Name: name, File: file}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if *genFile == "" {
		return nil
	}
	src, err := codegen.Render(codegen.File{Package: *pkg, Bundles: bundles})
	if err != nil {
		return err
	}
	if err := os.WriteFile(*genFile, src, 0o644); err != nil { //nolint:gosec // generated source is not sensitive
		return err
	}
	slog.Info("shim generated", "path", *genFile, "package", *pkg)
	return nil
}

// writeBundle creates one bundle file, removing it again on failure so a
// partial archive is never left behind.
func writeBundle(ctx context.Context, dir, outPath string, verbose bool) error {
	f, err := os.Create(outPath) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return err
	}

	var opts []infs.CreateOption
	if verbose {
		opts = append(opts, infs.CreateWithLogger(slog.Default()))
	}

	stats, err := infs.Create(ctx, dir, f, opts...)
	if err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return err
	}

	slog.Info("bundle written",
		"path", outPath,
		"files", stats.FileCount,
		"size", humanize.IBytes(stats.TotalBytes),
		"digest", stats.Digest)
	return nil
}

func runInspect(args []string) error {
	flags := flag.NewFlagSet("inspect", flag.ExitOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("inspect: exactly one bundle file required")
	}
	bundlePath := flags.Arg(0)

	data, err := os.ReadFile(bundlePath) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return err
	}
	archive, err := infs.New(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", bundlePath, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	var total uint64
	for _, p := range archive.Paths() {
		entry, _ := archive.Entry(p)
		total += entry.Size
		fmt.Fprintf(w, "%s\t  %s\n", humanize.IBytes(entry.Size), p)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d files, %s data, %s total\n%s\n",
		archive.Len(),
		humanize.IBytes(total),
		humanize.IBytes(uint64(archive.Size())), //nolint:gosec // buffer length is non-negative
		digest.FromBytes(data))
	return nil
}
