// Package main is the door-staff scanner: it decodes attendee codes from
// camera frames or raw text and prints the attendee fields.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventpass/backend/internal/scanner"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	if err := newApp(os.Stdout, time.Now, logger).Run(context.Background(), os.Args); err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}
}

func newApp(out io.Writer, now func() time.Time, logger *zap.Logger) *cli.Command {
	jsonFlag := &cli.BoolFlag{Name: "json", Usage: "print each scan as a JSON object"}
	return &cli.Command{
		Name:   "scan",
		Usage:  "decode attendee codes at the door",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:      "image",
				Usage:     "decode one or more PNG/JPEG camera frames",
				ArgsUsage: "<file>...",
				Flags:     []cli.Flag{jsonFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files := cmd.Args().Slice()
					if len(files) == 0 {
						return errors.New("at least one image file is required")
					}
					failed := 0
					for _, name := range files {
						raw, err := decodeFile(name)
						if err != nil {
							logger.Warn("no code decoded", zap.String("file", name), zap.Error(err))
							failed++
							continue
						}
						if err := emit(out, scanner.Parse(raw, now()), cmd.Bool("json")); err != nil {
							return err
						}
					}
					if failed == len(files) {
						return fmt.Errorf("no code decoded from %d file(s)", failed)
					}
					return nil
				},
			},
			{
				Name:      "text",
				Usage:     "parse already-decoded code text",
				ArgsUsage: "<raw>",
				Flags:     []cli.Flag{jsonFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("exactly one raw text argument is required")
					}
					return emit(out, scanner.Parse(cmd.Args().First(), now()), cmd.Bool("json"))
				},
			},
		},
	}
}

func decodeFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return scanner.DecodeImage(f)
}

func emit(out io.Writer, d scanner.Display, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(d)
	}
	_, err := fmt.Fprintln(out, d.Text())
	return err
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
