package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dargueta/pixcodec"
	"github.com/dargueta/pixcodec/driver"
	"github.com/urfave/cli/v2"
)

func main() {
	codecFlag := &cli.StringFlag{
		Name:    "codec",
		Aliases: []string{"c"},
		Usage:   "compression technique to use",
		Value:   "huffman",
		EnvVars: []string{"PIXCODEC_CODEC"},
	}

	cli := cli.App{
		Usage: "Compress images with classic lossless codecs and compare the results",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress an image into a container",
				Action:    compressImage,
				ArgsUsage: "IMAGE_FILE  CONTAINER_FILE",
				Flags:     []cli.Flag{codecFlag},
			},
			{
				Name:      "decompress",
				Usage:     "Restore an image from a container",
				Action:    decompressImage,
				ArgsUsage: "CONTAINER_FILE  IMAGE_FILE",
				Flags: []cli.Flag{
					codecFlag,
					&cli.IntFlag{
						Name:  "width",
						Usage: "fail unless the decoded image has this width",
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "fail unless the decoded image has this height",
					},
				},
			},
			{
				Name:      "report",
				Usage:     "Compress images with several codecs and tabulate the results",
				Action:    reportImages,
				ArgsUsage: "IMAGE_FILE_OR_DIRECTORY...",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "codec",
						Aliases: []string{"c"},
						Usage:   "codec to include; repeat for more (default: all)",
						EnvVars: []string{"PIXCODEC_CODEC"},
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "directory to write containers to",
						Value:   "compressed",
						EnvVars: []string{"PIXCODEC_OUTPUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "csv",
						Usage:   "append results to this CSV file instead of printing them",
						EnvVars: []string{"PIXCODEC_CSV"},
					},
				},
			},
			{
				Name:   "codecs",
				Usage:  "List the available codecs",
				Action: listCodecs,
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func requireArgs(context *cli.Context, count int) error {
	if context.Args().Len() != count {
		return pixcodec.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"expected %d arguments, got %d; usage: %s",
				count,
				context.Args().Len(),
				context.Command.ArgsUsage,
			),
		)
	}
	return nil
}

func compressImage(context *cli.Context) error {
	err := requireArgs(context, 2)
	if err != nil {
		return err
	}

	metrics, err := driver.New(nil, nil).Compress(
		context.String("codec"), context.Args().Get(0), context.Args().Get(1))
	if err != nil {
		return err
	}
	fmt.Println(metrics.String())
	return nil
}

func decompressImage(context *cli.Context) error {
	err := requireArgs(context, 2)
	if err != nil {
		return err
	}

	hint := &pixcodec.ShapeHint{
		Width:  context.Int("width"),
		Height: context.Int("height"),
	}
	img, err := driver.New(nil, nil).Decompress(
		context.String("codec"), context.Args().Get(0), context.Args().Get(1), hint)
	if err != nil {
		return err
	}
	fmt.Printf("Decompressed %dx%d image to %s\n", img.Width, img.Height, context.Args().Get(1))
	return nil
}

func reportImages(context *cli.Context) error {
	if context.Args().Len() == 0 {
		return pixcodec.ErrInvalidArgument.WithMessage("no images given")
	}

	images, err := driver.FindImages(context.Args().Slice())
	if err != nil {
		return err
	}

	rows, benchErr := driver.New(nil, nil).Benchmark(
		images, context.String("output-dir"), context.StringSlice("codec"))

	csvPath := context.String("csv")
	if csvPath != "" {
		err = driver.AppendReport(csvPath, rows)
	} else {
		err = driver.WriteReport(os.Stdout, rows, true)
	}
	if err != nil {
		return err
	}
	return benchErr
}

func listCodecs(context *cli.Context) error {
	registry := driver.DefaultRegistry()
	for _, name := range registry.Names() {
		fmt.Printf("%-10s *.%s\n", name, driver.ContainerExtension(name))
	}
	return nil
}
