package main

import (
	"fmt"
	"os"

	"github.com/dargueta/pixcodec/entropy"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(
			os.Stderr,
			"Print the byte entropy of a file, e.g. a container.\nUsage: %s input-file\n",
			os.Args[0])
		os.Exit(1)
	}

	sourceFilePath := os.Args[1]
	data, err := os.ReadFile(sourceFilePath)
	if err != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to read file: `%v`: %s\n", sourceFilePath, err)
		os.Exit(1)
	}

	histogram := entropy.NewHistogram(data)
	h := entropy.Shannon(histogram)
	fmt.Printf("Size:         %d bytes\n", len(data))
	fmt.Printf("Distinct:     %d byte values\n", histogram.AlphabetSize())
	fmt.Printf("Entropy:      %.6f bits/byte\n", h)
	fmt.Printf(
		"Redundancy:   %.6f\n", entropy.RelativeRedundancy(h, entropy.MaxByteEntropy))
}
