package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/calibrate"
	"gonum.org/v1/gonum/mat"
)

func main() {
	data := flag.String("data", "", "text file of x y z sensor readings, one per line")
	flag.Parse()
	if *data == "" {
		fmt.Fprintln(os.Stderr, "calibrate: -data is required")
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: %v\n", err)
		os.Exit(1)
	}
	points, err := calibrate.LoadPoints(f)
	_ = f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: %v\n", err)
		os.Exit(1)
	}

	res, err := calibrate.Whiten(points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("points: %d\n", len(points))
	fmt.Printf("center: %v\n", res.Center)
	fmt.Printf("rescale:\n%v\n", mat.Formatted(res.Rescale, mat.Prefix("  "), mat.Squeeze()))
	maxs, mins, means := res.Extent()
	fmt.Printf("max:  %v\nmin:  %v\nmean: %v\n", maxs, mins, means)
}
