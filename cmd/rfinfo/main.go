// Command rfinfo inspects the static lookup state of the library: the
// header field tables per format and travel-time table lookups.
//
// Usage:
//
//	rfinfo headers [format ...]
//	rfinfo arrivals [flags]
//
// Examples:
//
//	rfinfo headers sac
//	rfinfo headers
//	rfinfo arrivals -phase P -dist 60 -depth 30
//	rfinfo arrivals -model mymodel.yaml -phase S -dist 70 -depth 10
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-seis/header"
	"github.com/cwbudde/algo-seis/taup"
	"github.com/cwbudde/algo-seis/trace"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "headers":
		runHeaders(args[1:])
	case "arrivals":
		runArrivals(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: rfinfo <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  headers [format ...]   print the canonical-to-native header tables\n")
	fmt.Fprintf(os.Stderr, "  arrivals [flags]       query a travel-time table\n\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  rfinfo headers sac sh\n")
	fmt.Fprintf(os.Stderr, "  rfinfo arrivals -phase P -dist 60 -depth 30\n")
}

func runHeaders(names []string) {
	if len(names) == 0 {
		names = []string{"sac", "sh", "h5"}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Canonical")

	formats := make([]header.Format, 0, len(names))

	for _, name := range names {
		f := header.ParseFormat(name)
		if f == header.Unknown {
			fmt.Fprintf(os.Stderr, "warning: unknown format %q\n", name)
			continue
		}

		formats = append(formats, f)
		fmt.Fprintf(tw, "\t%s", strings.ToUpper(f.String()))
	}

	fmt.Fprintln(tw)

	tables := make([][]string, len(formats))
	for i, f := range formats {
		tables[i], _ = header.Table(f)
	}

	for pos, field := range trace.CanonicalFields() {
		fmt.Fprintf(tw, "%s", field)

		for i := range formats {
			native := "-"
			if tables[i] != nil {
				native = tables[i][pos]
			}

			fmt.Fprintf(tw, "\t%s", native)
		}

		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
		os.Exit(1)
	}
}

func runArrivals(args []string) {
	fs := flag.NewFlagSet("arrivals", flag.ExitOnError)
	modelPath := fs.String("model", "", "travel-time table YAML (default: embedded iasp91)")
	phase := fs.String("phase", "P", "seismic phase")
	dist := fs.Float64("dist", 60, "epicentral distance in degrees")
	depth := fs.Float64("depth", 10, "source depth in km")

	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	var (
		model taup.Model
		err   error
	)

	if *modelPath == "" {
		model = taup.IASP91()
	} else {
		model, err = taup.Load(*modelPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	arrivals, err := model.Arrivals(*depth, *dist, *phase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(arrivals) == 0 {
		fmt.Printf("no %s arrival at %.1f deg, depth %.1f km\n", *phase, *dist, *depth)
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Phase\tTime [s]\tIncidence [deg]\tRay param [s/deg]\n")

	for _, a := range arrivals {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.3f\n",
			a.Phase, a.Time, a.IncidenceAngle, a.RayParam)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
		os.Exit(1)
	}
}
