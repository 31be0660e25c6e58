// bardump prints the contents of one M1 history file as text, validating
// every bar. Used to inspect suspicious days during batch runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
	"github.com/rosasurfer/fx-history-tools/internal/infrastructure/barstore"
)

func main() {
	symbol := flag.String("symbol", "", "symbol name for error context")
	lax := flag.Bool("lax", false, "skip per-bar validation")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bardump [-symbol NAME] [-lax] <M1.bin>")
		os.Exit(2)
	}
	path := flag.Arg(0)
	name := *symbol
	if name == "" {
		name = path
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bardump: %v\n", err)
		os.Exit(1)
	}

	var series bars.DaySeries
	if *lax {
		series, err = barstore.Decode(buf, name)
	} else {
		series, err = barstore.DecodeStrict(buf, name)
	}
	if err != nil {
		var dataErr *barstore.DataError
		if errors.As(err, &dataErr) {
			fmt.Fprintf(os.Stderr, "bardump: %v (rerun with -lax to dump anyway)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "bardump: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("# %s: %d bars\n", name, len(series))
	fmt.Println("# time                 open      high      low       close     ticks")
	for _, b := range series {
		fmt.Printf("%s  %-9d %-9d %-9d %-9d %d\n", bars.FormatTime(b.Time), b.Open, b.High, b.Low, b.Close, b.Ticks)
	}
}
