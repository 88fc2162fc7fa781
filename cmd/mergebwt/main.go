// mergebwt merges the eBWTs of two collections of reads by navigating the
// generalized suffix tree of their union. Produces PREFIX.bwt, optionally
// PREFIX.da and PREFIX.lcp.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"ebwt/bwt"
	"ebwt/lcp"
	"ebwt/merge"
)

func main() {
	input1 := flag.String("1", "", "input BWT 1 (REQUIRED)")
	input2 := flag.String("2", "", "input BWT 2 (REQUIRED)")
	output := flag.String("o", "", "output prefix (REQUIRED)")
	width := flag.Int("l", 0, "bytes per LCP value of the merged BWT: 1, 2, 4 or 8; 0 disables the LCP (faster)")
	outDA := flag.Bool("d", false, "output the document array as an ASCII file of 0/1")
	term := flag.Int("t", '#', "ASCII code of the terminator; cannot be the code of A, C, G, T or N")
	flag.Parse()

	if *input1 == "" || *input2 == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *width != 0 && *width != 1 && *width != 2 && *width != 4 && *width != 8 {
		fatal(fmt.Errorf("invalid LCP width %d: must be 0, 1, 2, 4 or 8", *width))
	}
	if *term < 0 || *term > 255 {
		fatal(fmt.Errorf("invalid terminator code %d", *term))
	}
	t := byte(*term)
	if err := bwt.CheckTerm(t); err != nil {
		fatal(err)
	}

	hasN1, err := bwt.HasN(*input1)
	if err != nil {
		fatal(err)
	}
	hasN2, err := bwt.HasN(*input2)
	if err != nil {
		fatal(err)
	}
	if hasN1 || hasN2 {
		fmt.Printf("Alphabet: A,C,G,N,T,'%c'\n", t)
	} else {
		fmt.Printf("Alphabet: A,C,G,T,'%c'\n", t)
	}

	fmt.Printf("Input BWT 1: %s\n", *input1)
	fmt.Printf("Input BWT 2: %s\n", *input2)
	fmt.Printf("Output prefix: %s\n", *output)
	fmt.Println("Loading and indexing BWTs ...")

	b1, err := bwt.New(*input1, t)
	if err != nil {
		fatal(err)
	}
	b2, err := bwt.New(*input2, t)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Done. Size of BWTs: %s and %s symbols.\n",
		humanize.Comma(int64(b1.Size())), humanize.Comma(int64(b2.Size())))
	b1.Mem().Print(0)
	b2.Mem().Print(0)

	switch *width {
	case 0:
		run[uint8](b1, b2, false, *output, *outDA)
	case 1:
		run[uint8](b1, b2, true, *output, *outDA)
	case 2:
		run[uint16](b1, b2, true, *output, *outDA)
	case 4:
		run[uint32](b1, b2, true, *output, *outDA)
	case 8:
		run[uint64](b1, b2, true, *output, *outDA)
	}

	fmt.Println("Done.")
}

func run[T lcp.Int](b1, b2 *bwt.Index, computeLCP bool, prefix string, outDA bool) {
	m, err := merge.Merge[T](b1, b2, merge.Options{ComputeLCP: computeLCP, Progress: true})
	if err != nil {
		fatal(err)
	}

	st := m.Stats
	fmt.Printf("Computed %d/%d DA values.\n", st.DAValues, m.Size())
	if computeLCP {
		fmt.Printf("Computed %d/%d LCP values.\n", st.LCPValues, m.Size())
	}
	fmt.Printf("Processed %d suffix-tree leaves and %d nodes; max stack depth %d.\n",
		st.Leaves, st.Nodes, st.MaxStack)
	fmt.Println("Storing output to file ...")

	if err := m.Save(prefix, outDA); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
