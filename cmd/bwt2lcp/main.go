// bwt2lcp induces the LCP array of a collection of reads from its BWT.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"ebwt/bwt"
	"ebwt/lcp"
)

func main() {
	input := flag.String("i", "", "input BWT (REQUIRED)")
	output := flag.String("o", "", "output LCP file (REQUIRED)")
	width := flag.Int("l", 1, "bytes per LCP value: 1, 2, 4 or 8")
	term := flag.Int("t", '#', "ASCII code of the terminator; cannot be the code of A, C, G, T or N")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *width != 1 && *width != 2 && *width != 4 && *width != 8 {
		fatal(fmt.Errorf("invalid LCP width %d: must be 1, 2, 4 or 8", *width))
	}
	if *term < 0 || *term > 255 {
		fatal(fmt.Errorf("invalid terminator code %d", *term))
	}
	t := byte(*term)
	if err := bwt.CheckTerm(t); err != nil {
		fatal(err)
	}

	hasN, err := bwt.HasN(*input)
	if err != nil {
		fatal(err)
	}
	if hasN {
		fmt.Printf("Alphabet: A,C,G,N,T,'%c'\n", t)
	} else {
		fmt.Printf("Alphabet: A,C,G,T,'%c'\n", t)
	}

	fmt.Printf("Input BWT file: %s\n", *input)
	fmt.Printf("Output LCP file: %s\n", *output)
	fmt.Println("Loading and indexing BWT ...")

	idx, err := bwt.New(*input, t)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Done. Size of BWT: %s symbols.\n", humanize.Comma(int64(idx.Size())))
	idx.Mem().Print(0)

	switch *width {
	case 1:
		run[uint8](idx, *output)
	case 2:
		run[uint16](idx, *output)
	case 4:
		run[uint32](idx, *output)
	case 8:
		run[uint64](idx, *output)
	}

	fmt.Println("Done.")
}

func run[T lcp.Int](idx *bwt.Index, path string) {
	arr, st := lcp.Build[T](idx, lcp.Options{Progress: true})

	fmt.Printf("Visited leaves cover %d/%d input characters.\n", st.Covered, idx.Size())
	fmt.Printf("Computed %d/%d LCP values.\n", st.Values, arr.Len())
	fmt.Printf("Processed %d suffix-tree leaves and %d nodes; max stack depth %d.\n",
		st.Leaves, st.Nodes, st.MaxStack)
	fmt.Println("Storing output to file ...")

	if err := arr.Save(path); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
