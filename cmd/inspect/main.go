package main

import (
	"fmt"
	"os"

	"github.com/AbdulRehman197/flower-bloom-filter/internal/snapshot"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.fba>\n", os.Args[0])
		os.Exit(1)
	}

	path := os.Args[1]
	fmt.Printf("Inspecting snapshot: %s\n", path)
	fmt.Println()

	words, err := snapshot.Words(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read header: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Words: %d (%d bits)\n", words, words*64)

	arr, err := snapshot.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load snapshot: %v\n", err)
		os.Exit(1)
	}

	// Per-chunk popcounts via the incremental protocol, the same way an
	// embedding host would accumulate them.
	var total uint64
	chunk := uint64(0)
	for {
		cursor, partial := arr.CountOnesChunk(chunk)
		if partial > 0 || !cursor.Done() {
			fmt.Printf("chunk %d: %d ones\n", chunk, partial)
		}
		total += partial
		if cursor.Done() {
			break
		}
		chunk = cursor.Chunk()
	}

	fmt.Println()
	fmt.Printf("Total ones: %d\n", total)
}
