package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/AbdulRehman197/flower-bloom-filter/internal/bitarray"
	"github.com/AbdulRehman197/flower-bloom-filter/internal/filter"
	"github.com/AbdulRehman197/flower-bloom-filter/internal/host"
	"github.com/AbdulRehman197/flower-bloom-filter/internal/snapshot"
)

const historyFile = ".flower_history"

func main() {
	registry := host.NewRegistry()
	filters := make(map[string]filter.Filter)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("flower - bit array shell")
	fmt.Println("type 'help' for commands")

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			// Ctrl-C or Ctrl-D: leave the loop so history gets written.
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit":
			return
		case "help":
			printHelp()
		case "new":
			cmdNew(registry, args)
		case "put":
			cmdPut(registry, args)
		case "get":
			cmdGet(registry, args)
		case "len":
			cmdLen(registry, args)
		case "count":
			cmdCount(registry, args)
		case "retain":
			cmdRetain(registry, args)
		case "release":
			cmdRelease(registry, args)
		case "handles":
			fmt.Printf("%d live handle(s)\n", registry.Len())
		case "save":
			cmdSave(registry, args)
		case "load":
			cmdLoad(registry, args)
		case "merge":
			cmdMerge(registry, args)
		case "bloom":
			cmdBloom(filters, args)
		default:
			fmt.Printf("unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println("bit arrays (h = handle):")
	fmt.Println("  new <bits>              create an array, print its handle")
	fmt.Println("  put <h> <index> <0|1>   set or clear a bit")
	fmt.Println("  get <h> <index>         read a bit")
	fmt.Println("  len <h>                 bit capacity (words * 64)")
	fmt.Println("  count <h>               population count")
	fmt.Println("  retain <h> | release <h> | handles")
	fmt.Println("  save <h> <file>         write a chunked snapshot")
	fmt.Println("  load <file>             read a snapshot into a new handle")
	fmt.Println("  merge <h> <file>        OR-merge a snapshot into an array")
	fmt.Println("bloom filters:")
	fmt.Println("  bloom new <name> <n> <p>    sized for n keys at FP rate p")
	fmt.Println("  bloom add <name> <key>")
	fmt.Println("  bloom check <name> <key>")
	fmt.Println("  bloom union <name> <other>")
	fmt.Println("  bloom fill <name>")
	fmt.Println("  exit")
}

func parseHandle(s string) (host.Handle, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return host.Handle(v), err
}

func resolve(r *host.Registry, s string) (bitarray.BitArray, bool) {
	h, err := parseHandle(s)
	if err != nil {
		fmt.Printf("bad handle: %s\n", s)
		return nil, false
	}
	arr, err := r.Get(h)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return nil, false
	}
	return arr, true
}

func cmdNew(r *host.Registry, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: new <bits>")
		return
	}
	bits, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad bit count: %s\n", args[0])
		return
	}
	h := r.Create(bits)
	fmt.Printf("handle %d\n", h)
}

func cmdPut(r *host.Registry, args []string) {
	if len(args) != 3 || (args[2] != "0" && args[2] != "1") {
		fmt.Println("usage: put <h> <index> <0|1>")
		return
	}
	arr, ok := resolve(r, args[0])
	if !ok {
		return
	}
	index, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Printf("bad index: %s\n", args[1])
		return
	}
	if err := arr.Put(index, args[2] == "1"); err != nil {
		fmt.Printf("put error: %v\n", err)
		return
	}
	fmt.Println("ok")
}

func cmdGet(r *host.Registry, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: get <h> <index>")
		return
	}
	arr, ok := resolve(r, args[0])
	if !ok {
		return
	}
	index, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Printf("bad index: %s\n", args[1])
		return
	}
	set, err := arr.Get(index)
	if err != nil {
		fmt.Printf("get error: %v\n", err)
		return
	}
	if set {
		fmt.Println("1")
	} else {
		fmt.Println("0")
	}
}

func cmdLen(r *host.Registry, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: len <h>")
		return
	}
	if arr, ok := resolve(r, args[0]); ok {
		fmt.Println(arr.BitLength())
	}
}

func cmdCount(r *host.Registry, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: count <h>")
		return
	}
	if arr, ok := resolve(r, args[0]); ok {
		fmt.Println(arr.CountOnes())
	}
}

func cmdRetain(r *host.Registry, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: retain <h>")
		return
	}
	h, err := parseHandle(args[0])
	if err != nil {
		fmt.Printf("bad handle: %s\n", args[0])
		return
	}
	if err := r.Retain(h); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	refs, _ := r.Refs(h)
	fmt.Printf("refs %d\n", refs)
}

func cmdRelease(r *host.Registry, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: release <h>")
		return
	}
	h, err := parseHandle(args[0])
	if err != nil {
		fmt.Printf("bad handle: %s\n", args[0])
		return
	}
	if err := r.Release(h); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if refs, err := r.Refs(h); err == nil {
		fmt.Printf("refs %d\n", refs)
	} else {
		fmt.Println("freed")
	}
}

func cmdSave(r *host.Registry, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: save <h> <file>")
		return
	}
	arr, ok := resolve(r, args[0])
	if !ok {
		return
	}
	if err := snapshot.Save(args[1], arr); err != nil {
		fmt.Printf("save error: %v\n", err)
	}
}

func cmdLoad(r *host.Registry, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: load <file>")
		return
	}
	arr, err := snapshot.Load(args[0])
	if err != nil {
		fmt.Printf("load error: %v\n", err)
		return
	}
	h := r.Adopt(arr)
	fmt.Printf("handle %d (%d bits)\n", h, arr.BitLength())
}

func cmdMerge(r *host.Registry, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: merge <h> <file>")
		return
	}
	arr, ok := resolve(r, args[0])
	if !ok {
		return
	}
	if err := snapshot.MergeInto(args[1], arr); err != nil {
		fmt.Printf("merge error: %v\n", err)
		return
	}
	fmt.Printf("count %d\n", arr.CountOnes())
}

func cmdBloom(filters map[string]filter.Filter, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: bloom <new|add|check|union|fill> <name> ...")
		return
	}
	sub, name := args[0], args[1]

	if sub != "new" {
		if _, ok := filters[name]; !ok {
			fmt.Printf("no such filter: %s\n", name)
			return
		}
	}

	switch sub {
	case "new":
		if len(args) != 4 {
			fmt.Println("usage: bloom new <name> <n> <p>")
			return
		}
		n, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil || n == 0 {
			fmt.Printf("bad element count: %s\n", args[2])
			return
		}
		p, err := strconv.ParseFloat(args[3], 64)
		if err != nil || p <= 0 || p >= 1 {
			fmt.Printf("bad false positive rate: %s\n", args[3])
			return
		}
		k, m := filter.OptimalParams(n, p)
		filters[name] = filter.NewBloomFilter(k, m)
		fmt.Printf("filter %s: k=%d m=%d\n", name, k, m)
	case "add":
		if len(args) != 3 {
			fmt.Println("usage: bloom add <name> <key>")
			return
		}
		filters[name].Add([]byte(args[2]))
		fmt.Println("ok")
	case "check":
		if len(args) != 3 {
			fmt.Println("usage: bloom check <name> <key>")
			return
		}
		if filters[name].MayContain([]byte(args[2])) {
			fmt.Println("maybe")
		} else {
			fmt.Println("no")
		}
	case "union":
		if len(args) != 3 {
			fmt.Println("usage: bloom union <name> <other>")
			return
		}
		other, ok := filters[args[2]]
		if !ok {
			fmt.Printf("no such filter: %s\n", args[2])
			return
		}
		if err := filters[name].Union(other); err != nil {
			fmt.Printf("union error: %v\n", err)
			return
		}
		fmt.Println("ok")
	case "fill":
		fmt.Printf("%.4f\n", filters[name].Fill())
	default:
		fmt.Printf("unknown bloom command: %s\n", sub)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
