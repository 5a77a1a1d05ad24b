package main

import (
	"fmt"
	"io/ioutil"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/urfave/cli"

	"github.com/retrosn/psxcfg/adapter"
	"github.com/retrosn/psxcfg/debugsrc"
	"github.com/retrosn/psxcfg/decoder"
	"github.com/retrosn/psxcfg/exe"
	"github.com/retrosn/psxcfg/reach"
	"github.com/retrosn/psxcfg/structcfg"
)

func loadSession(file string, labelFlags, funcFlags []string) (*decoder.Session, *exe.Executable, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", file, err)
	}
	ex, err := exe.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	src := debugsrc.NewStatic()
	for _, spec := range labelFlags {
		addr, name, err := splitAddrName(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("--label %s: %w", spec, err)
		}
		src.AddLabel(addr, name)
		src.AddSymbol(addr, name)
	}
	for _, spec := range funcFlags {
		addr, _, err := splitAddrName(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("--func %s: %w", spec, err)
		}
		src.AddFunction(addr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sess := decoder.NewSession(ex, src, logger)
	return sess, ex, nil
}

func splitAddrName(spec string) (uint32, string, error) {
	for i, r := range spec {
		if r == '=' {
			addr, err := strconv.ParseUint(spec[:i], 0, 32)
			if err != nil {
				return 0, "", err
			}
			return uint32(addr), spec[i+1:], nil
		}
	}
	return 0, "", fmt.Errorf("expected addr=name, got %q", spec)
}

func entryPoints(ex *exe.Executable, src debugsrc.Source) []uint32 {
	local, err := ex.ToLocal(ex.Header.PC0)
	entries := []uint32{}
	if err == nil {
		entries = append(entries, local)
	}
	for _, fn := range src.Functions() {
		if l, err := ex.ToLocal(fn.Address); err == nil {
			entries = append(entries, l)
		}
	}
	return entries
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("missing exe file argument", 1)
	}
	sess, ex, err := loadSession(c.Args().First(), c.StringSlice("label"), c.StringSlice("func"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	entries := entryPoints(ex, sess.Src)
	p := reach.Run(sess, entries)

	fmt.Printf("blocks: %d\n", len(p.Blocks))
	fmt.Printf("functions discovered (including jal targets): %d\n", len(sess.Callees)+len(entries))
	return nil
}

func runBlocks(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("missing exe file argument", 1)
	}
	sess, ex, err := loadSession(c.Args().First(), c.StringSlice("label"), c.StringSlice("func"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	entries := entryPoints(ex, sess.Src)
	p := reach.Run(sess, entries)

	v := adapter.NewView()
	v.Load(p)

	offset := uint32(c.Int("offset"))
	length := uint32(c.Int("length"))
	if length == 0 {
		length = uint32(v.Len())
	}

	for _, e := range v.Slice(offset, length) {
		if e.HasJumpTarget {
			fmt.Printf("%08x: %s -> %08x\n", ex.ToGlobal(e.Address), e.Text, ex.ToGlobal(e.JumpTarget))
		} else {
			fmt.Printf("%08x: %s\n", ex.ToGlobal(e.Address), e.Text)
		}
	}
	return nil
}

func runFunctions(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("missing exe file argument", 1)
	}
	sess, ex, err := loadSession(c.Args().First(), c.StringSlice("label"), c.StringSlice("func"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	entries := entryPoints(ex, sess.Src)
	p := reach.Run(sess, entries)

	fns := make(map[uint32]int)
	for _, b := range p.Blocks {
		for fn := range b.OwningFunctions {
			fns[fn]++
		}
	}

	addrs := make([]uint32, 0, len(fns))
	for addr := range fns {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		fmt.Printf("%08x: %d blocks\n", ex.ToGlobal(addr), fns[addr])
		g := structcfg.Build(p.Blocks, addr)
		structcfg.Reduce(g)
		fmt.Printf("  structural nodes: %d\n", len(g.Nodes()))
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "psxcfg"
	app.Usage = "Static analyzer for PlayStation 1 executables"
	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	commonFlags := []cli.Flag{
		cli.StringSliceFlag{Name: "label", Usage: "addr=name, may be repeated"},
		cli.StringSliceFlag{Name: "func", Usage: "addr=name marking a known function entry, may be repeated"},
	}

	app.Commands = []cli.Command{
		{
			Name:      "analyze",
			Usage:     "Run the full pipeline and print summary counts",
			ArgsUsage: "exe",
			Flags:     commonFlags,
			Action:    runAnalyze,
		},
		{
			Name:      "blocks",
			Usage:     "Print the decoded micro-instruction blocks in an address range",
			ArgsUsage: "exe",
			Flags: append(commonFlags,
				cli.IntFlag{Name: "offset", Value: 0, Usage: "local text offset to start at"},
				cli.IntFlag{Name: "length", Value: 0, Usage: "number of entries to print, 0 means all"},
			),
			Action: runBlocks,
		},
		{
			Name:      "functions",
			Usage:     "Print discovered functions and their reduced structural node count",
			ArgsUsage: "exe",
			Flags:     commonFlags,
			Action:    runFunctions,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
