// Command prolly manipulates canonical content-addressed collections over
// any registered CAS backend.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ipfs/go-cid"

	"xdao.co/prolly/codec"
	"xdao.co/prolly/storage"
	"xdao.co/prolly/storage/bundle"
	"xdao.co/prolly/storage/casconfig"
	"xdao.co/prolly/storage/casregistry"
	"xdao.co/prolly/tree"

	_ "xdao.co/prolly/storage/grpccas"
	_ "xdao.co/prolly/storage/ipfs"
	_ "xdao.co/prolly/storage/localfs"
	_ "xdao.co/prolly/storage/memory"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "list":
		return cmdList(args[1:], out, errOut)
	case "map":
		return cmdMap(args[1:], out, errOut)
	case "export":
		return cmdExport(args[1:], out, errOut)
	case "import":
		return cmdImport(args[1:], out, errOut)
	case "backends":
		for _, b := range casregistry.List(casregistry.UsageCLI) {
			if b.Description == "" {
				fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "prolly: canonical content-addressed collections CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  prolly list create <cid>...")
	fmt.Fprintln(w, "  prolly list size|scan --root <cid>")
	fmt.Fprintln(w, "  prolly list at --root <cid> <index>")
	fmt.Fprintln(w, "  prolly list splice --root <cid> --start <n> [--delete <n>] <cid>...")
	fmt.Fprintln(w, "  prolly map create <key=cid>...")
	fmt.Fprintln(w, "  prolly map size|scan --root <cid>")
	fmt.Fprintln(w, "  prolly map at --root <cid> <rank>")
	fmt.Fprintln(w, "  prolly map get --root <cid> <key>")
	fmt.Fprintln(w, "  prolly map upsert --root <cid> <key=cid>...")
	fmt.Fprintln(w, "  prolly map remove --root <cid> <key>...")
	fmt.Fprintln(w, "  prolly export --root <cid> --tar <file>")
	fmt.Fprintln(w, "  prolly import --tar <file>")
	fmt.Fprintln(w, "  prolly backends")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every subcommand accepts --backend plus backend flags (see 'prolly backends')")
	fmt.Fprintln(w, "and --codec (dag-cbor or dag-json). The backend's deriver and the codec are")
	fmt.Fprintln(w, "part of a collection's identity: reuse the same pair to get the same roots.")
}

// cliContext carries the flags every subcommand shares.
type cliContext struct {
	fs        *flag.FlagSet
	backend   *string
	casConfig *string
	codecName *string

	root  *string
	lo    *uint64
	hi    *uint64
	limit *uint64
	lt    *string
	le    *string
	gt    *string
	ge    *string
}

func newContext(name string) *cliContext {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c := &cliContext{
		fs:        fs,
		backend:   fs.String("backend", "memory", "CAS backend name"),
		casConfig: fs.String("cas-config", "", "JSON multi-backend CAS config (overrides --backend)"),
		codecName: fs.String("codec", "dag-cbor", "node codec (dag-cbor or dag-json)"),
		root:      fs.String("root", "", "collection root CID"),
	}
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
	return c
}

func (c *cliContext) scanFlags() {
	c.lo = c.fs.Uint64("lo", 0, "start rank inclusive")
	c.hi = c.fs.Uint64("hi", 0, "end rank exclusive (0 means unbounded)")
	c.limit = c.fs.Uint64("limit", 0, "max items (0 means unbounded)")
	c.lt = c.fs.String("lt", "", "start strictly after this key")
	c.le = c.fs.String("le", "", "start at or after this key")
	c.gt = c.fs.String("gt", "", "stop before this key")
	c.ge = c.fs.String("ge", "", "stop after this key")
}

func (c *cliContext) open(errOut io.Writer) (tree.Config, func() error, bool) {
	var cod codec.Codec
	switch *c.codecName {
	case "dag-cbor":
		cod = codec.DagCBOR()
	case "dag-json":
		cod = codec.DagJSON()
	default:
		fmt.Fprintf(errOut, "unknown codec: %s\n", *c.codecName)
		return tree.Config{}, nil, false
	}
	var (
		cas     storage.CAS
		closeFn func() error
		err     error
	)
	if *c.casConfig != "" {
		var fileCfg casconfig.Config
		fileCfg, err = casconfig.LoadFile(*c.casConfig)
		if err == nil {
			cas, closeFn, err = fileCfg.Open(casregistry.UsageCLI, "")
		}
	} else {
		cas, closeFn, err = casregistry.Open(*c.backend, casregistry.UsageCLI)
	}
	if err != nil {
		fmt.Fprintln(errOut, err)
		return tree.Config{}, nil, false
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return tree.Config{Store: cas, Codec: cod}, closeFn, true
}

func (c *cliContext) rootCID(errOut io.Writer) (cid.Cid, bool) {
	id, err := cid.Decode(*c.root)
	if err != nil || !id.Defined() {
		fmt.Fprintf(errOut, "invalid --root: %q\n", *c.root)
		return cid.Undef, false
	}
	return id, true
}

func (c *cliContext) scanOptions() tree.ScanOptions {
	opts := tree.ScanOptions{Lo: *c.lo, Limit: *c.limit}
	if *c.hi > 0 {
		hi := *c.hi
		opts.Hi = &hi
	}
	setKey := func(dst **string, v string) {
		if v != "" {
			s := v
			*dst = &s
		}
	}
	setKey(&opts.LT, *c.lt)
	setKey(&opts.LE, *c.le)
	setKey(&opts.GT, *c.gt)
	setKey(&opts.GE, *c.ge)
	return opts
}

func parseCIDs(args []string, errOut io.Writer) ([]cid.Cid, bool) {
	out := make([]cid.Cid, 0, len(args))
	for _, a := range args {
		id, err := cid.Decode(a)
		if err != nil || !id.Defined() {
			fmt.Fprintf(errOut, "invalid cid: %q\n", a)
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func parseEntries(args []string, errOut io.Writer) ([]tree.Entry, bool) {
	out := make([]tree.Entry, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			fmt.Fprintf(errOut, "invalid entry (want key=cid): %q\n", a)
			return nil, false
		}
		id, err := cid.Decode(v)
		if err != nil || !id.Defined() {
			fmt.Fprintf(errOut, "invalid cid in entry %q\n", a)
			return nil, false
		}
		out = append(out, tree.Entry{Key: k, Value: id})
	}
	return out, true
}

func cmdList(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: prolly list <create|size|at|scan|splice> ...")
		return 2
	}
	sub, rest := args[0], args[1:]

	c := newContext("list " + sub)
	var start, del *uint64
	switch sub {
	case "scan":
		c.scanFlags()
	case "splice":
		start = c.fs.Uint64("start", 0, "splice position")
		del = c.fs.Uint64("delete", 0, "elements to delete")
	}
	if err := c.fs.Parse(rest); err != nil {
		return 2
	}

	cfg, closeFn, ok := c.open(errOut)
	if !ok {
		return 1
	}
	defer closeFn()

	switch sub {
	case "create":
		items, ok := parseCIDs(c.fs.Args(), errOut)
		if !ok {
			return 2
		}
		l, err := tree.CreateList(cfg, items)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, l.Root())
		return 0
	case "size":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		n, err := tree.LoadList(cfg, root).Size()
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, n)
		return 0
	case "at":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		if c.fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: prolly list at --root <cid> <index>")
			return 2
		}
		i, err := strconv.ParseUint(c.fs.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(errOut, "invalid index: %q\n", c.fs.Arg(0))
			return 2
		}
		v, err := tree.LoadList(cfg, root).At(i)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, v)
		return 0
	case "scan":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		cur := tree.LoadList(cfg, root).Scan(c.scanOptions())
		for {
			e, ok, err := cur.Next()
			if err != nil {
				fmt.Fprintln(errOut, err)
				return 1
			}
			if !ok {
				return 0
			}
			fmt.Fprintln(out, e.Value)
		}
	case "splice":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		items, ok := parseCIDs(c.fs.Args(), errOut)
		if !ok {
			return 2
		}
		l, err := tree.LoadList(cfg, root).Splice(*start, *del, items)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, l.Root())
		return 0
	default:
		fmt.Fprintf(errOut, "unknown list subcommand: %s\n", sub)
		return 2
	}
}

func cmdMap(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: prolly map <create|size|at|get|scan|upsert|remove> ...")
		return 2
	}
	sub, rest := args[0], args[1:]

	c := newContext("map " + sub)
	if sub == "scan" {
		c.scanFlags()
	}
	if err := c.fs.Parse(rest); err != nil {
		return 2
	}

	cfg, closeFn, ok := c.open(errOut)
	if !ok {
		return 1
	}
	defer closeFn()

	switch sub {
	case "create":
		entries, ok := parseEntries(c.fs.Args(), errOut)
		if !ok {
			return 2
		}
		m, err := tree.CreateMap(cfg, entries)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, m.Root())
		return 0
	case "size":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		n, err := tree.LoadMap(cfg, root).Size()
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, n)
		return 0
	case "at":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		if c.fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: prolly map at --root <cid> <rank>")
			return 2
		}
		i, err := strconv.ParseUint(c.fs.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(errOut, "invalid rank: %q\n", c.fs.Arg(0))
			return 2
		}
		e, found, err := tree.LoadMap(cfg, root).At(i)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		if !found {
			return 1
		}
		fmt.Fprintf(out, "%s\t%s\n", e.Key, e.Value)
		return 0
	case "get":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		if c.fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: prolly map get --root <cid> <key>")
			return 2
		}
		v, found, err := tree.LoadMap(cfg, root).Eq(c.fs.Arg(0))
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		if !found {
			return 1
		}
		fmt.Fprintln(out, v)
		return 0
	case "scan":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		cur := tree.LoadMap(cfg, root).Scan(c.scanOptions())
		for {
			e, ok, err := cur.Next()
			if err != nil {
				fmt.Fprintln(errOut, err)
				return 1
			}
			if !ok {
				return 0
			}
			fmt.Fprintf(out, "%s\t%s\n", e.Key, e.Value)
		}
	case "upsert":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		entries, ok := parseEntries(c.fs.Args(), errOut)
		if !ok || len(entries) == 0 {
			fmt.Fprintln(errOut, "usage: prolly map upsert --root <cid> <key=cid>...")
			return 2
		}
		m := tree.LoadMap(cfg, root)
		var err error
		for _, e := range entries {
			m, err = m.Upsert(e.Key, e.Value)
			if err != nil {
				fmt.Fprintln(errOut, err)
				return 1
			}
		}
		fmt.Fprintln(out, m.Root())
		return 0
	case "remove":
		root, ok := c.rootCID(errOut)
		if !ok {
			return 2
		}
		if c.fs.NArg() == 0 {
			fmt.Fprintln(errOut, "usage: prolly map remove --root <cid> <key>...")
			return 2
		}
		m := tree.LoadMap(cfg, root)
		var err error
		for _, k := range c.fs.Args() {
			m, err = m.Remove(k)
			if err != nil {
				fmt.Fprintln(errOut, err)
				return 1
			}
		}
		fmt.Fprintln(out, m.Root())
		return 0
	default:
		fmt.Fprintf(errOut, "unknown map subcommand: %s\n", sub)
		return 2
	}
}

func cmdExport(args []string, out io.Writer, errOut io.Writer) int {
	c := newContext("export")
	tarPath := c.fs.String("tar", "", "output TAR path")
	label := c.fs.String("label", "root", "label name for the root CID in index.json")
	if err := c.fs.Parse(args); err != nil {
		return 2
	}
	if *tarPath == "" {
		fmt.Fprintln(errOut, "missing --tar")
		return 2
	}

	cfg, closeFn, ok := c.open(errOut)
	if !ok {
		return 1
	}
	defer closeFn()

	root, ok := c.rootCID(errOut)
	if !ok {
		return 2
	}

	var ids []cid.Cid
	if err := tree.Walk(cfg, root, func(id cid.Cid) error {
		ids = append(ids, id)
		return nil
	}); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	f, err := os.Create(*tarPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer f.Close()

	err = bundle.Export(f, cfg.Store, ids, bundle.ExportOptions{
		IncludeIndex: true,
		Labels:       map[string]cid.Cid{*label: root},
	})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "exported %d blocks\n", len(ids))
	return 0
}

func cmdImport(args []string, out io.Writer, errOut io.Writer) int {
	c := newContext("import")
	tarPath := c.fs.String("tar", "", "input TAR path")
	if err := c.fs.Parse(args); err != nil {
		return 2
	}
	if *tarPath == "" {
		fmt.Fprintln(errOut, "missing --tar")
		return 2
	}

	cfg, closeFn, ok := c.open(errOut)
	if !ok {
		return 1
	}
	defer closeFn()

	f, err := os.Open(*tarPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer f.Close()

	if err := bundle.Import(f, cfg.Store); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, "imported")
	return 0
}
