package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	orgmodel "github.com/reoring/orgmodel"
	"github.com/reoring/orgmodel/codec"
	"github.com/reoring/orgmodel/legacy"
	"github.com/reoring/orgmodel/upgrade"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "upgrade":
		upgradeCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "schema":
		schemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "orgmodel CLI\n\nUsage:\n  orgmodel upgrade [-uuid] [-v] [-o out.json] in.(json|yaml)\n  orgmodel validate in.(json|yaml)\n  orgmodel schema [-o out.json]\n\nNotes:\n  - upgrade accepts legacy or current documents and writes the current shape.\n  - validate assembles a current document and reports every issue.")
}

func upgradeCmd(args []string) {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	var out string
	var uuids, verbose bool
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	fs.BoolVar(&uuids, "uuid", false, "allocate UUID refs for nodes without one")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := []upgrade.Option{upgrade.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))}
	if uuids {
		opts = append(opts, upgrade.WithRefs(orgmodel.UUIDRefs()))
	}
	u := upgrade.New(opts...)

	path := fs.Arg(0)
	data := readInput(path)
	var doc *orgmodel.Document
	var err error
	if isYAML(path) {
		var old *legacy.Document
		old, err = legacy.DecodeYAML(data)
		if err == nil {
			doc, err = u.Document(old)
		}
	} else {
		doc, err = u.FromJSON(data)
	}
	if err != nil {
		fatalIssues("upgrade", err)
	}
	encoded, err := codec.EncodeJSON(doc)
	if err != nil {
		fatalf("encode: %v", err)
	}
	writeOutput(out, encoded)
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)
	data := readInput(path)
	var doc *orgmodel.Document
	var err error
	if isYAML(path) {
		doc, err = codec.DecodeYAML(data)
	} else {
		doc, err = codec.DecodeJSON(data)
	}
	if err != nil {
		fatalIssues("validate", err)
	}
	n := 0
	doc.Walk(func(string, *orgmodel.Node) bool { n++; return true })
	fmt.Printf("ok: %d nodes\n", n)
}

func schemaCmd(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)
	b, err := json.MarshalIndent(orgmodel.JSONSchema(), "", "  ")
	if err != nil {
		fatalf("marshal: %v", err)
	}
	writeOutput(out, append(b, '\n'))
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func readInput(path string) []byte {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		fatalf("reading input: %v", err)
	}
	return data
}

func writeOutput(out string, data []byte) {
	if out == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

func fatalIssues(op string, err error) {
	iss, ok := orgmodel.AsIssues(err)
	if !ok {
		fatalf("%s: %v", op, err)
	}
	for _, it := range iss {
		fmt.Fprintf(os.Stderr, "%s: %s at %s: %s\n", op, it.Code, it.Path, it.Message)
	}
	os.Exit(1)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
