// retort converts answer documents between wire formats.
//
// Without --catalog the input is a single result document that carries its
// own answer type. With --catalog the input is a keyed document whose
// fields are described by the catalog file.
//
//	retort convert --from json --to msgpack --in result.json --out result.msgpack
//	retort convert --from yaml --to json --catalog fields.yaml < answers.yaml
//	retort fingerprint --from json --in result.json
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/zoobzio/retort"
	"github.com/zoobzio/retort/bson"
	"github.com/zoobzio/retort/cbor"
	"github.com/zoobzio/retort/json"
	"github.com/zoobzio/retort/msgpack"
	"github.com/zoobzio/retort/wire"
	"github.com/zoobzio/retort/yaml"
)

var codecs = map[string]func() retort.Codec{
	"json":    json.New,
	"jsonc":   json.NewLenient,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
	"cbor":    cbor.New,
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "convert":
		return runConvert(args[1:], stdin, stdout)
	case "fingerprint":
		return runFingerprint(args[1:], stdin, stdout)
	case "help", "-h", "--help":
		printUsage()
		return nil
	}
	printUsage()
	return fmt.Errorf("unknown command %q", args[0])
}

// options are the flags shared by every command.
type options struct {
	from    string
	catalog string
	in      string
	verbose bool
}

func (o *options) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.from, "from", "json", "input format ("+formatNames()+")")
	flagSet.StringVar(&o.catalog, "catalog", "", "catalog file (.yaml, .yml, .json, .jsonc) describing document fields")
	flagSet.StringVar(&o.in, "in", "", "input file (default: stdin)")
	flagSet.BoolVarP(&o.verbose, "verbose", "v", false, "log progress to stderr")
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runConvert(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	var to, out string

	flagSet := pflag.NewFlagSet("retort convert", pflag.ContinueOnError)
	opts.addFlags(flagSet)
	flagSet.StringVar(&to, "to", "json", "output format ("+formatNames()+")")
	flagSet.StringVar(&out, "out", "", "output file (default: stdout)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	logger := opts.logger()

	dst, err := codecFor(to)
	if err != nil {
		return err
	}
	node, err := readDocument(&opts, stdin, logger)
	if err != nil {
		return err
	}

	data, err := dst.Marshal(node)
	if err != nil {
		return err
	}
	logger.Debug("encoded document", "format", to, "size", len(data))

	if out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func runFingerprint(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("retort fingerprint", pflag.ContinueOnError)
	opts.addFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	logger := opts.logger()

	node, err := readDocument(&opts, stdin, logger)
	if err != nil {
		return err
	}
	sum, err := cbor.Fingerprint(node)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, sum)
	return err
}

// readDocument reads and decodes the input, then re-encodes it as a wire
// tree. Every answer passes through its descriptor, so the tree is in the
// canonical shape for its types regardless of the input format.
func readDocument(opts *options, stdin io.Reader, logger *slog.Logger) (any, error) {
	src, err := codecFor(opts.from)
	if err != nil {
		return nil, err
	}

	var data []byte
	if opts.in == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(opts.in)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("read input", "format", opts.from, "size", len(data))

	node, err := src.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	sink := wire.NewSink()
	if opts.catalog == "" {
		result, err := retort.DecodeResult(wire.NewSource(node))
		if err != nil {
			return nil, err
		}
		logger.Debug("decoded result", "identifier", result.Identifier, "type", result.Type.String())
		if err := result.MarshalAnswer(sink); err != nil {
			return nil, err
		}
		return sink.Node(), nil
	}

	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return nil, err
	}
	values, err := catalog.Decode(wire.NewSource(node))
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded document", "fields", len(values))
	if err := catalog.Encode(values, sink); err != nil {
		return nil, err
	}
	return sink.Node(), nil
}

func loadCatalog(path string) (retort.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return retort.Catalog{}, err
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	catalog, err := retort.LoadCatalog(data, format)
	if err != nil {
		return retort.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

func codecFor(name string) (retort.Codec, error) {
	newCodec, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, formatNames())
	}
	return newCodec(), nil
}

func formatNames() string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `retort converts answer documents between wire formats.

Usage:
  retort convert --from FORMAT --to FORMAT [--catalog FILE] [--in FILE] [--out FILE]
  retort fingerprint --from FORMAT [--catalog FILE] [--in FILE]

Formats: %s
`, formatNames())
}
