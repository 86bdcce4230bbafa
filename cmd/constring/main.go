package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/Azure/constring/internal/logging"
	"github.com/Azure/constring/pkg/config"
	"github.com/Azure/constring/pkg/constring"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		debugLogging bool
		output       string
		keyFormat    string
		keyExpr      string
		priorityKeys string
		setPairs     string
		deleteKeys   string
		mergePatch   string
	)
	fs := flag.NewFlagSet("constring", flag.ContinueOnError)
	fs.BoolVar(&debugLogging, "debug", false, "Log tolerated syntax errors to stderr")
	fs.StringVar(&output, "output", "string", "Output format: string, json, or yaml")
	fs.StringVar(&keyFormat, "key-format", "title", "Key formatter: title, identity, upper, or lower")
	fs.StringVar(&keyExpr, "key-expr", "", "CEL expression used to format keys. Overrides -key-format")
	fs.StringVar(&priorityKeys, "priority-keys", "", "Comma-separated keys whose first occurrence wins")
	fs.StringVar(&setPairs, "set", "", "Comma-separated key=value pairs to set after parsing")
	fs.StringVar(&deleteKeys, "delete", "", "Comma-separated keys to delete after parsing")
	fs.StringVar(&mergePatch, "merge-patch", "", "JSON merge patch applied after -set and -delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	formatter, err := buildFormatter(keyFormat, keyExpr)
	if err != nil {
		return err
	}
	opts := []constring.Option{
		constring.WithKeyFormatter(formatter),
		constring.WithPriorityKeys(config.ParseList(priorityKeys)...),
	}

	logger, err := logging.NewZapLogger(debugLogging)
	if err != nil {
		return err
	}
	opts = append(opts, constring.WithLogger(logger.WithName("constring")))

	text, err := readInput(fs.Args(), stdin)
	if err != nil {
		return err
	}
	cs := constring.Parse(text, opts...)

	for _, pair := range config.ParseKeyValuePairs(setPairs) {
		cs.Set(pair.Key, pair.Value)
	}
	for _, key := range config.ParseList(deleteKeys) {
		cs.Delete(key)
	}
	if mergePatch != "" {
		if err := cs.ApplyMergePatch([]byte(mergePatch)); err != nil {
			return fmt.Errorf("applying merge patch: %w", err)
		}
	}

	return write(stdout, cs, output)
}

func buildFormatter(name, expr string) (constring.KeyFormatter, error) {
	if expr != "" {
		fn, err := constring.CELFormatter(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid key expression: %w", err)
		}
		return fn, nil
	}
	switch name {
	case "title":
		return constring.TitleCase, nil
	case "identity":
		return constring.Identity, nil
	case "upper":
		return constring.UpperCase, nil
	case "lower":
		return constring.LowerCase, nil
	default:
		return nil, fmt.Errorf("unknown key format %q", name)
	}
}

func readInput(args []string, stdin io.Reader) (string, error) {
	switch len(args) {
	case 0:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	case 1:
		return args[0], nil
	default:
		return "", errors.New("expected at most one connection string argument")
	}
}

func write(w io.Writer, cs *constring.ConnectionString, output string) error {
	switch output {
	case "string":
		_, err := fmt.Fprintln(w, cs.String())
		return err
	case "json":
		return json.NewEncoder(w).Encode(cs)
	case "yaml":
		data, err := yaml.Marshal(cs)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
