// Command hashkey prints an argon2id hash suitable for API_KEY_HASH.
//
// With no arguments it generates a fresh key. Pass -key to hash an existing one,
// or -stdin to read it from standard input.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/auth"
)

type output struct {
	Key  string `json:"key,omitempty"`
	Hash string `json:"hash"`
}

func main() {
	var (
		key       = flag.String("key", "", "API key to hash; generated when empty")
		fromStdin = flag.Bool("stdin", false, "Read the key from standard input")
		format    = flag.String("format", "env", "Output format: env or json")
	)
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *key, *fromStdin, *format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(stdin io.Reader, stdout io.Writer, key string, fromStdin bool, format string) error {
	if format != "env" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	generated := false
	switch {
	case fromStdin:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read key: %w", err)
		}
		key = strings.TrimSpace(line)
		if key == "" {
			return fmt.Errorf("empty key on stdin")
		}
	case key == "":
		var err error
		key, err = auth.GenerateKey()
		if err != nil {
			return err
		}
		generated = true
	}

	hash, err := auth.HashKey(key, auth.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash key: %w", err)
	}

	out := output{Hash: hash}
	if generated {
		out.Key = key
	}

	if format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if generated {
		fmt.Fprintf(stdout, "API key (store it now, it is not shown again): %s\n", out.Key)
	}
	fmt.Fprintf(stdout, "API_KEY_HASH='%s'\n", out.Hash)
	return nil
}
