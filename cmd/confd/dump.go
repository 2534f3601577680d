package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// runDump implements the "confd dump" debug subcommand: it speaks the same
// HTTP/1.0 GET a normal client would, against a running controller, and
// re-renders the resulting tree in the requested format. It exists for
// operators inspecting a live tree from a shell without reaching for curl
// and a separate YAML/TOML converter (§1: a debug-oriented surface, not
// part of the wire protocol itself).
func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	address := fs.String("address", "127.0.0.1:8443", "controller address")
	path := fs.String("path", "/", "configuration path to fetch")
	format := fs.String("format", "json", "output format: json, yaml, or toml")
	fs.Parse(args)

	body, err := fetch(*address, *path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "confd dump:", err)
		os.Exit(1)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Fprintln(os.Stderr, "confd dump: decoding response:", err)
		os.Exit(1)
	}

	if err := render(os.Stdout, *format, v); err != nil {
		fmt.Fprintln(os.Stderr, "confd dump:", err)
		os.Exit(1)
	}
}

// fetch performs a bare HTTP/1.0 GET against address for path and returns
// the response body.
func fetch(address, path string) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", address, 5*time.Second)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))

	req := fmt.Sprintf("GET %s HTTP/1.0\r\n\r\n", path)
	if _, err := conn.Write([]byte(req)); err != nil {
		return nil, err
	}

	r := bufio.NewReader(conn)

	// Skip the status line and headers up to the blank line.
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil && err != io.EOF {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\r\n"), nil
}

// render writes v to w in the given format.
func render(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "toml":
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
