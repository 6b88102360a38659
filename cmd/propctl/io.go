package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/graphprops/value"
)

// readInput parses JSON from the file named by args[0], or from the
// command's input when there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (value.Value, error) {
	if len(args) == 0 || args[0] == "-" {
		return readJSON(cmd.InOrStdin(), "stdin")
	}
	return readFile(args[0])
}

// readFile parses a JSON file. An empty path yields Undefined.
func readFile(path string) (value.Value, error) {
	if path == "" {
		return value.Undefined(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return value.Undefined(), fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readJSON(f, path)
}

func readJSON(r io.Reader, name string) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Undefined(), fmt.Errorf("failed to read %s: %w", name, err)
	}
	v, err := value.ParseJSON(data)
	if err != nil {
		return value.Undefined(), fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return v, nil
}

func (a *app) write(cmd *cobra.Command, v value.Value) error {
	data, err := value.Marshal(v)
	if err != nil {
		return err
	}
	if a.pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
