package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
)

type queryResult struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the local treasury state. Each result is written as a separate line
of JSON.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Treasury home directory.")
		pathFl = fl.String("path", "/members", "Query path.")
		keyFl  = fl.String("key", "", "Hex encoded key. Empty key lists all entities.")
	)
	fl.Parse(args)

	key, err := hex.DecodeString(*keyFl)
	if err != nil {
		return fmt.Errorf("invalid key: %s", err)
	}

	n, err := openNode(*homeFl, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := n.app.Query(*pathFl, key)
	if err != nil {
		return fmt.Errorf("query failed, available paths are %s: %s",
			strings.Join(n.stack.Queries.Paths(), ", "), err)
	}
	for _, m := range models {
		res := queryResult{
			Key:   strings.ToUpper(hex.EncodeToString(m.Key)),
			Value: m.Value,
		}
		if err := writeJSON(output, res); err != nil {
			return err
		}
	}
	return nil
}
