package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a signed transaction from the input and deliver it to the local
treasury. The result is written to the output.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Treasury home directory.")
	)
	fl.Parse(args)

	tx, err := readTx(input)
	if err != nil {
		return err
	}
	n, err := openNode(*homeFl, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	res, err := deliver(n.app, tx)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}
