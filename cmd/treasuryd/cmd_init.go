package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/treasury/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the treasury database from a genesis file.

A default configuration file is created in the home directory unless it
already exists. The chain can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Node home directory. You can use TREASURY_HOME environment variable to set it.")
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return fmt.Errorf("cannot load genesis: %s", err)
	}

	if err := os.MkdirAll(*homeFl, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	confPath := filepath.Join(*homeFl, configFile)
	if _, err := os.Stat(confPath); os.IsNotExist(err) {
		if err := DefaultConfig().WriteTo(confPath); err != nil {
			return fmt.Errorf("cannot write configuration: %s", err)
		}
	}

	n, err := openNode(*homeFl, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.app.InitChain(gen); err != nil {
		return fmt.Errorf("cannot initialize chain: %s", err)
	}
	_, err = fmt.Fprintln(output, gen.ChainID)
	return err
}
