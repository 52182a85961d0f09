package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/member"
)

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a transaction from the input and sign it as the given member. The
signed transaction is written to the output.

Unless provided, the member sequence and the chain ID are read from the
local database.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKey(),
			"Path to the private key file that transaction should be signed with. You can use TREASURY_PRIV_KEY environment variable to set it.")
		homeFl   = fl.String("home", defaultHome(), "Treasury home directory.")
		memberFl = fl.Int64("member", 0, "ID of the member badge used to sign.")
		seqFl    = fl.Int64("seq", -1, "Member sequence. Negative value means the current sequence is used.")
		chainFl  = fl.String("chain", "", "Chain ID. By default the chain ID of the local database is used.")
	)
	fl.Parse(args)

	if *memberFl <= 0 {
		return fmt.Errorf("member ID must be greater than zero")
	}
	badge := orm.EncodeSequence(*memberFl)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	tx, err := readTx(input)
	if err != nil {
		return err
	}

	chainID, seq := *chainFl, *seqFl
	if chainID == "" || seq < 0 {
		n, err := openNode(*homeFl, nil)
		if err != nil {
			return err
		}
		defer n.Close()

		if chainID == "" {
			if chainID = n.app.ChainID(); chainID == "" {
				return fmt.Errorf("chain not initialized, run init first")
			}
		}
		if seq < 0 {
			m, err := n.stack.Members.Get(n.db, badge)
			if err != nil {
				return fmt.Errorf("cannot load member %d: %s", *memberFl, err)
			}
			seq = m.Sequence
		}
	}

	cred, err := member.Sign(key, tx, chainID, badge, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Credential = cred
	return writeJSON(output, tx)
}
