package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"strings"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
)

// flAddress returns an address value set by a command line argument.
func flAddress(fl *flag.FlagSet, name, usage string) *treasury.Address {
	var a treasury.Address
	fl.Var(&a, name, usage)
	return &a
}

// flCoin returns a coin value set by a command line argument in the human
// readable format, for example "1.5 IOV".
func flCoin(fl *flag.FlagSet, name, usage string) *coin.Coin {
	var c coin.Coin
	fl.Var(&c, name, usage)
	return &c
}

// flHexList returns a list of values set by a command line argument as
// comma separated hex strings.
func flHexList(fl *flag.FlagSet, name, usage string) *hexList {
	var l hexList
	fl.Var(&l, name, usage)
	return &l
}

type hexList [][]byte

func (l hexList) String() string {
	chunks := make([]string, len(l))
	for i, b := range l {
		chunks[i] = hex.EncodeToString(b)
	}
	return strings.Join(chunks, ",")
}

func (l *hexList) Set(raw string) error {
	var res [][]byte
	for _, chunk := range strings.Split(raw, ",") {
		if chunk = strings.TrimSpace(chunk); chunk == "" {
			continue
		}
		b, err := hex.DecodeString(chunk)
		if err != nil {
			return fmt.Errorf("invalid hex %q: %s", chunk, err)
		}
		res = append(res, b)
	}
	*l = res
	return nil
}
