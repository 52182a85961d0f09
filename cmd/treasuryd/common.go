package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/treasury/app"
)

// readTx reads a single JSON encoded transaction.
func readTx(input io.Reader) (*app.Tx, error) {
	raw, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("cannot read input: %s", err)
	}
	var tx app.Tx
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("cannot decode transaction: %s", err)
	}
	return &tx, nil
}

// writeJSON writes the value as a single line of JSON.
func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot encode: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}

// deliver submits the transaction to the application and returns its
// result. A failed transaction is reported as an error.
func deliver(a *app.Application, tx *app.Tx) (app.Result, error) {
	raw, err := app.EncodeTx(tx)
	if err != nil {
		return app.Result{}, fmt.Errorf("cannot encode transaction: %s", err)
	}
	res := a.DeliverTx(raw)
	if !res.IsOK() {
		return res, fmt.Errorf("transaction failed with code %d: %s", res.Code, res.Log)
	}
	return res, nil
}
