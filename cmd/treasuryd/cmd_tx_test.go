package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/treasurytest"
	xtreasury "github.com/iov-one/treasury/x/treasury"
)

func TestProposeBuildsMessage(t *testing.T) {
	recipient := treasurytest.NewAddress("recipient")
	cases := map[string]struct {
		args    []string
		wantErr bool
		check   func(t *testing.T, msg treasury.Msg)
	}{
		"send fungibles": {
			args: []string{"-type", "send_fungibles", "-amount", "10 IOV", "-recipient", recipient.String(), "-description", "salary"},
			check: func(t *testing.T, msg treasury.Msg) {
				m, ok := msg.(*xtreasury.SendFungiblesMsg)
				if !ok {
					t.Fatalf("unexpected message: %T", msg)
				}
				if !m.Amount.Equals(coin.NewCoin(10, 0, "IOV")) {
					t.Fatalf("unexpected amount: %v", m.Amount)
				}
				if !m.Recipient.Equals(recipient) || m.Description != "salary" {
					t.Fatalf("unexpected message: %+v", m)
				}
			},
		},
		"disable member": {
			args: []string{"-type", "disable_member", "-targets", "0000000000000002"},
			check: func(t *testing.T, msg treasury.Msg) {
				m, ok := msg.(*xtreasury.DisableMemberMsg)
				if !ok {
					t.Fatalf("unexpected message: %T", msg)
				}
				if !bytes.Equal(m.Member, treasurytest.SequenceID(2)) {
					t.Fatalf("unexpected member: %x", m.Member)
				}
			},
		},
		"disable member requires a single target": {
			args:    []string{"-type", "disable_member", "-targets", "01,02"},
			wantErr: true,
		},
		"unknown type": {
			args:    []string{"-type", "burn_everything"},
			wantErr: true,
		},
		"invalid operation": {
			args:    []string{"-type", "send_fungibles", "-recipient", recipient.String()},
			wantErr: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			err := cmdPropose(nil, &out, tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("cannot propose: %s", err)
			}
			tx, err := readTx(&out)
			if err != nil {
				t.Fatalf("cannot read transaction: %s", err)
			}
			tc.check(t, tx.Msg)
		})
	}
}

func TestWithdrawBuildsRemoveSignature(t *testing.T) {
	var out bytes.Buffer
	if err := cmdWithdraw(nil, &out, []string{"-type", "increase_min_cosigners", "-description", "more"}); err != nil {
		t.Fatalf("cannot withdraw: %s", err)
	}
	tx, err := readTx(&out)
	if err != nil {
		t.Fatalf("cannot read transaction: %s", err)
	}
	msg, ok := tx.Msg.(*xtreasury.RemoveSignatureMsg)
	if !ok {
		t.Fatalf("unexpected message: %T", tx.Msg)
	}
	if msg.Operation.Description != "more" {
		t.Fatalf("unexpected operation: %+v", msg.Operation)
	}
}

// deliverResult is the part of app.Result that can be decoded back.
type deliverResult struct {
	Code     uint32 `json:"code"`
	Executed bool   `json:"executed"`
}

func TestProposeSignSubmitQuery(t *testing.T) {
	home, err := ioutil.TempDir("", "treasuryd")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	defer os.RemoveAll(home)

	alpha, beta := treasurytest.NewKey("alpha"), treasurytest.NewKey("beta")
	alphaKey, betaKey := writeTestKey(t, home, alpha), writeTestKey(t, home, beta)
	dao := treasurytest.NewAddress("dao")
	recipient := treasurytest.NewAddress("recipient")

	genesis := map[string]interface{}{
		"chain_id": "cli-test-chain",
		"app_state": map[string]interface{}{
			"members": []interface{}{
				map[string]interface{}{"account": alpha.Address()},
				map[string]interface{}{"account": beta.Address()},
			},
			"conf": map[string]interface{}{
				"cosign": map[string]interface{}{
					"metadata":      map[string]interface{}{"schema": 1},
					"min_cosigners": 2,
				},
				"vault": map[string]interface{}{
					"metadata":     map[string]interface{}{"schema": 1},
					"account":      dao,
					"stake_ticker": "IOV",
				},
			},
			"vault": map[string]interface{}{
				"wallets": []interface{}{
					map[string]interface{}{"address": dao, "coins": []string{"100 IOV"}},
				},
			},
		},
	}
	raw, err := json.Marshal(genesis)
	if err != nil {
		t.Fatalf("cannot serialize genesis: %s", err)
	}
	genesisPath := filepath.Join(home, "genesis.json")
	if err := ioutil.WriteFile(genesisPath, raw, 0600); err != nil {
		t.Fatalf("cannot write genesis: %s", err)
	}

	var out bytes.Buffer
	if err := cmdInit(nil, &out, []string{"-home", home, "-genesis", genesisPath}); err != nil {
		t.Fatalf("cannot init: %s", err)
	}
	if got := strings.TrimSpace(out.String()); got != "cli-test-chain" {
		t.Fatalf("unexpected chain id: %q", got)
	}
	if err := cmdInit(nil, ioutil.Discard, []string{"-home", home, "-genesis", genesisPath}); err == nil {
		t.Fatal("chain must be initialized only once")
	}

	var proposal bytes.Buffer
	err = cmdPropose(nil, &proposal, []string{
		"-type", "send_fungibles",
		"-amount", "10 IOV",
		"-recipient", recipient.String(),
		"-description", "grant",
	})
	if err != nil {
		t.Fatalf("cannot propose: %s", err)
	}

	vote := func(keyPath, memberID string) deliverResult {
		t.Helper()
		var signed bytes.Buffer
		err := cmdSign(bytes.NewReader(proposal.Bytes()), &signed, []string{"-home", home, "-key", keyPath, "-member", memberID})
		if err != nil {
			t.Fatalf("cannot sign: %s", err)
		}
		var submitted bytes.Buffer
		if err := cmdSubmit(&signed, &submitted, []string{"-home", home}); err != nil {
			t.Fatalf("cannot submit: %s", err)
		}
		var res deliverResult
		if err := json.Unmarshal(submitted.Bytes(), &res); err != nil {
			t.Fatalf("cannot decode result: %s", err)
		}
		return res
	}

	if res := vote(alphaKey, "1"); res.Executed {
		t.Fatal("single vote must not execute the operation")
	}

	var ops bytes.Buffer
	if err := cmdQuery(nil, &ops, []string{"-home", home, "-path", "/operations"}); err != nil {
		t.Fatalf("cannot query operations: %s", err)
	}
	if n := strings.Count(ops.String(), "\n"); n != 1 {
		t.Fatalf("want one pending operation, got %d", n)
	}

	if res := vote(betaKey, "2"); !res.Executed {
		t.Fatal("operation must be executed once the threshold is reached")
	}

	var wallet bytes.Buffer
	if err := cmdQuery(nil, &wallet, []string{"-home", home, "-path", "/wallets", "-key", recipient.String()}); err != nil {
		t.Fatalf("cannot query wallet: %s", err)
	}
	var qr queryResult
	if err := json.Unmarshal(wallet.Bytes(), &qr); err != nil {
		t.Fatalf("cannot decode query result: %s", err)
	}
	var coins coin.Coins
	if err := json.Unmarshal(qr.Value, &coins); err != nil {
		t.Fatalf("cannot decode coins: %s", err)
	}
	if got := coins.Balance("IOV"); !got.Equals(coin.NewCoin(10, 0, "IOV")) {
		t.Fatalf("unexpected recipient balance: %v", got)
	}
}
