package app

import (
	"encoding/json"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cosign"
	"github.com/iov-one/treasury/x/member"
	xtreasury "github.com/iov-one/treasury/x/treasury"
	"github.com/iov-one/treasury/x/utils"
	"github.com/iov-one/treasury/x/vault"
)

// Stack holds all treasury extensions wired together.
type Stack struct {
	Members *member.Registry
	Vault   *vault.Controller
	Cosign  *cosign.Controller

	Handler     treasury.Handler
	Initializer treasury.Initializer
	Queries     *QueryRouter
}

// NewStack builds the default treasury handler. Committed events are
// published to the sink, which can be nil. Additional decorators are run
// right after the logging one.
func NewStack(sink treasury.EventSink, decorators ...treasury.Decorator) *Stack {
	s := &Stack{
		Members: member.NewRegistry(),
		Vault:   vault.NewController(),
	}
	s.Cosign = cosign.NewController(s.Members)

	r := NewRouter()
	d := xtreasury.NewDispatcher(s.Cosign.Policy(), s.Members, vault.NewAccount(s.Vault))
	xtreasury.RegisterRoutes(r, s.Cosign, d)

	s.Handler = ChainDecorators(
		utils.NewLogging(),
	).Chain(decorators...).Chain(
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver().WithSink(sink),
		member.NewAuthenticator(s.Members),
	).WithHandler(r)

	// Members must exist before the threshold is validated.
	s.Initializer = treasury.ChainInitializers(
		&member.Initializer{Registry: s.Members},
		&cosign.Initializer{Registry: s.Members},
		&vault.Initializer{Controller: s.Vault},
	)

	s.Queries = NewQueryRouter()
	s.Queries.Register("/members", QueryHandlerFunc(s.queryMembers))
	s.Queries.Register("/operations", QueryHandlerFunc(s.queryOperations))
	s.Queries.Register("/config/cosign", QueryHandlerFunc(queryCosignConfig))
	s.Queries.Register("/wallets", QueryHandlerFunc(s.queryWallet))
	s.Queries.Register("/badge", QueryHandlerFunc(s.queryBadge))
	return s
}

func jsonModel(key []byte, v interface{}) (treasury.Model, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return treasury.Model{}, errors.Wrap(errors.ErrModel, err.Error())
	}
	return treasury.Pair(key, raw), nil
}

func (s *Stack) queryMembers(db treasury.ReadOnlyKVStore, key []byte) ([]treasury.Model, error) {
	if len(key) != 0 {
		m, err := s.Members.Get(db, key)
		if err != nil {
			return nil, err
		}
		model, err := jsonModel(key, m)
		return []treasury.Model{model}, err
	}
	var res []treasury.Model
	err := s.Members.Each(db, func(id []byte, m *member.Member) error {
		model, err := jsonModel(id, m)
		res = append(res, model)
		return err
	})
	return res, err
}

func (s *Stack) queryOperations(db treasury.ReadOnlyKVStore, key []byte) ([]treasury.Model, error) {
	var res []treasury.Model
	err := s.Cosign.Ledger().Each(db, func(rec *cosign.OperationRecord) error {
		opKey := rec.Operation.Key()
		if len(key) != 0 && string(opKey) != string(key) {
			return nil
		}
		model, err := jsonModel(opKey, rec)
		res = append(res, model)
		return err
	})
	return res, err
}

func queryCosignConfig(db treasury.ReadOnlyKVStore, _ []byte) ([]treasury.Model, error) {
	conf, err := cosign.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	model, err := jsonModel([]byte("cosign"), conf)
	return []treasury.Model{model}, err
}

func (s *Stack) queryWallet(db treasury.ReadOnlyKVStore, key []byte) ([]treasury.Model, error) {
	addr := treasury.Address(key)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	coins, err := s.Vault.Balance(db, addr)
	if err != nil {
		return nil, err
	}
	model, err := jsonModel(key, coins)
	return []treasury.Model{model}, err
}

func (s *Stack) queryBadge(db treasury.ReadOnlyKVStore, _ []byte) ([]treasury.Model, error) {
	holder, err := s.Vault.BadgeHolder(db)
	if err != nil {
		return nil, err
	}
	model, err := jsonModel([]byte("badge"), holder)
	return []treasury.Model{model}, err
}
