package main

import (
	"fmt"
	"os"
	"path/filepath"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/store/leveldb"
)

// node is a treasury application opened on the home directory database.
type node struct {
	conf  *Config
	db    *leveldb.Store
	stack *app.Stack
	app   *app.Application
}

// openNode loads the configuration and opens the database. Committed
// events are published to the sink and the decorators are added to the
// handler stack.
func openNode(home string, sink treasury.EventSink, decorators ...treasury.Decorator) (*node, error) {
	conf, err := LoadConfig(home)
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %s", err)
	}
	logger, err := conf.Logger(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	db, err := leveldb.Open(filepath.Join(home, conf.DBDir))
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %s", err)
	}

	sinks := treasury.MultiSink{app.NewLogSink(logger)}
	if sink != nil {
		sinks = append(sinks, sink)
	}
	stack := app.NewStack(sinks, decorators...)
	a, err := app.NewApplication(db, stack.Handler, stack.Initializer, stack.Queries)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create application: %s", err)
	}
	return &node{
		conf:  conf,
		db:    db,
		stack: stack,
		app:   a.WithLogger(logger).WithDebug(conf.Debug),
	}, nil
}

func (n *node) Close() error {
	return n.db.Close()
}
