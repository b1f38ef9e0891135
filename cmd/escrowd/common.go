package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/app"
	escrowd "github.com/domainlend/loom/cmd/escrowd/app"
	"github.com/domainlend/loom/crypto"
	"github.com/domainlend/loom/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/ed25519"
)

// node is the application opened over the configured database.
type node struct {
	app    *app.BaseApp
	conf   *Config
	closer io.Closer
}

// openNode opens the application database. Close must be called to
// release it.
func openNode(conf *Config) (*node, error) {
	logger, closer, err := NewLogger(conf)
	if err != nil {
		return nil, err
	}
	kv, err := escrowd.CommitKVStore(conf.DBDir)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("cannot open database: %s", err)
	}
	a, err := escrowd.Application("escrowd", escrowd.Stack(prometheus.NewRegistry()), kv, conf.Debug)
	if err != nil {
		kv.Close()
		closer.Close()
		return nil, fmt.Errorf("cannot create application: %s", err)
	}
	a.WithLogger(logger)

	if conf.ChainID != "" && a.GetChainID() != "" && conf.ChainID != a.GetChainID() {
		a.Close()
		closer.Close()
		return nil, fmt.Errorf("database chain id %q does not match configured %q", a.GetChainID(), conf.ChainID)
	}
	return &node{app: a, conf: conf, closer: closer}, nil
}

func (n *node) Close() error {
	err := n.app.Close()
	n.closer.Close()
	return err
}

// deliver signs the message with given key, delivers it and commits the
// result.
func (n *node) deliver(key *crypto.PrivateKey, msg loom.Msg) (*app.TxResult, error) {
	chainID := n.app.GetChainID()
	if chainID == "" {
		return nil, fmt.Errorf("application is not initialized, run the init command first")
	}

	var tx escrowd.Tx
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	seq, err := sigs.NextNonce(n.app.DeliverStore(), key.PublicKey().Address())
	if err != nil {
		return nil, fmt.Errorf("cannot get signer nonce: %s", err)
	}
	sig, err := sigs.SignTx(key, &tx, chainID, seq)
	if err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := tx.Marshal()
	if err != nil {
		return nil, fmt.Errorf("cannot serialize transaction: %s", err)
	}

	res := n.app.DeliverTx(raw)
	if !res.IsOK() {
		return nil, fmt.Errorf("transaction failed with code %d: %s", res.Code, res.Log)
	}
	if _, err := n.app.Commit(); err != nil {
		return nil, fmt.Errorf("cannot commit: %s", err)
	}
	return &res, nil
}

// loadKey reads a private key file created by the keygen command.
func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}
