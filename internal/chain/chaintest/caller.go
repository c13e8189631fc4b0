// Package chaintest provides an in-memory chain.Caller for tests.
package chaintest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Handler answers one contract method. args are the decoded call inputs.
type Handler func(args []interface{}) ([]interface{}, error)

// Call is a recorded eth_call.
type Call struct {
	To     common.Address
	Method string
	Args   []interface{}
	Block  *big.Int
}

type route struct {
	parsed  abi.ABI
	method  abi.Method
	handler Handler
}

// Caller dispatches eth_call requests to handlers registered per address and method.
type Caller struct {
	mu     sync.Mutex
	routes map[common.Address]map[string]route
	calls  []Call
}

func NewCaller() *Caller {
	return &Caller{routes: make(map[common.Address]map[string]route)}
}

// Handle registers handler for method of the contract at address described by parsed.
func (c *Caller) Handle(address common.Address, parsed abi.ABI, method string, handler Handler) {
	m, ok := parsed.Methods[method]
	if !ok {
		panic(fmt.Sprintf("chaintest: method %s not in abi", method))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.routes[address] == nil {
		c.routes[address] = make(map[string]route)
	}
	c.routes[address][string(m.ID)] = route{parsed: parsed, method: m, handler: handler}
}

// Returns registers a handler that always answers with values.
func (c *Caller) Returns(address common.Address, parsed abi.ABI, method string, values ...interface{}) {
	c.Handle(address, parsed, method, func([]interface{}) ([]interface{}, error) {
		return values, nil
	})
}

// CallContract implements chain.Caller.
func (c *Caller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, fmt.Errorf("chaintest: malformed call")
	}

	c.mu.Lock()
	r, ok := c.routes[*msg.To][string(msg.Data[:4])]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("chaintest: no handler for %s selector %x", msg.To.Hex(), msg.Data[:4])
	}

	args, err := r.method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, fmt.Errorf("chaintest: unpack %s inputs: %w", r.method.Name, err)
	}

	c.mu.Lock()
	c.calls = append(c.calls, Call{To: *msg.To, Method: r.method.Name, Args: args, Block: blockNumber})
	c.mu.Unlock()

	out, err := r.handler(args)
	if err != nil {
		return nil, err
	}
	return r.method.Outputs.Pack(out...)
}

// Calls returns the recorded calls in order.
func (c *Caller) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Methods returns the method names of the recorded calls in order.
func (c *Caller) Methods() []string {
	calls := c.Calls()
	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call.Method)
	}
	return names
}
