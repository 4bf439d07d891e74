package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tradingplatform/internal/accounts"
	"tradingplatform/internal/matching"
)

// REPL is the interactive command loop. It reads lines from in and writes
// prompts/results to out, prompting for each command's fields one at a
// time.
type REPL struct {
	client *Client
	in     *bufio.Scanner
	out    io.Writer

	// sessionTxLog accumulates every Tx this session has observed via
	// deposit/withdraw/send responses. There is no server-side txlog
	// endpoint, so "txlog" prints this local view instead; order
	// settlements are not included.
	sessionTxLog []accounts.Tx
}

// NewREPL returns a REPL reading from in and writing to out.
func NewREPL(client *Client, in io.Reader, out io.Writer) *REPL {
	return &REPL{client: client, in: bufio.NewScanner(in), out: out}
}

// Run executes the command loop until "quit" or EOF.
func (r *REPL) Run() {
	for {
		fmt.Fprintln(r.out, "Choose operation [deposit, withdraw, send, order, orderbook, txlog, print, quit], confirm with return:")
		command, ok := r.readLine()
		if !ok {
			return
		}

		switch strings.ToLower(command) {
		case "deposit":
			r.doDeposit()
		case "withdraw":
			r.doWithdraw()
		case "send":
			r.doSend()
		case "order":
			r.doOrder()
		case "orderbook":
			r.doOrderbook()
		case "txlog":
			r.doTxLog()
		case "print":
			r.doPrint()
		case "quit":
			fmt.Fprintln(r.out, "Quitting...")
			return
		default:
			fmt.Fprintf(r.out, "Invalid option: %q\n", command)
		}
	}
}

func (r *REPL) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *REPL) prompt(label string) (string, bool) {
	fmt.Fprintln(r.out, label)
	return r.readLine()
}

func (r *REPL) promptAmount(label string) (uint64, bool) {
	raw, ok := r.prompt(label)
	if !ok {
		return 0, false
	}
	amount, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "Not a number: %q\n", raw)
		return 0, false
	}
	return amount, true
}

func (r *REPL) doDeposit() {
	signer, ok := r.prompt("Account:")
	if !ok {
		return
	}
	amount, ok := r.promptAmount("Amount:")
	if !ok {
		return
	}
	tx, err := r.client.Deposit(signer, amount)
	if err != nil {
		fmt.Fprintf(r.out, "Error occurred: %v\n", err)
		return
	}
	r.sessionTxLog = append(r.sessionTxLog, tx)
	fmt.Fprintf(r.out, "%+v\n", tx)
}

func (r *REPL) doWithdraw() {
	signer, ok := r.prompt("Account:")
	if !ok {
		return
	}
	amount, ok := r.promptAmount("Amount:")
	if !ok {
		return
	}
	tx, err := r.client.Withdraw(signer, amount)
	if err != nil {
		fmt.Fprintf(r.out, "Error occurred: %v\n", err)
		return
	}
	r.sessionTxLog = append(r.sessionTxLog, tx)
	fmt.Fprintf(r.out, "%+v\n", tx)
}

func (r *REPL) doSend() {
	sender, ok := r.prompt("Sender Account:")
	if !ok {
		return
	}
	recipient, ok := r.prompt("Recipient Account:")
	if !ok {
		return
	}
	amount, ok := r.promptAmount("Amount:")
	if !ok {
		return
	}
	txes, err := r.client.Send(sender, recipient, amount)
	if err != nil {
		fmt.Fprintf(r.out, "Error occurred: %v\n", err)
		return
	}
	r.sessionTxLog = append(r.sessionTxLog, txes[0], txes[1])
	fmt.Fprintf(r.out, "%+v\n", txes)
}

func (r *REPL) doOrder() {
	signer, ok := r.prompt("Account:")
	if !ok {
		return
	}
	sideRaw, ok := r.prompt("Buy or Sell?:")
	if !ok {
		return
	}
	var side matching.Side
	switch strings.ToLower(sideRaw) {
	case "buy":
		side = matching.Buy
	case "sell":
		side = matching.Sell
	default:
		fmt.Fprintln(r.out, "Invalid order side")
		return
	}
	amount, ok := r.promptAmount("Amount:")
	if !ok {
		return
	}
	price, ok := r.promptAmount("Price:")
	if !ok {
		return
	}

	receipt, err := r.client.Order(matching.Order{Price: price, Amount: amount, Side: side, Signer: signer})
	if err != nil {
		fmt.Fprintf(r.out, "Error occurred: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "%+v\n", receipt)
}

func (r *REPL) doOrderbook() {
	book, err := r.client.Orderbook()
	if err != nil {
		fmt.Fprintf(r.out, "Error occurred: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "%+v\n", book)
}

func (r *REPL) doTxLog() {
	fmt.Fprintf(r.out, "%+v\n", r.sessionTxLog)
}

func (r *REPL) doPrint() {
	signer, ok := r.prompt("Account:")
	if !ok {
		return
	}
	balance, err := r.client.Balance(signer)
	if err != nil {
		fmt.Fprintf(r.out, "Error occurred: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "%s: %d\n", signer, balance)
}
