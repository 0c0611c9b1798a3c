package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
)

// flAddress returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *testament.Address {
	var a testament.Address
	if defaultVal != "" {
		var err error
		a, err = testament.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(addressFlag{a: &a}, name, usage)
	return &a
}

type addressFlag struct {
	a *testament.Address
}

func (f addressFlag) String() string {
	if f.a == nil || len(*f.a) == 0 {
		return ""
	}
	return f.a.String()
}

func (f addressFlag) Set(raw string) error {
	a, err := testament.ParseAddress(raw)
	if err != nil {
		return err
	}
	*f.a = a
	return nil
}

// flAddresses returns a list of addresses built from all occurrences of
// the flag. A single occurrence can hold many comma separated addresses.
func flAddresses(fl *flag.FlagSet, name, usage string) *[]testament.Address {
	var list []testament.Address
	fl.Var(addressesFlag{list: &list}, name, usage)
	return &list
}

type addressesFlag struct {
	list *[]testament.Address
}

func (f addressesFlag) String() string {
	if f.list == nil {
		return ""
	}
	chunks := make([]string, len(*f.list))
	for i, a := range *f.list {
		chunks[i] = a.String()
	}
	return strings.Join(chunks, ",")
}

func (f addressesFlag) Set(raw string) error {
	for _, chunk := range strings.Split(raw, ",") {
		a, err := testament.ParseAddress(strings.TrimSpace(chunk))
		if err != nil {
			return err
		}
		*f.list = append(*f.list, a)
	}
	return nil
}

// flCoin returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized to required type, process is
// terminated.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

// flCoins collects all occurrences of a coin flag. Use normalizedCoins to
// build a valid coin set from the result.
func flCoins(fl *flag.FlagSet, name, usage string) *coinsFlag {
	var c coinsFlag
	fl.Var(&c, name, usage)
	return &c
}

type coinsFlag []coin.Coin

func (c coinsFlag) String() string {
	chunks := make([]string, len(c))
	for i, v := range c {
		chunks[i] = v.String()
	}
	return strings.Join(chunks, ",")
}

func (c *coinsFlag) Set(raw string) error {
	v, err := coin.ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = append(*c, v)
	return nil
}

// Coins returns the normalized set of all collected values. Coins of the
// same ticker are summed.
func (c coinsFlag) Coins() (coin.Coins, error) {
	if len(c) == 0 {
		return nil, nil
	}
	return coin.CombineCoins(c...)
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized to required type, process is
// terminated.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var b []byte
	if defaultVal != "" {
		var err error
		b, err = hex.DecodeString(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(flagbyte{b: &b}, name, usage)
	return &b
}

type flagbyte struct {
	b *[]byte
}

func (f flagbyte) String() string {
	if f.b == nil {
		return ""
	}
	return hex.EncodeToString(*f.b)
}

func (f flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*f.b = val
	return nil
}
