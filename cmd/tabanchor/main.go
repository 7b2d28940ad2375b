package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/provenlab/tabanchor/anchor"
	"github.com/provenlab/tabanchor/dataset"
	"github.com/provenlab/tabanchor/fingerprint"
	"github.com/provenlab/tabanchor/keystore"
	"github.com/provenlab/tabanchor/ledger/registry"

	_ "github.com/provenlab/tabanchor/ledger/ethledger"
	_ "github.com/provenlab/tabanchor/ledger/grpcledger"
	_ "github.com/provenlab/tabanchor/ledger/memledger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "fingerprint":
		return cmdFingerprint(args[1:], out, errOut)
	case "canon":
		return cmdCanon(args[1:], out, errOut)
	case "anchor":
		return cmdAnchor(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "tamper-demo":
		return cmdTamperDemo(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "tabanchor: anchor dataset fingerprints on a ledger and verify them")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tabanchor fingerprint <file.csv>")
	fmt.Fprintln(w, "  tabanchor canon <file.csv>")
	fmt.Fprintln(w, "  tabanchor anchor --name <dataset> [--backend <b>] [--timeout <d>] <file.csv>")
	fmt.Fprintln(w, "  tabanchor verify --name <dataset> [--backend <b>] [--timeout <d>] <file.csv>")
	fmt.Fprintln(w, "  tabanchor tamper-demo --name <dataset> [--backend <b>] [--timeout <d>] <file.csv>")
	fmt.Fprintln(w, "  tabanchor key init --name <name> [--force]")
	fmt.Fprintln(w, "  tabanchor key import --name <name> --key-hex <hex> [--force]")
	fmt.Fprintln(w, "  tabanchor key address --name <name>")
	fmt.Fprintln(w, "  tabanchor key list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - input is delimited text with a header row; cells parse as number, string, or null (empty)")
	fmt.Fprintln(w, "  - the eth backend reads RPC_URL, PRIVATE_KEY, WALLET_ADDRESS, CONTRACT_ADDRESS from the environment")
	fmt.Fprintln(w, "  - anchored writes wait for on-chain confirmation; size --timeout for mining latency")
	fmt.Fprintln(w, "  - keys live under ~/.tabanchor/keys/<name>.key (0600 files)")
}

func loadDataset(path string, errOut io.Writer) (*dataset.Dataset, bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, false
	}
	defer f.Close()
	ds, err := dataset.ParseCSV(f)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, false
	}
	return ds, true
}

func cmdFingerprint(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	fs.SetOutput(errOut)
	showCID := fs.Bool("cid", false, "Also print the CIDv1 of the canonical bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: tabanchor fingerprint [--cid] <file.csv>")
		return 2
	}
	ds, ok := loadDataset(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	canon, err := dataset.Canonicalize(ds)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, fingerprint.Sum(canon))
	if *showCID {
		fmt.Fprintln(out, fingerprint.CIDv1RawSHA256(canon))
	}
	return 0
}

func cmdCanon(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("canon", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: tabanchor canon <file.csv>")
		return 2
	}
	ds, ok := loadDataset(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	canon, err := dataset.Canonicalize(ds)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = out.Write(canon)
	return 0
}

// withService parses the shared ledger flags, opens the selected backend, and
// hands an anchor.Service plus a deadline-bounded context to fn.
func withService(cmd string, args []string, errOut io.Writer, fn func(ctx context.Context, svc *anchor.Service, name, file string) int) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "Dataset name on the ledger")
	backend := fs.String("backend", "eth", "Ledger backend name")
	timeout := fs.Duration("timeout", 2*time.Minute, "Overall operation deadline")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")
	registry.RegisterFlags(fs, registry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *listBackends {
		for _, b := range registry.List(registry.UsageCLI) {
			if b.Description == "" {
				fmt.Fprintf(errOut, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(errOut, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}
	if *name == "" {
		fmt.Fprintf(errOut, "usage: tabanchor %s --name <dataset> [--backend <b>] <file.csv>\n", cmd)
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: tabanchor %s --name <dataset> [--backend <b>] <file.csv>\n", cmd)
		return 2
	}

	kv, closeFn, err := registry.Open(*backend, registry.UsageCLI)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	return fn(ctx, anchor.NewService(kv), *name, fs.Arg(0))
}

func cmdAnchor(args []string, out io.Writer, errOut io.Writer) int {
	return withService("anchor", args, errOut, func(ctx context.Context, svc *anchor.Service, name, file string) int {
		ds, ok := loadDataset(file, errOut)
		if !ok {
			return 1
		}
		rcpt, digest, err := svc.Anchor(ctx, name, ds)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintf(out, "anchored %s\n", name)
		fmt.Fprintf(out, "fingerprint: %s\n", digest)
		fmt.Fprintf(out, "tx: %s (block %d, gas %d)\n", rcpt.TxHash, rcpt.BlockNumber, rcpt.GasUsed)
		return 0
	})
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	return withService("verify", args, errOut, func(ctx context.Context, svc *anchor.Service, name, file string) int {
		ds, ok := loadDataset(file, errOut)
		if !ok {
			return 1
		}
		v, err := svc.Verify(ctx, name, ds)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		if v.Match {
			fmt.Fprintf(out, "verified: %s matches on-chain fingerprint %s\n", name, v.OnChain)
			return 0
		}
		fmt.Fprintf(out, "MISMATCH: local %s\n", v.Local)
		if v.OnChain == "" {
			fmt.Fprintf(out, "no fingerprint anchored under %q\n", name)
		} else {
			fmt.Fprintf(out, "on-chain fingerprint: %s\n", v.OnChain)
		}
		return 1
	})
}

func cmdTamperDemo(args []string, out io.Writer, errOut io.Writer) int {
	return withService("tamper-demo", args, errOut, func(ctx context.Context, svc *anchor.Service, name, file string) int {
		ds, ok := loadDataset(file, errOut)
		if !ok {
			return 1
		}
		res, err := svc.TamperCheck(ctx, name, ds)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		if !res.Mutated {
			fmt.Fprintln(out, "no numeric cell to mutate; verified unmodified dataset")
		}
		fmt.Fprintf(out, "tampered fingerprint: %s\n", res.TamperedDigest)
		if res.Verification.Match {
			fmt.Fprintln(out, "UNEXPECTED: tampered dataset still verifies")
			return 1
		}
		fmt.Fprintf(out, "tampered dataset failed verification (on-chain %s)\n", res.Verification.OnChain)
		return 0
	})
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: tabanchor key <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: init, import, address, list")
		return 2
	}
	sub, rest := args[0], args[1:]

	fs := flag.NewFlagSet("key "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "Key name")
	keyHex := fs.String("key-hex", "", "Hex-encoded secp256k1 private key (for import)")
	dir := fs.String("dir", "", "Key directory (default ~/.tabanchor/keys)")
	force := fs.Bool("force", false, "Overwrite an existing key")
	if err := fs.Parse(rest); err != nil {
		return 2
	}

	store, err := keystore.Open(*dir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	switch sub {
	case "init":
		if *name == "" {
			fmt.Fprintln(errOut, "usage: tabanchor key init --name <name> [--force]")
			return 2
		}
		if err := store.Init(*name, *force); err != nil {
			if errors.Is(err, keystore.ErrKeyExists) {
				fmt.Fprintf(errOut, "key %q already exists (use --force to overwrite)\n", *name)
				return 1
			}
			fmt.Fprintln(errOut, err)
			return 1
		}
		addr, err := store.Address(*name)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintf(out, "created key %q with address %s\n", *name, addr)
		return 0
	case "import":
		if *name == "" || *keyHex == "" {
			fmt.Fprintln(errOut, "usage: tabanchor key import --name <name> --key-hex <hex> [--force]")
			return 2
		}
		if err := store.ImportHex(*name, *keyHex, *force); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintf(out, "imported key %q\n", *name)
		return 0
	case "address":
		if *name == "" {
			fmt.Fprintln(errOut, "usage: tabanchor key address --name <name>")
			return 2
		}
		addr, err := store.Address(*name)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintln(out, addr)
		return 0
	case "list":
		names, err := store.List()
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", sub)
		return 2
	}
}
