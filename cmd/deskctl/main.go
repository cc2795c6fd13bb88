// Command deskctl opens desk forms served by a running API and triggers
// their buttons from the terminal.
//
//	deskctl [--server URL] [--user ID] view loan-disbursement LD-0001
//	deskctl [--server URL] --user ID action loan-disbursement LD-0001 "Create Repayment Entry"
//
// Flags may also come from DESKCTL_SERVER, DESKCTL_USER and DESKCTL_TIMEOUT.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lending-desk/internal/adapter/rpc"
	"lending-desk/internal/desk"
	"lending-desk/internal/desk/loandisbursement"
	"lending-desk/internal/domain/document"
	"lending-desk/internal/usecase/deskview"
)

var (
	errUsage       = errors.New("usage: deskctl [flags] view <doctype> <name> | action <doctype> <name> <label>")
	errMissingUser = errors.New("action needs --user or DESKCTL_USER")
)

func main() {
	log.SetFlags(0)
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

// run writes results to out and desk notices to errOut.
func run(ctx context.Context, argv []string, out, errOut io.Writer) error {
	fs := pflag.NewFlagSet("deskctl", pflag.ContinueOnError)
	fs.String("server", "http://localhost:8080", "API base URL")
	fs.String("user", "", "user id sent as Ax-User-Id (required for action)")
	fs.Duration("timeout", 10*time.Second, "per-request timeout")
	if err := fs.Parse(argv); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("DESKCTL")
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	args := fs.Args()
	if len(args) < 3 {
		return errUsage
	}
	cmd, doctype, name := args[0], document.FromSlug(args[1]), args[2]
	if cmd == "action" && v.GetString("user") == "" {
		return errMissingUser
	}

	client := rpc.NewClient(v.GetString("server"), v.GetString("user"))
	client.HTTP.Timeout = v.GetDuration("timeout")

	reg := desk.NewRegistry()
	if err := loandisbursement.Register(reg); err != nil {
		return err
	}
	views := deskview.NewService(reg, map[string]deskview.Source{
		doctype: rpc.Source{Client: client, Doctype: doctype},
	})

	hist, msgs := &desk.History{}, &desk.Messages{}
	sess := desk.NewSession(client, hist, msgs)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch cmd {
	case "view":
		view, err := views.View(ctx, sess, doctype, name)
		if err != nil {
			return err
		}
		return enc.Encode(view)
	case "action":
		if len(args) != 4 {
			return errUsage
		}
		err := views.RunAction(ctx, sess, doctype, name, args[3])
		for _, m := range msgs.All() {
			fmt.Fprintln(errOut, m)
		}
		if err != nil {
			return err
		}
		if r, ok := hist.Current(); ok {
			return enc.Encode(r)
		}
		return nil
	}
	return errUsage
}
