package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/damianoneill/ncops/netconf/client"
	"github.com/damianoneill/ncops/netconf/ops"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// errReplyErrors is reported when the device answers with rpc errors.
var errReplyErrors = errors.New("device reported errors")

type globalOptions struct {
	devicePath string
	trace      string
}

type filterOptions struct {
	subtree    string
	xpath      string
	namespaces []string
}

func (o *filterOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.subtree, "subtree", "", "Subtree filter, as xml")
	flags.StringVar(&o.xpath, "xpath", "", "XPath filter expression")
	flags.StringSliceVar(&o.namespaces, "ns", nil, "Namespace used by the xpath filter, as prefix=uri")
}

func (o *filterOptions) filter() (*ops.Filter, error) {
	switch {
	case o.subtree != "" && o.xpath != "":
		return nil, errors.New("--subtree and --xpath are mutually exclusive")
	case o.subtree != "":
		return ops.SubtreeFilter(o.subtree), nil
	case o.xpath != "":
		var nslist []ops.Namespace
		for _, ns := range o.namespaces {
			parts := strings.SplitN(ns, "=", 2)
			if len(parts) != 2 {
				return nil, errors.Errorf("invalid namespace %q, expecting prefix=uri", ns)
			}
			nslist = append(nslist, ops.Namespace{ID: parts[0], Path: parts[1]})
		}
		return ops.XPathFilter(o.xpath, nslist...), nil
	}
	return nil, nil
}

var traceHooks = map[string]*client.ClientTrace{
	"default":    client.DefaultLoggingHooks,
	"metric":     client.MetricLoggingHooks,
	"diagnostic": client.DiagnosticLoggingHooks,
}

func openSession(opts *globalOptions) (ops.OpSession, error) {
	ctx := context.Background()
	if opts.trace != "" {
		hooks, ok := traceHooks[opts.trace]
		if !ok {
			return nil, errors.Errorf("unknown trace %q", opts.trace)
		}
		ctx = client.WithClientTrace(ctx, hooks)
	}

	dev, err := loadDevice(opts.devicePath)
	if err != nil {
		return nil, err
	}
	sshcfg, err := dev.sshConfig()
	if err != nil {
		return nil, err
	}
	return ops.NewSessionWithConfig(ctx, sshcfg, dev.Target, dev.clientConfig())
}

// runOperation opens a session, issues the operation and reports its reply.
func runOperation(cmd *cobra.Command, opts *globalOptions, op func(s ops.OpSession) (*ops.GetReply, error)) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	reply, err := op(s)
	if err != nil {
		return err
	}
	return printReply(cmd, reply)
}

func printReply(cmd *cobra.Command, reply *ops.GetReply) error {
	if errs := reply.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", e.Tag, e)
		}
		return errReplyErrors
	}
	switch {
	case reply.Data() != nil:
		fmt.Fprintln(cmd.OutOrStdout(), reply.DataXML())
	case reply.OK():
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
	}
	return nil
}

func newGetCommand(g *globalOptions) *cobra.Command {
	var fo filterOptions

	cmd := &cobra.Command{
		Use:   "get [--subtree XML | --xpath EXPR]",
		Short: "Retrieve configuration and state data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.filter()
			if err != nil {
				return err
			}
			return runOperation(cmd, g, func(s ops.OpSession) (*ops.GetReply, error) {
				return s.Get(filter)
			})
		},
	}
	fo.addFlags(cmd)
	return cmd
}

func newGetConfigCommand(g *globalOptions) *cobra.Command {
	var (
		fo     filterOptions
		source string
	)

	cmd := &cobra.Command{
		Use:   "get-config [--source DATASTORE|URL] [--subtree XML | --xpath EXPR]",
		Short: "Retrieve configuration data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.filter()
			if err != nil {
				return err
			}
			return runOperation(cmd, g, func(s ops.OpSession) (*ops.GetReply, error) {
				return s.GetConfig(source, filter)
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "running", "Datastore name or url")
	fo.addFlags(cmd)
	return cmd
}

func newDispatchCommand(g *globalOptions) *cobra.Command {
	var (
		fo     filterOptions
		source string
	)

	cmd := &cobra.Command{
		Use:   "dispatch NAME [--source DATASTORE|URL] [--subtree XML | --xpath EXPR]",
		Short: "Issue a named rpc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.filter()
			if err != nil {
				return err
			}
			return runOperation(cmd, g, func(s ops.OpSession) (*ops.GetReply, error) {
				return s.Dispatch(args[0], source, filter)
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Datastore name or url")
	fo.addFlags(cmd)
	return cmd
}

func newSchemasCommand(g *globalOptions) *cobra.Command {
	var version, format string

	cmd := &cobra.Command{
		Use:   "schemas [ID [--version VERSION] [--format FORMAT]]",
		Short: "List the schemas supported by the device, or retrieve one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(g)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 1 {
				text, err := s.GetSchema(args[0], version, format)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			schemas, err := s.GetSchemas()
			if err != nil {
				return err
			}
			for _, schema := range schemas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", schema.Identifier, schema.Version, schema.Format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "version", "", "Schema version")
	cmd.Flags().StringVar(&format, "format", "", "Schema format, e.g. yang")
	return cmd
}
